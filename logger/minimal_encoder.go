package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI codes used by one console theme
type palette struct {
	fg        string
	time      string
	id        string
	number    string
	component []string
	layout    string
	client    string
	lifecycle string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	layout:    "\x1b[38;5;142m",
	client:    "\x1b[38;5;109m",
	lifecycle: "\x1b[38;5;208m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	layout:    "\x1b[38;5;108m",
	client:    "\x1b[38;5;107m",
	lifecycle: "\x1b[38;5;65m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Current active theme (set from config or SONGNET_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "everforest" {
		return everforest
	}
	return gruvbox
}

func colorComponent(name string) string {
	// Hash for consistent color per component
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	return p.component[hash%len(p.component)]
}

func colorMessage(msg string) string {
	lower := strings.ToLower(msg)
	p := colors()

	switch {
	case strings.Contains(lower, "layout") || strings.Contains(lower, "render") ||
		strings.Contains(lower, "settle") || strings.Contains(lower, "radial"):
		return p.layout
	case strings.Contains(lower, "client") || strings.Contains(lower, "connected") ||
		strings.Contains(lower, "websocket"):
		return p.client
	case strings.Contains(lower, "starting") || strings.Contains(lower, "started") ||
		strings.Contains(lower, "config") || strings.Contains(lower, "dataset"):
		return p.lifecycle
	}
	return p.fg
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  layout  Render complete  force (42 nodes, 61 links) generation=3"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()
	p := colors()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-INFO with bold + background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorMessage(ent.Message))
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(fields))
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-INFO levels
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.DebugLevel:
		return p.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: server.client -> s.client
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValue renders a zap field value as plain text
func fieldValue(field zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	v, ok := enc.Fields[field.Key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// formatFields renders every field. Graph stats collapse to "(N nodes, M links)",
// ids get the id color, everything else is key=value in key order.
func formatFields(fields []zapcore.Field) string {
	p := colors()
	var values []string
	var nodeCount, linkCount string
	var rest []string

	for _, field := range fields {
		val := fieldValue(field)
		switch field.Key {
		case FieldMode, FieldClientID, FieldNodeID:
			values = append(values, p.id+val+colorReset)
		case FieldNodes:
			nodeCount = val
		case FieldLinks:
			linkCount = val
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		default:
			if field.Type == zapcore.SkipType {
				continue
			}
			rest = append(rest, field.Key+"="+val)
		}
	}

	if nodeCount != "" && linkCount != "" {
		values = append(values, p.fg+"("+p.number+nodeCount+colorReset+p.fg+" nodes, "+
			p.number+linkCount+colorReset+p.fg+" links)"+colorReset)
	} else if nodeCount != "" {
		rest = append(rest, FieldNodes+"="+nodeCount)
	} else if linkCount != "" {
		rest = append(rest, FieldLinks+"="+linkCount)
	}

	sort.Strings(rest)
	values = append(values, rest...)
	return strings.Join(values, " ")
}
