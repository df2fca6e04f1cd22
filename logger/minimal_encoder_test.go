package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := newMinimalEncoder().EncodeEntry(ent, fields)
	require.NoError(t, err)
	return buf.String()
}

func TestMinimalEncoderMessage(t *testing.T) {
	out := encode(t, zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "layout",
		Message:    "Render complete",
	})

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "layout")
	assert.Contains(t, out, "Render complete")
	assert.NotContains(t, out, "INFO")
}

func TestMinimalEncoderLevels(t *testing.T) {
	out := encode(t, zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "stale"})
	assert.Contains(t, out, "WARN")

	out = encode(t, zapcore.Entry{Level: zapcore.ErrorLevel, Time: time.Now(), Message: "boom"})
	assert.Contains(t, out, "ERROR")
}

func TestMinimalEncoderFields(t *testing.T) {
	out := encode(t,
		zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "Render complete"},
		zap.String(FieldMode, "radial"),
		zap.Int(FieldNodes, 42),
		zap.Int(FieldLinks, 61),
		zap.Int(FieldGeneration, 3),
		zap.String(FieldFilter, "popular"),
	)

	assert.Contains(t, out, "radial")
	assert.Contains(t, out, " nodes, ")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "61")
	assert.Contains(t, out, "generation=3")
	assert.Contains(t, out, "filter=popular")
}

func TestMinimalEncoderLoneCount(t *testing.T) {
	out := encode(t,
		zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "dataset loaded"},
		zap.Int(FieldNodes, 7),
	)
	assert.Contains(t, out, "nodes=7")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "s.client", abbreviateName("server.client"))
	assert.Equal(t, "layout", abbreviateName("layout"))
}
