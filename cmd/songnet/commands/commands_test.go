package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/songnet/am"
	"github.com/teranos/songnet/errors"
	songtest "github.com/teranos/songnet/internal/testing"
	"github.com/teranos/songnet/render"
)

func defaultConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "songs.json")
	require.NoError(t, os.WriteFile(p, []byte(songtest.SampleJSON), 0644))
	return p
}

func newTestConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()
	sess, err := startSession(defaultConfig(t), headlessTick)
	require.NoError(t, err)
	t.Cleanup(sess.Stop)

	out := &bytes.Buffer{}
	return &console{sess: sess, out: out}, out
}

func TestConsoleExec(t *testing.T) {
	c, out := newTestConsole(t)
	ctx := context.Background()
	path := writeSample(t)

	require.NoError(t, c.exec(ctx, "load "+path))
	assert.Contains(t, out.String(), "loaded "+path)

	out.Reset()
	require.NoError(t, c.exec(ctx, `search 'Gamma Ray'`))
	assert.Equal(t, "1 match(es): 3\n", out.String())

	out.Reset()
	require.NoError(t, c.exec(ctx, `search gamma ray`))
	assert.Equal(t, "1 match(es): 3\n", out.String(), "unquoted words join into one term")

	out.Reset()
	require.NoError(t, c.exec(ctx, "wait"))
	assert.Equal(t, "settled\n", out.String())

	out.Reset()
	require.NoError(t, c.exec(ctx, "status"))
	assert.Contains(t, out.String(), "layout=force filter=all")
	assert.Contains(t, out.String(), "nodes=3")

	out.Reset()
	require.NoError(t, c.exec(ctx, "show"))
	assert.Contains(t, out.String(), "Gamma Ray")
	assert.Contains(t, out.String(), "searched")

	require.NoError(t, c.exec(ctx, "hover 2"))
	require.NoError(t, c.exec(ctx, "unhover"))
	require.NoError(t, c.exec(ctx, "layout radial"))
	require.NoError(t, c.exec(ctx, "   "))
	assert.False(t, c.quit)

	require.NoError(t, c.exec(ctx, "QUIT"))
	assert.True(t, c.quit)
}

func TestConsoleExec_Errors(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()
	require.NoError(t, c.exec(ctx, "load "+writeSample(t)))

	tests := []struct {
		name     string
		line     string
		contains string
		hasHint  bool
	}{
		{"invalid layout", "layout spiral", "spiral", true},
		{"invalid filter", "filter loud", "loud", true},
		{"missing argument", "sort", "sort takes 1 argument(s), got 0", false},
		{"hidden node", "hover 42", "not visible", false},
		{"unknown command", "explode", `unknown command "explode"`, true},
		{"unterminated quote", `search "gamma`, "cannot parse line", true},
		{"missing file", "load nope.json", "nope.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.exec(ctx, tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.hasHint {
				assert.NotEmpty(t, errors.GetAllHints(err))
			}
		})
	}
}

func TestConsoleRun(t *testing.T) {
	c, out := newTestConsole(t)
	ctx := context.Background()
	require.NoError(t, c.exec(ctx, "load "+writeSample(t)))
	out.Reset()

	in := strings.NewReader("filter popular\nstatus\nbogus\nquit\nstatus\n")
	require.NoError(t, c.run(ctx, in))

	got := out.String()
	assert.Equal(t, 1, strings.Count(got, "layout="), "lines after quit are not run")
	assert.Contains(t, got, "filter=popular")
	assert.Contains(t, got, `error: unknown command "bogus"`)
	assert.Contains(t, got, "hint: type help")
	assert.Equal(t, 4, strings.Count(got, consolePrompt))
}

func TestWriteConfig(t *testing.T) {
	cfg := defaultConfig(t)

	tests := []struct {
		format string
		want   []string
	}{
		{"toml", []string{"# songnet configuration", "[canvas]", "width = 960"}},
		{"yaml", []string{"# songnet configuration", "canvas:", "width: 960"}},
		{"json", []string{`"canvas": {`, `"width": 960`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeConfig(&buf, cfg, tt.format))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		err := writeConfig(&bytes.Buffer{}, cfg, "ini")
		require.Error(t, err)
		assert.Equal(t, []string{"supported formats are toml, json and yaml"}, errors.GetAllHints(err))
	})
}

func TestNodeRows(t *testing.T) {
	rows := nodeRows(render.Snapshot{Nodes: []render.NodeState{
		{ID: "7", Name: "Zeta", Artist: "Cygnus", Playcount: 90, Radius: 12, X: 480.04, Y: -3.96, Style: render.NodeNormal},
	}})

	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []string{"7", "Zeta", "Cygnus", "90", "12.0", "480.0", "-4.0", "normal"}, rows[1])
}

func TestLayoutJSON(t *testing.T) {
	sess, err := startSession(defaultConfig(t), headlessTick)
	require.NoError(t, err)
	defer sess.Stop()

	ctx := context.Background()
	require.NoError(t, loadDataset(ctx, sess, writeSample(t)))
	require.NoError(t, applyModes(sess.Session, "radial", "popular", "links"))
	require.NoError(t, sess.WaitSettled(ctx))

	st, err := sess.Status()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeLayoutJSON(&buf, layoutResult{Status: st, Snapshot: sess.Snapshot()}))

	var decoded struct {
		Status struct {
			Mode    string `json:"mode"`
			Filter  string `json:"filter"`
			Sort    string `json:"sort"`
			Settled bool   `json:"settled"`
		} `json:"status"`
		Snapshot render.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "radial", decoded.Status.Mode)
	assert.Equal(t, "popular", decoded.Status.Filter)
	assert.Equal(t, "links", decoded.Status.Sort)
	assert.True(t, decoded.Status.Settled)
	assert.NotEmpty(t, decoded.Snapshot.Nodes)
}

func TestApplyModes_RejectsInvalid(t *testing.T) {
	sess, err := startSession(defaultConfig(t), headlessTick)
	require.NoError(t, err)
	defer sess.Stop()

	err = applyModes(sess.Session, "force", "all", "alphabetical")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphabetical")
}

func TestVersionCmd_JSON(t *testing.T) {
	var buf bytes.Buffer
	VersionCmd.SetOut(&buf)
	VersionCmd.SetArgs([]string{"--json"})
	defer VersionCmd.SetOut(nil)

	require.NoError(t, VersionCmd.Execute())

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "dev", info["version"])
	assert.NotEmpty(t, info["go_version"])
}
