package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/logdissect/internal/config"
)

const testProfile = `
profile {
  root_type = "INPUT"
  fields = [
    "STRING:user",
    "STRING:uri.query.*",
    "STRING:ts.hour",
  ]
}

dissector "keyvalue" {
  fields = {
    ts   = "TIMESTAMP"
    uri  = "URI"
    user = "STRING"
  }
}

dissector "urlquery" {}
dissector "queryparam" {}
dissector "timestamp" {}
`

const testLine = `ts=21/Nov/2023:10:34:49 -0700;uri=http://example.com/search?q=golang&lang=en;user=vk`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, outW io.Writer, cfg Config) (*App, *Config) {
	t.Helper()
	cfg.ProfilePath = writeFile(t, t.TempDir(), "profile.hcl", testProfile)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	a, err := NewApp(outW, io.Discard, appConfig, config.NewLoader())
	require.NoError(t, err)
	return a, appConfig
}

func TestAppParsesRecordAcrossModules(t *testing.T) {
	a, _ := newTestApp(t, io.Discard, Config{})

	record, err := a.Parser().Parse(testLine)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"STRING:user":           "vk",
		"STRING:uri.query.q":    "golang",
		"STRING:uri.query.lang": "en",
		"STRING:ts.hour":        "10",
	}, record.Fields)
}

func TestRunEmitsJSONRecords(t *testing.T) {
	var out bytes.Buffer
	a, appConfig := newTestApp(t, &out, Config{Output: "json"})
	appConfig.InputPath = writeFile(t, t.TempDir(), "input.log", testLine+"\n"+testLine+"\n")

	require.NoError(t, a.Run(context.Background(), appConfig))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(lines[0], &fields))
	assert.Equal(t, "vk", fields["STRING:user"])
	assert.Equal(t, "golang", fields["STRING:uri.query.q"])
}

func TestRunTextOutput(t *testing.T) {
	var out bytes.Buffer
	a, appConfig := newTestApp(t, &out, Config{Output: "text"})
	appConfig.InputPath = writeFile(t, t.TempDir(), "input.log", testLine+"\n")

	require.NoError(t, a.Run(context.Background(), appConfig))
	assert.Contains(t, out.String(), `STRING:user = "vk"`)
	assert.Contains(t, out.String(), `STRING:ts.hour = "10"`)
}

func TestRunSkipsBadRecords(t *testing.T) {
	var out bytes.Buffer
	a, appConfig := newTestApp(t, &out, Config{Output: "json"})
	appConfig.InputPath = writeFile(t, t.TempDir(), "input.log",
		"ts=garbage;uri=http://e.com/?q=1;user=x\n"+testLine+"\n")

	require.NoError(t, a.Run(context.Background(), appConfig))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "the unparseable record is dropped, the run continues")
}

func TestRunShowPaths(t *testing.T) {
	var out bytes.Buffer
	a, appConfig := newTestApp(t, &out, Config{ShowPaths: true})

	require.NoError(t, a.Run(context.Background(), appConfig))

	assert.Contains(t, out.String(), "URI:uri\n")
	assert.Contains(t, out.String(), "QUERYSTRING:uri.query\n")
	assert.Contains(t, out.String(), "STRING:uri.query.*\n")
	assert.Contains(t, out.String(), "STRING:ts.hour\n")
}

func TestNewAppRejectsUnknownDissector(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.hcl", `
profile {
  root_type = "INPUT"
  fields    = ["STRING:a"]
}
dissector "no_such_module" {}
`)
	appConfig, err := NewConfig(Config{ProfilePath: profilePath, LogLevel: "error"})
	require.NoError(t, err)

	_, err = NewApp(io.Discard, io.Discard, appConfig, config.NewLoader())
	assert.ErrorContains(t, err, `unknown dissector "no_such_module"`)
}
