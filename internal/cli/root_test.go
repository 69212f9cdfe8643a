package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, p, data string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func run(t *testing.T, args, environ []string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(args, environ, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Dump(t *testing.T) {
	td := t.TempDir()
	defaults := writeFile(t, filepath.Join(td, "defaults.json"), `{"server":{"port":8080,"debug":false}}`)
	environ := []string{"LAYERCONF_DEFAULTS=" + defaults, "SERVER_PORT=9090"}

	code, stdout, stderr := run(t, []string{"dump", "--server.debug"}, environ)
	require.Equal(t, ExitSuccess, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, map[string]any{"server": map[string]any{"port": float64(9090), "debug": true}}, got)
}

func TestRun_DumpYAML(t *testing.T) {
	code, stdout, stderr := run(t, []string{"dump", "--name=svc", "--replicas", "3"}, []string{"LAYERCONF_FORMAT=yaml"})
	require.Equal(t, ExitSuccess, code, stderr)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, map[string]any{"name": "svc", "replicas": 3}, got)
}

func TestRun_DumpToFile(t *testing.T) {
	td := t.TempDir()
	file := writeFile(t, filepath.Join(td, "app.json"), `{"server":{"port":3000}}`)
	out := filepath.Join(td, "out", "merged.yaml")

	code, stdout, stderr := run(t, []string{"dump", file}, []string{"LAYERCONF_OUT=" + out, "LAYERCONF_LOG_LEVEL=info"})
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "config: loaded from "+file)
	assert.Contains(t, stderr, "config written")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.YAMLEq(t, "server:\n  port: 3000\n", string(data))
}

func TestRun_ConfigKey(t *testing.T) {
	td := t.TempDir()
	extra := writeFile(t, filepath.Join(td, "extra.json"), `{"port":1}`)

	code, stdout, stderr := run(t, []string{"get", "port", "--port=2", "--config", extra}, nil)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "1\n", stdout)

	code, stdout, stderr = run(t, []string{"get", "port", "--port=2", "--config", extra}, []string{"LAYERCONF_CONFIG_KEY=cfg"})
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "2\n", stdout)
}

func TestRun_EnvPrefix(t *testing.T) {
	td := t.TempDir()
	defaults := writeFile(t, filepath.Join(td, "defaults.json"), `{"db":{"host":"localhost"}}`)
	environ := []string{"LAYERCONF_DEFAULTS=" + defaults, "LAYERCONF_ENV_PREFIX=APP", "APP_DB_HOST=db", "DB_HOST=ignored"}

	code, stdout, stderr := run(t, []string{"get", "db.host"}, environ)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "\"db\"\n", stdout)
}

func TestRun_Get(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
	}{
		{name: "scalar", args: []string{"get", "a.b", "--a.b=on"}, wantCode: ExitSuccess, wantStdout: "true\n"},
		{name: "object", args: []string{"get", "a", "--a.b=1"}, wantCode: ExitSuccess, wantStdout: "{\"b\":1}\n"},
		{name: "missing path", args: []string{"get", "a.x", "--a.b=1"}, wantCode: ExitConfigError},
		{name: "no path", args: []string{"get"}, wantCode: ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args, nil)
			require.Equal(t, tt.wantCode, code, stderr)
			assert.Equal(t, tt.wantStdout, stdout)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	td := t.TempDir()
	missing := filepath.Join(td, "missing.json")
	dir := filepath.Join(td, "dir.json")
	require.NoError(t, os.Mkdir(dir, 0o755))

	tests := []struct {
		name       string
		args       []string
		environ    []string
		wantCode   int
		wantStderr string
	}{
		{
			name:       "missing config file",
			args:       []string{"dump", missing},
			wantCode:   ExitConfigError,
			wantStderr: "config file not found",
		},
		{
			name:       "unreadable config file",
			args:       []string{"dump", dir},
			wantCode:   ExitConfigError,
			wantStderr: "read config file",
		},
		{
			name:       "missing defaults file",
			args:       []string{"dump"},
			environ:    []string{"LAYERCONF_DEFAULTS=" + missing},
			wantCode:   ExitConfigError,
			wantStderr: "defaults",
		},
		{
			name:       "malformed argument",
			args:       []string{"dump", "--a..b=1"},
			wantCode:   ExitUsageError,
			wantStderr: "parse arguments",
		},
		{
			name:       "bad format",
			args:       []string{"dump"},
			environ:    []string{"LAYERCONF_FORMAT=toml"},
			wantCode:   ExitUsageError,
			wantStderr: "LAYERCONF_FORMAT",
		},
		{
			name:       "bad log level",
			args:       []string{"dump"},
			environ:    []string{"LAYERCONF_LOG_LEVEL=loud"},
			wantCode:   ExitUsageError,
			wantStderr: "LAYERCONF_LOG_LEVEL",
		},
		{
			name:       "unknown command",
			args:       []string{"frobnicate"},
			wantCode:   ExitUsageError,
			wantStderr: "unknown command",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args, tt.environ)
			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := run(t, []string{"version"}, nil)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "layerconf version "+version+"\n", stdout)
}
