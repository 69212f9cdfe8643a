package layerconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, p, data string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestLoadFile(t *testing.T) {
	td := t.TempDir()

	okPath := writeFile(t, filepath.Join(td, "good.json"), `{"server":{"port":3000},"name":"carol"}`)
	badPath := writeFile(t, filepath.Join(td, "bad.json"), `{"name":"dave","count":,}`)
	arrayPath := writeFile(t, filepath.Join(td, "array.json"), `[1,2]`)
	nullPath := writeFile(t, filepath.Join(td, "null.json"), `null`)
	missingPath := filepath.Join(td, "missing.json")
	dirPath := filepath.Join(td, "dir.json")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	tests := []struct {
		name      string
		path      string
		want      map[string]any
		wantErrIs error
	}{
		{
			name: "object",
			path: okPath,
			want: map[string]any{"server": map[string]any{"port": float64(3000)}, "name": "carol"},
		},
		{
			name:      "missing file",
			path:      missingPath,
			wantErrIs: ErrConfigFileNotFound,
		},
		{
			name:      "directory",
			path:      dirPath,
			wantErrIs: ErrConfigRead,
		},
		{
			name:      "invalid json",
			path:      badPath,
			wantErrIs: ErrConfigParse,
		},
		{
			name:      "top-level array",
			path:      arrayPath,
			wantErrIs: ErrConfigParse,
		},
		{
			name:      "top-level null",
			path:      nullPath,
			wantErrIs: ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFile(tt.path)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				var fe *FileError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.path, fe.Path)
				assert.False(t, fe.Inline)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_ParseErrorCarriesParserMessage(t *testing.T) {
	p := writeFile(t, filepath.Join(t.TempDir(), "bad.json"), `{"a":`)

	_, err := LoadFile(p)
	require.ErrorIs(t, err, ErrConfigParse)
	assert.NotErrorIs(t, err, ErrConfigFileNotFound)
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	assert.Contains(t, err.Error(), p)
}

func TestFindConfigFile(t *testing.T) {
	tests := []struct {
		name        string
		positionals []string
		want        string
	}{
		{name: "none", positionals: nil, want: ""},
		{name: "no json", positionals: []string{"serve", "notes.txt"}, want: ""},
		{name: "first match wins", positionals: []string{"serve", "a.json", "b.json"}, want: "a.json"},
		{name: "case-insensitive suffix", positionals: []string{"CONF.JSON"}, want: "CONF.JSON"},
		{name: "bare extension", positionals: []string{".json"}, want: ".json"},
		{name: "json inside name only", positionals: []string{"a.json.bak"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findConfigFile(tt.positionals))
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	type server struct {
		Port  int  `json:"port"`
		Debug bool `json:"debug"`
	}
	type defaults struct {
		Server server `json:"server"`
	}

	got, err := normalizeDefaults(defaults{Server: server{Port: 8080}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"server": map[string]any{"port": float64(8080), "debug": false}}, got)

	got, err = normalizeDefaults(map[string]any{"n": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, got)

	_, err = normalizeDefaults([]int{1})
	require.ErrorIs(t, err, ErrDefaults)

	_, err = normalizeDefaults(map[string]any{"f": func() {}})
	require.ErrorIs(t, err, ErrDefaults)
}
