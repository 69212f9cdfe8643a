package layerconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInaccessiblePath        = errors.New("inaccessible path")
	ErrCannotCreateDirectories = errors.New("cannot create directories")
)

// EnsurePath ensures the directories for a file path exist and the path
// does not already exist as a directory.
func EnsurePath(p string) error {
	info, err := os.Stat(p)
	switch {
	case err == nil:
		if info.IsDir() {
			return ErrInaccessiblePath
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return ErrInaccessiblePath
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ErrCannotCreateDirectories
	}
	return nil
}

// LoadFile reads a JSON config file whose top level is an object.
// The returned error is a *FileError wrapping ErrConfigFileNotFound when the
// file does not exist, ErrConfigRead when it cannot be read, or ErrConfigParse
// when it is not a JSON object.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FileError{Path: path, Err: ErrConfigFileNotFound}
		}
		return nil, &FileError{Path: path, Err: fmt.Errorf("%w: %w", ErrConfigRead, err)}
	}
	obj, err := parseJSONObject(data)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return obj, nil
}

func parseJSONObject(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object, got %s", ErrConfigParse, jsonKind(v))
	}
	return obj, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// findConfigFile returns the first positional argument naming a JSON file.
func findConfigFile(positionals []string) string {
	for _, p := range positionals {
		if hasJSONSuffix(p) {
			return p
		}
	}
	return ""
}

func hasJSONSuffix(s string) bool {
	return len(s) >= len(jsonExt) && strings.EqualFold(s[len(s)-len(jsonExt):], jsonExt)
}

// normalizeDefaults turns defaults into the same shape a parsed JSON file has,
// so numbers become float64 and structs become maps.
func normalizeDefaults(defaults any) (map[string]any, error) {
	data, err := json.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDefaults, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDefaults, err)
	}
	switch obj := v.(type) {
	case map[string]any:
		return obj, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("%w: must encode to an object, got %s", ErrDefaults, jsonKind(v))
	}
}

// cloneTree deep-copies maps and slices; scalars are shared.
func cloneTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneTree(e)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneTree(v)
	}
	return out
}

func writeToFile(path string, data []byte) error {
	if err := EnsurePath(path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "temp-config-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
