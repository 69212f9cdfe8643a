package layerconf

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Config.Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the merged configuration returned by Loader.Load.
type Config struct {
	values map[string]any
	args   []string
	file   string
}

// Get returns the value at a dot-path such as "server.port", or nil when any
// segment along the path is missing. Array elements are addressed by index
// ("hosts.0"). Returned maps and slices belong to the Config and must not be
// modified; use Map for a private copy.
func (c *Config) Get(path string) any {
	v, _ := c.Lookup(path)
	return v
}

// Lookup is Get with an explicit presence flag. The empty path addresses the
// whole tree.
func (c *Config) Lookup(path string) (any, bool) {
	var node any = c.values
	if path == "" {
		return node, true
	}
	for _, seg := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// Map returns a deep copy of the merged tree.
func (c *Config) Map() map[string]any {
	return cloneMap(c.values)
}

// Args returns the positional command-line arguments.
func (c *Config) Args() []string {
	return slices.Clone(c.args)
}

// File returns the path of the config file that was read, or "".
func (c *Config) File() string {
	return c.file
}

// Marshal encodes the merged tree as FormatJSON (indented) or FormatYAML.
func (c *Config) Marshal(format string) (data []byte, err error) {
	// Encoders may panic on kinds they cannot represent (e.g. func values).
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w as %s: %v", ErrFormat, format, r)
		}
	}()

	switch strings.ToLower(format) {
	case FormatJSON:
		data, err = json.MarshalIndent(c.values, "", "  ")
	case FormatYAML, "yml":
		data, err = yaml.Marshal(c.values)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrFormat, format, err)
	}
	return data, nil
}

// WriteFile stores the merged tree at path, creating parent directories. The
// format follows the extension: .json, or .yaml/.yml. The file is replaced
// atomically.
func (c *Config) WriteFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != jsonExt {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	data, err := c.Marshal(strings.TrimPrefix(ext, "."))
	if err != nil {
		return err
	}
	return writeToFile(path, data)
}
