package layerconf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ygrebnov/layerconf/streams"
)

const (
	jsonExt          = ".json"
	configPathEnvKey = "config_path"
)

// Exported error categories returned by this package. These are used with wrapping
// so callers can detect error classes using errors.Is/As.
//   - ErrConfigFileNotFound: an explicitly referenced config file does not exist.
//   - ErrConfigRead: a config file exists but cannot be read.
//   - ErrConfigParse: a config file or inline JSON literal failed to parse.
//   - ErrArgumentParse: a malformed command-line token.
//   - ErrDefaults: the defaults value cannot be represented as a JSON object.
//   - ErrUnsupportedFormat: output format is neither json nor yaml.
//   - ErrFormat: failure to marshal a config to bytes.
//   - ErrWrite: failure to write the config file to disk.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigRead         = errors.New("read config file")
	ErrConfigParse        = errors.New("parse config")
	ErrArgumentParse      = errors.New("parse arguments")
	ErrDefaults           = errors.New("invalid defaults")
	ErrUnsupportedFormat  = errors.New("unsupported config format")
	ErrFormat             = errors.New("format config")
	ErrWrite              = errors.New("write to config file")
)

// FileError describes a failure to read or parse a JSON config source.
// Err always wraps ErrConfigFileNotFound, ErrConfigRead or ErrConfigParse.
type FileError struct {
	// Path is the file path, or the literal text when Inline is set.
	Path   string
	Inline bool
	Err    error
}

func (e *FileError) Error() string {
	if e.Inline {
		return fmt.Sprintf("inline config %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Loader merges command-line arguments, environment variables, an optional JSON
// config file and defaults into one Config. Precedence, highest first:
//  1. Command line: --my.setting=100
//  2. Environment: MY_SETTING=100 (names are matched case-insensitively, "." == "_")
//  3. Config file: the first positional argument ending in .json
//  4. Defaults
//
// When WithConfigKey is set, a string value under that key in the merged result
// may reference one more JSON source (a .json path or an inline {...} literal)
// which is applied on top of everything else.
//
// A Loader holds only its inputs. Every call to Load recomputes the result from
// scratch, so repeated calls never share state.
type Loader struct {
	defaults  any
	args      []string
	env       map[string]string
	envPrefix string
	configKey string
	streams   streams.IOStreams
}

// Option configures a Loader at construction time. Options are composable and
// can be passed to New in any order.
type Option func(*Loader)

// New constructs a Loader and applies all given options. Without options the
// Loader merges nothing and Load returns an empty Config.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithDefaults sets the lowest-precedence layer. defaults must encode to a JSON
// object: a map[string]any or a struct with json tags. Panics if defaults is nil.
func WithDefaults(defaults any) Option {
	return func(l *Loader) {
		if defaults == nil {
			panic("layerconf: WithDefaults: defaults cannot be nil")
		}
		l.defaults = defaults
	}
}

// WithArgs sets the command-line tokens, without the program name.
func WithArgs(args []string) Option {
	return func(l *Loader) {
		l.args = append([]string(nil), args...)
	}
}

// WithEnv sets the environment as a flat name to value map.
func WithEnv(vars map[string]string) Option {
	return func(l *Loader) {
		l.env = make(map[string]string, len(vars))
		for k, v := range vars {
			l.env[k] = v
		}
	}
}

// WithEnviron sets the environment from a list of KEY=VALUE entries as returned
// by os.Environ.
func WithEnviron(environ []string) Option {
	return func(l *Loader) {
		l.env = env.ToMap(environ)
	}
}

// WithEnvPrefix restricts environment overrides to variables named
// <prefix>_<path>, e.g. prefix "MYAPP" maps MYAPP_SERVER_PORT to server.port.
// The Loader also honors <prefix>_CONFIG_PATH as the config file path when no
// .json positional argument is given. Panics if prefix is empty.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		if prefix == "" {
			panic("layerconf: WithEnvPrefix: prefix cannot be empty")
		}
		l.envPrefix = prefix
	}
}

// WithConfigKey enables the top-priority config source referenced by the given
// top-level key, e.g. --config=extra.json or --config='{"a":1}'.
// Panics if key is empty.
func WithConfigKey(key string) Option {
	return func(l *Loader) {
		if key == "" {
			panic("layerconf: WithConfigKey: key cannot be empty")
		}
		l.configKey = key
	}
}

// WithStreams wires user-facing message streams (e.g. for "loaded from"
// notifications). Pass adapters from the companion streams package to route
// output to buffers, loggers, or io.Discard.
func WithStreams(s streams.IOStreams) Option {
	return func(l *Loader) {
		l.streams = s
	}
}

// Load runs the whole pipeline: parse arguments, locate and read the config
// file, merge all layers, apply the config key source and decode string values.
// On error no Config is returned.
func (l *Loader) Load() (*Config, error) {
	cmdline, positionals, err := ParseArgs(l.args)
	if err != nil {
		return nil, err
	}

	defaults := map[string]any{}
	if l.defaults != nil {
		if defaults, err = normalizeDefaults(l.defaults); err != nil {
			return nil, err
		}
	}

	envMap := buildEnvMap(l.env, l.envPrefix)

	path := findConfigFile(positionals)
	if path == "" && l.envPrefix != "" {
		path = envMap[configPathEnvKey]
	}
	var file map[string]any
	if path != "" {
		if file, err = LoadFile(path); err != nil {
			return nil, err
		}
		l.notify("config: loaded from %s\n", path)
	}

	base, err := Merge(file, defaults)
	if err != nil {
		return nil, err
	}
	overlayEnv(base, envMap, "")

	merged, err := Merge(cmdline, base)
	if err != nil {
		return nil, err
	}

	if l.configKey != "" {
		if merged, err = l.applyConfigKey(merged); err != nil {
			return nil, err
		}
	}

	values, _ := DecodeTree(merged).(map[string]any)
	return &Config{values: values, args: positionals, file: path}, nil
}

func (l *Loader) applyConfigKey(merged map[string]any) (map[string]any, error) {
	ref, ok := merged[l.configKey].(string)
	if !ok {
		return merged, nil
	}

	var (
		extra map[string]any
		err   error
	)
	trimmed := strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}"):
		extra, err = parseJSONObject([]byte(trimmed))
		if err != nil {
			return nil, &FileError{Path: trimmed, Inline: true, Err: err}
		}
	case hasJSONSuffix(trimmed):
		if extra, err = LoadFile(trimmed); err != nil {
			return nil, err
		}
		l.notify("config: loaded from %s\n", trimmed)
	default:
		return merged, nil
	}
	return Merge(extra, merged)
}

func (l *Loader) notify(format string, args ...any) {
	if l.streams != nil && l.streams.Out() != nil {
		fmt.Fprintf(l.streams.Out(), format, args...)
	}
}

// Load merges defaults, the JSON file named among args, the environment and the
// command line. vars is a flat name to value map; pass nil for no environment.
func Load(defaults any, args []string, vars map[string]string) (*Config, error) {
	opts := []Option{WithArgs(args), WithEnv(vars)}
	if defaults != nil {
		opts = append(opts, WithDefaults(defaults))
	}
	return New(opts...).Load()
}

// FromProcess is Load over os.Args[1:] and os.Environ().
func FromProcess(defaults any) (*Config, error) {
	var args []string
	if len(os.Args) > 1 {
		args = os.Args[1:]
	}
	opts := []Option{WithArgs(args), WithEnviron(os.Environ())}
	if defaults != nil {
		opts = append(opts, WithDefaults(defaults))
	}
	return New(opts...).Load()
}
