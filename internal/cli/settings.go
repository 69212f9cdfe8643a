package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/ygrebnov/layerconf"
)

const envPrefix = "LAYERCONF_"

// settings configure the command itself. They are read from LAYERCONF_*
// variables so every command-line token stays available to the merge.
type settings struct {
	// Defaults is a JSON file with the lowest-precedence layer.
	Defaults  string `env:"DEFAULTS"`
	Format    string `env:"FORMAT" envDefault:"json"`
	Out       string `env:"OUT"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	ConfigKey string `env:"CONFIG_KEY" envDefault:"config"`
	EnvPrefix string `env:"ENV_PREFIX"`
}

func loadSettings(vars map[string]string) (settings, error) {
	var s settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars, Prefix: envPrefix}); err != nil {
		return s, fmt.Errorf("%w: %w", errUsage, err)
	}
	switch s.Format {
	case layerconf.FormatJSON, layerconf.FormatYAML:
	default:
		return s, fmt.Errorf("%w: %sFORMAT must be %s or %s, got %q",
			errUsage, envPrefix, layerconf.FormatJSON, layerconf.FormatYAML, s.Format)
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return s, fmt.Errorf("%w: %sLOG_LEVEL: %w", errUsage, envPrefix, err)
	}
	return s, nil
}

// loaderOptions turns the settings into Loader options.
func (s settings) loaderOptions() ([]layerconf.Option, error) {
	var opts []layerconf.Option
	if s.Defaults != "" {
		defaults, err := layerconf.LoadFile(s.Defaults)
		if err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
		opts = append(opts, layerconf.WithDefaults(defaults))
	}
	if s.ConfigKey != "" {
		opts = append(opts, layerconf.WithConfigKey(s.ConfigKey))
	}
	if s.EnvPrefix != "" {
		opts = append(opts, layerconf.WithEnvPrefix(s.EnvPrefix))
	}
	return opts, nil
}
