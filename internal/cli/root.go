package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ygrebnov/layerconf"
	"github.com/ygrebnov/layerconf/streams"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitUsageError  = 2
)

var (
	errUsage    = errors.New("usage")
	errNotFound = errors.New("no value at path")
)

// app carries what the subcommands share.
type app struct {
	environ []string
	vars    map[string]string
	log     zerolog.Logger
}

// Run executes the command with args (without the program name) and the
// given environment, and returns the process exit code.
func Run(args, environ []string, stdout, stderr io.Writer) int {
	a := &app{
		environ: environ,
		vars:    env.ToMap(environ),
		log:     newLogger(stderr, zerolog.WarnLevel),
	}

	root := &cobra.Command{
		Use:           "layerconf",
		Short:         "Merge defaults, a JSON file, environment and flags into one config",
		Long:          "layerconf merges command-line flags, environment variables, a JSON config file and defaults, in that order of precedence, and prints the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(a.dumpCmd(), a.getCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		a.log.Error().Err(err).Msg("layerconf failed")
		return exitCode(err)
	}
	return ExitSuccess
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage), errors.Is(err, layerconf.ErrArgumentParse):
		return ExitUsageError
	case errors.Is(err, errNotFound),
		errors.Is(err, layerconf.ErrConfigFileNotFound),
		errors.Is(err, layerconf.ErrConfigRead),
		errors.Is(err, layerconf.ErrConfigParse),
		errors.Is(err, layerconf.ErrDefaults),
		errors.Is(err, layerconf.ErrFormat),
		errors.Is(err, layerconf.ErrWrite):
		return ExitConfigError
	default:
		// cobra errors such as unknown commands
		return ExitUsageError
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(level).
		With().
		Str("component", "layerconf").
		Logger()
}

// load reads the settings and runs the Loader over args.
func (a *app) load(args []string) (*layerconf.Config, settings, error) {
	s, err := loadSettings(a.vars)
	if err != nil {
		return nil, s, err
	}
	level, _ := zerolog.ParseLevel(s.LogLevel)
	a.log = a.log.Level(level)

	opts, err := s.loaderOptions()
	if err != nil {
		return nil, s, err
	}
	opts = append(opts,
		layerconf.WithArgs(args),
		layerconf.WithEnviron(a.environ),
		layerconf.WithStreams(streams.Zerolog(a.log, zerolog.InfoLevel, zerolog.WarnLevel)),
	)

	a.log.Debug().Strs("args", args).Str("defaults", s.Defaults).Msg("loading config")
	cfg, err := layerconf.New(opts...).Load()
	if err != nil {
		return nil, s, err
	}
	return cfg, s, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print layerconf version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "layerconf version %s\n", version)
		},
	}
}
