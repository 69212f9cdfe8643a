package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [flags and arguments to merge]",
		Short: "Print the merged configuration",
		Long: `Print the merged configuration as JSON or YAML (LAYERCONF_FORMAT).
All arguments are merged: --a.b=1 sets a.b, a positional *.json names the config file.
With LAYERCONF_OUT set the result is written to that file (.json, .yaml or .yml) instead.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := a.load(args)
			if err != nil {
				return err
			}
			if s.Out != "" {
				if err := cfg.WriteFile(s.Out); err != nil {
					return err
				}
				a.log.Info().Str("path", s.Out).Msg("config written")
				return nil
			}
			data, err := cfg.Marshal(s.Format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [flags and arguments to merge]",
		Short: "Print one value of the merged configuration as JSON",
		Long: `Print the value at a dot-path (e.g. server.port) of the merged configuration.
Exits with code 1 when the path does not exist.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: get requires a path", errUsage)
			}
			cfg, _, err := a.load(args[1:])
			if err != nil {
				return err
			}
			v, ok := cfg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w %q", errNotFound, args[0])
			}
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
