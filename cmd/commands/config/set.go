package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. Values are checked before\n" +
			"they are saved.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  hureg config set environment test\n" +
			"  hureg config set registrar-id 1234\n" +
			"  hureg config set timeout 45s",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) {
	value := strings.TrimSpace(args[1])
	updateKey(cmd, args[0], func(spec *config.KeySpec, cfg *config.Config) string {
		if spec.Fold {
			value = util.NormalizeKey(value)
		}
		spec.Set(cfg, value)
		return fmt.Sprintf("%s set to %q", spec.Name, value)
	})
}

// UnsetCommand returns the "config unset" command.
func UnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Clear a configuration value",
		Long: "Clear a persistent configuration value so the built-in default\n" +
			"applies again.\n\n" +
			"Examples:\n" +
			"  hureg config unset url\n" +
			"  hureg config unset timeout",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			updateKey(cmd, args[0], func(spec *config.KeySpec, cfg *config.Config) string {
				spec.Set(cfg, "")
				return spec.Name + " cleared"
			})
		},
	}
}

// updateKey loads the config, lets change modify the key named by raw and
// saves the result. Problems are reported on stderr; the command itself
// never fails so scripts can probe keys.
func updateKey(cmd *cobra.Command, raw string, change func(*config.KeySpec, *config.Config) string) {
	stderr := cmd.ErrOrStderr()

	spec := config.Lookup(util.NormalizeKey(raw))
	if spec == nil {
		fmt.Fprintf(stderr, "Error: unknown configuration key %q\n", raw)
		fmt.Fprintf(stderr, "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	cfg, err := config.Load()
	if err == nil {
		done := change(spec, cfg)
		if err = cfg.Save(); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), done)
			return
		}
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
