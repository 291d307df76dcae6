package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/session"
	"nathanbeddoewebdev/hureg/internal/tui"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided and running in a terminal, opens an interactive\n" +
			"config viewer where you can browse and edit all settings.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  hureg config get                 # interactive viewer\n" +
			"  hureg config get registrar       # print a single value\n" +
			"  hureg config get endpoint        # the registry URL in effect\n" +
			"  hureg config get -o json         # every key, for scripts",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the argument)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		name = args[0]
	}
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	name = util.NormalizeKey(name)
	if name == "" && output == "text" && cli.IsInteractive() {
		if err := tui.RunConfigView(); err != nil {
			return fmt.Errorf("config view failed: %w", err)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if name == "" {
		return printAll(cmd, cfg, output)
	}

	var value string
	switch spec := config.Lookup(name); {
	case name == "endpoint":
		// Derived from url and environment, never stored.
		value = session.Endpoint(cfg)
	case spec == nil:
		return fmt.Errorf("unknown configuration key %q (valid: %s)", name, strings.Join(config.KeyNames(), ", "))
	default:
		value = spec.Get(cfg)
	}

	if output == "json" {
		return printJSON(cmd, map[string]string{name: value})
	}
	if value == "" {
		value = "not set"
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// printAll writes every key, unset ones as "(not set)" in text mode and as
// empty strings in JSON.
func printAll(cmd *cobra.Command, cfg *config.Config, output string) error {
	if output == "json" {
		values := make(map[string]string, len(config.Keys)+1)
		for _, spec := range config.Keys {
			values[spec.Name] = spec.Get(cfg)
		}
		values["endpoint"] = session.Endpoint(cfg)
		return printJSON(cmd, values)
	}

	for _, spec := range config.Keys {
		value := spec.Get(cfg)
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
