package auth

import (
	"fmt"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/services/auth"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which registrar secrets are stored",
		Long: `Show which registrar secrets are stored in the keychain.

Example:
  hureg auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Use TUI in interactive terminal.
			if cli.IsInteractive() {
				if err := tui.RunAuthStatus(cfg.Registrar, store); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			registrar := cfg.Registrar
			if registrar == "" {
				registrar = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registrar: %s\n", registrar)
			for _, st := range tui.SecretStatuses(store) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", st.Key, st.Status)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
