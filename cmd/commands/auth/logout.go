package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/hureg/internal/platform/credentials"
	"nathanbeddoewebdev/hureg/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove registrar secrets from the keychain",
		Long: `Remove every stored registrar secret from the keychain.

Example:
  hureg auth logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()
			removed := 0
			for _, key := range credentials.Keys() {
				err := store.DeleteSecret(key)
				switch {
				case err == nil:
					removed++
				case errors.Is(err, auth.ErrSecretNotFound):
				default:
					return fmt.Errorf("failed to remove %s: %w", key, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d secret(s).\n", removed)
			return nil
		},
		SilenceUsage: true,
	}
}
