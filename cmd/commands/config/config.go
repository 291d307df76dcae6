package config

import (
	"nathanbeddoewebdev/hureg/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hureg configuration",
		Long: "View and modify persistent hureg settings.\n\n" +
			"Configuration is stored at ~/.config/hureg/config.json. Secrets are\n" +
			"kept in the keychain instead (see 'hureg auth login').\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(UnsetCommand())

	return cmd
}
