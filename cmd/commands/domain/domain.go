package domain

import (
	"context"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// NewCommand returns the "domain" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Look up and manage .hu domains",
		Long: `Look up, register and reconfigure .hu domains at the registry.

Lookups retry transient network failures. Commands that change a domain
are sent once and recorded in the local audit log.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(InfoCommand())
	cmd.AddCommand(CheckCommand())
	cmd.AddCommand(StateCommand())
	cmd.AddCommand(ExpiryCommand())
	cmd.AddCommand(OwnedCommand())
	cmd.AddCommand(SearchCommand())
	cmd.AddCommand(RegisterCommand())
	cmd.AddCommand(ActivateCommand())
	cmd.AddCommand(DeactivateCommand())
	cmd.AddCommand(SetStateCommand())
	cmd.AddCommand(RenewCommand())
	cmd.AddCommand(TransferCommand())
	cmd.AddCommand(NSCommand())
	cmd.AddCommand(UploadCommand())

	return cmd
}

// perform runs a registry change, behind a spinner when attached to a
// terminal.
func perform(cmd *cobra.Command, title string, action func(ctx context.Context) error) error {
	if cli.IsInteractive() {
		return tui.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), title, action)
	}
	return action(cmd.Context())
}
