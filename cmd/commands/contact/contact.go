package contact

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "contact" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Create owner and technical contacts",
		Long: `Create the contacts a domain is registered with.

Two models exist: "owner" for the domain holder organisation or person,
and "tech" for technical, administrative and zone contact persons.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(FieldsCommand())

	return cmd
}
