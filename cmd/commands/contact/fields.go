package contact

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/hureg/internal/registry/contact"

	"github.com/spf13/cobra"
)

// FieldsCommand returns the "contact fields" command.
func FieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <owner|tech>",
		Short: "List the fields of a contact model",
		Long: `List the fields of a contact model in registry order, with the wire
tag and the name accepted by --field.

Example:
  hureg contact fields owner`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{contact.Owner.Kind, contact.Technical.Kind},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, ok := contact.Lookup(strings.ToLower(strings.TrimSpace(args[0])))
			if !ok {
				return fmt.Errorf("unknown contact model %q (valid: %s, %s)", args[0], contact.Owner.Kind, contact.Technical.Kind)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tNAME\tDESCRIPTION")
			for _, f := range schema.Fields {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Tag, f.Name, f.Label)
			}
			w.Flush()
			return nil
		},
		SilenceUsage: true,
	}
}
