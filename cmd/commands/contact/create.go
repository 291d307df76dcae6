package contact

import (
	"context"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/contact"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// CreateCommand returns the "contact create" command.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <owner|tech>",
		Short: "Create a contact and print its id",
		Long: `Create an owner or technical contact at the registry and print the id
it was assigned.

Field values come from --field KEY=VALUE (key is the wire tag or the
field name shown by 'hureg contact fields'), from an XML file, or from an
interactive form when running in a terminal.

Examples:
  # Interactive form
  hureg contact create owner

  # Non-interactive
  hureg contact create tech --field lastName=Kovács --field firstName=Anna \
    --field email=anna@example.hu --field country=HU

  # From a previously saved record
  hureg contact create owner --file owner.xml`,
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{contact.Owner.Kind, contact.Technical.Kind},
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().StringArray("field", nil, "Field value as KEY=VALUE (repeatable)")
	cmd.Flags().String("file", "", "Read the contact from an XML file")
	cmd.Flags().Bool("no-input", false, "Never open the interactive form")

	return cli.Audited(cmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	schema, ok := contact.Lookup(strings.ToLower(strings.TrimSpace(args[0])))
	if !ok {
		return fmt.Errorf("unknown contact model %q (valid: %s, %s)", args[0], contact.Owner.Kind, contact.Technical.Kind)
	}

	rec, err := buildRecord(cmd, schema)
	if err != nil {
		return err
	}

	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceContact, rec.Get("email"))

	create := svc.CreateTechnicalContactID
	if schema == contact.Owner {
		create = svc.CreateOwnerContactID
	}

	var id string
	err = perform(cmd, "Creating contact...", func(ctx context.Context) error {
		var err error
		id, err = create(ctx, rec)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s contact %s.\n", schema.Kind, id)
	return nil
}

// buildRecord assembles the record from --file, --field and, in a
// terminal, the interactive form.
func buildRecord(cmd *cobra.Command, schema *contact.Schema) (*contact.Record, error) {
	fields, err := parseFields(cmd, schema)
	if err != nil {
		return nil, err
	}

	rec := contact.New(schema, nil)
	if path, _ := cmd.Flags().GetString("file"); strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(strings.TrimSpace(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read contact file: %w", err)
		}
		rec, err = contact.Parse(schema, data)
		if err != nil {
			return nil, err
		}
	}
	for k, v := range fields {
		rec.Set(k, v)
	}

	noInput, _ := cmd.Flags().GetBool("no-input")
	if !noInput && cli.IsInteractive() {
		return tui.ContactForm(schema, rec.Values())
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseFields(cmd *cobra.Command, schema *contact.Schema) (map[string]string, error) {
	raw, _ := cmd.Flags().GetStringArray("field")
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (want KEY=VALUE)", kv)
		}
		if _, known := schema.Resolve(key); !known {
			return nil, fmt.Errorf("unknown %s contact field %q (see 'hureg contact fields %s')", schema.Kind, key, schema.Kind)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// perform runs a registry change, behind a spinner when attached to a
// terminal.
func perform(cmd *cobra.Command, title string, action func(ctx context.Context) error) error {
	if cli.IsInteractive() {
		return tui.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), title, action)
	}
	return action(cmd.Context())
}
