package domain

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// RegisterCommand returns the "domain register" command.
func RegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <domain>",
		Short: "Register a free domain",
		Long: `Register a free domain with existing contact ids. The configured
nameserver is used as the primary nameserver.

The technical, administrative and zone contacts default to the
technical contact when omitted.

Example:
  hureg domain register example.hu --owner 1001 --tech 2002`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRegister,
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner contact id (required)")
	cmd.Flags().String("tech", "", "Technical contact id")
	cmd.Flags().String("admin", "", "Administrative contact id (defaults to --tech)")
	cmd.Flags().String("zone", "", "Zone contact id (defaults to --tech)")

	return cli.Audited(cmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	contacts, err := registrationContacts(cmd)
	if err != nil {
		return err
	}

	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	var id string
	err = perform(cmd, "Registering domain...", func(ctx context.Context) error {
		var err error
		id, err = svc.RegisterNewDomainByContactID(ctx, args[0], contacts)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Domain %s registered (id %s).\n", args[0], id)
	return nil
}

func registrationContacts(cmd *cobra.Command) (services.RegistrationContacts, error) {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return strings.TrimSpace(v)
	}

	c := services.RegistrationContacts{
		Owner: get("owner"),
		Tech:  get("tech"),
		Admin: get("admin"),
		Zone:  get("zone"),
	}
	if c.Admin == "" {
		c.Admin = c.Tech
	}
	if c.Zone == "" {
		c.Zone = c.Tech
	}

	if err := util.ValidateNumericID("owner contact id", c.Owner); err != nil {
		return c, err
	}
	optional := []struct{ label, id string }{
		{"technical contact id", c.Tech},
		{"administrative contact id", c.Admin},
		{"zone contact id", c.Zone},
	}
	for _, o := range optional {
		if err := util.ValidateOptionalNumericID(o.label, o.id); err != nil {
			return c, err
		}
	}
	return c, nil
}
