package domain

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
	"nathanbeddoewebdev/hureg/internal/tui"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// ActivateCommand returns the "domain activate" command.
func ActivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate <domain>",
		Short: "Put a domain into the active state",
		Long: `Put a domain into the base active state (8). Nothing is sent when the
domain is already active.

Example:
  hureg domain activate example.hu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeState(cmd, args[0], domain.StateOK)
		},
		SilenceUsage: true,
	}
	return cli.Audited(cmd)
}

// DeactivateCommand returns the "domain deactivate" command.
func DeactivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <domain>",
		Short: "Stop automatic prolongation of a domain",
		Long: `Stop automatic prolongation of a domain (state 30). With --zone the
domain is also removed from the zone (state 31).

In a terminal you are asked to confirm unless --yes is given.

Examples:
  hureg domain deactivate example.hu
  hureg domain deactivate example.hu --zone --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDeactivate,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("zone", false, "Also remove the domain from the zone")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cli.Audited(cmd)
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	target := domain.StateDeactivated
	if zone, _ := cmd.Flags().GetBool("zone"); zone {
		target = domain.StateZoneDeactivated
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && cli.IsInteractive() {
		summary := fmt.Sprintf("Domain:     %s\nNew state:  %s (%s)", args[0], target, target.Code())
		confirmed, err := tui.Confirm("Deactivate this domain?", summary, "Deactivate")
		if err != nil {
			return err
		}
		if !confirmed {
			return tui.ErrAborted
		}
	}

	return changeState(cmd, args[0], target)
}

// SetStateCommand returns the "domain set-state" command.
func SetStateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-state <domain> [state]",
		Short: "Move a domain into a state",
		Long: `Move a domain into a state given by code or name: ok (8),
deactivated (30) or zone-deactivated (31).

When the state is omitted in a terminal, a picker shows the current state.

Examples:
  hureg domain set-state example.hu deactivated
  hureg domain set-state example.hu`,
		Args:         cobra.RangeArgs(1, 2),
		RunE:         runSetState,
		SilenceUsage: true,
	}
	return cli.Audited(cmd)
}

func runSetState(cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		target, err := domain.ParseDomainState(args[1])
		if err != nil {
			return err
		}
		return changeState(cmd, args[0], target)
	}

	if !cli.IsInteractive() {
		return fmt.Errorf("a target state is required when not running in a terminal")
	}

	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	ctx := cmd.Context()
	var current string
	err = cli.Read(ctx, func() error {
		var err error
		current, err = svc.DomainState(ctx, args[0], false)
		return err
	})
	if err != nil {
		return err
	}

	target, err := tui.SelectState(args[0], current)
	if err != nil {
		return err
	}

	err = perform(cmd, "Changing domain state...", func(ctx context.Context) error {
		return svc.ChangeDomainStatus(ctx, args[0], target, true)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Domain %s is now %s.\n", args[0], stateLabel(target.Code()))
	return nil
}

// changeState moves name into target with a fresh session.
func changeState(cmd *cobra.Command, name string, target domain.DomainState) error {
	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, name)

	err = perform(cmd, "Changing domain state...", func(ctx context.Context) error {
		return svc.ChangeDomainStatus(ctx, name, target, false)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Domain %s is now %s.\n", name, stateLabel(target.Code()))
	return nil
}

// RenewCommand returns the "domain renew" command.
func RenewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renew <domain>",
		Short: "Renew a domain held by this registrar",
		Long: `Renew a domain by activating it. The domain must be held by the
configured registrar-id (or --registrar-id); pass --any-registrar to skip
the ownership check.

Examples:
  hureg domain renew example.hu
  hureg domain renew example.hu --registrar-id 1234`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRenew,
		SilenceUsage: true,
	}

	cmd.Flags().String("registrar-id", "", "Registrar id that must hold the domain (overrides config)")
	cmd.Flags().Bool("any-registrar", false, "Skip the ownership check")

	return cli.Audited(cmd)
}

func runRenew(cmd *cobra.Command, args []string) error {
	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	registrarID := registrarIDFlag(cmd, cfg.RegistrarID)
	if anyRegistrar, _ := cmd.Flags().GetBool("any-registrar"); anyRegistrar {
		registrarID = ""
	} else if err := util.ValidateNumericID("registrar id", registrarID); err != nil {
		return fmt.Errorf("%w (set registrar-id or pass --any-registrar)", err)
	}

	err = perform(cmd, "Renewing domain...", func(ctx context.Context) error {
		return svc.RenewDomain(ctx, args[0], registrarID)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Domain %s renewed.\n", args[0])
	return nil
}

// TransferCommand returns the "domain transfer" command.
func TransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <domain>",
		Short: "Request a domain transfer to a registrar",
		Long: `Request that a domain be moved to a registrar, optionally setting
its primary nameserver in the same command. Defaults to the configured
registrar-id and nameserver.

Examples:
  hureg domain transfer example.hu
  hureg domain transfer example.hu --registrar-id 1234 --nameserver ns1.acme.hu`,
		Args:         cobra.ExactArgs(1),
		RunE:         runTransfer,
		SilenceUsage: true,
	}

	cmd.Flags().String("registrar-id", "", "Receiving registrar id (overrides config)")
	cmd.Flags().String("nameserver", "", "Primary nameserver to set (overrides config)")
	cmd.Flags().Bool("keep-nameserver", false, "Do not change the nameserver")

	return cli.Audited(cmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	registrarID := registrarIDFlag(cmd, cfg.RegistrarID)
	if err := util.ValidateNumericID("registrar id", registrarID); err != nil {
		return err
	}

	nameserver := cfg.Nameserver
	if ns, _ := cmd.Flags().GetString("nameserver"); strings.TrimSpace(ns) != "" {
		nameserver = strings.TrimSpace(ns)
	}
	if keep, _ := cmd.Flags().GetBool("keep-nameserver"); keep {
		nameserver = ""
	}

	err = perform(cmd, "Requesting transfer...", func(ctx context.Context) error {
		return svc.TransferDomain(ctx, args[0], registrarID, nameserver, false)
	})
	if err != nil {
		return fmt.Errorf("transfer not requested: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transfer of %s to registrar %s requested.\n", args[0], registrarID)
	return nil
}
