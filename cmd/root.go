package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"nathanbeddoewebdev/hureg/cmd/commands/audit"
	"nathanbeddoewebdev/hureg/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/hureg/cmd/commands/config"
	"nathanbeddoewebdev/hureg/cmd/commands/contact"
	"nathanbeddoewebdev/hureg/cmd/commands/domain"
	"nathanbeddoewebdev/hureg/cmd/commands/verify"
	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "hureg",
		Short: "A CLI client for the .hu domain registry",
		Long: `hureg talks to the .hu domain registry over its signed XML API.
It looks up, registers, renews, transfers and reconfigures domains,
creates contacts and handles ownership declarations.

Every command is signed with your OpenPGP key; the registrar password and
key passphrase are kept in the system keychain.

Quick start:
  hureg config set registrar acme        # Your registrar login
  hureg config set key-id 0xDEADBEEF     # Signing key
  hureg auth login                       # Store password and passphrase
  hureg domain info example.hu           # Look up a domain`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			cmd.SetContext(cli.WithLogger(cmd.Context(), cli.NewLogger(cmd.ErrOrStderr(), verbose)))
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log every registry round trip to stderr")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(domain.NewCommand())
	cmd.AddCommand(contact.NewCommand())
	cmd.AddCommand(verify.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(context.Background(), rootCmd(), os.Args[1:]))
}

// run executes root with args, records the audit entry for audited
// commands and returns the process exit code.
func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	started := time.Now()

	executed, err := root.ExecuteContextC(ctx)
	if cli.IsAudited(executed) && !errors.Is(err, tui.ErrAborted) {
		recordAudit(executed, args, started, err)
	}

	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			root.PrintErrln("Cancelled.")
			return 1
		}
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

// recordAudit writes a best-effort audit entry. Failures to open or write
// the audit log never change the command's outcome.
func recordAudit(cmd *cobra.Command, args []string, started time.Time, err error) {
	repo, openErr := auditlog.Open()
	if openErr != nil {
		cli.Logger(cmd.Context()).Debug("audit log unavailable", "error", openErr)
		return
	}
	defer repo.Close()

	meta := auditlog.MetadataFromContext(cmd.Context())
	entry := auditlog.NewEntry(cmd.CommandPath(), args, meta, started, err)
	if saveErr := repo.Save(context.WithoutCancel(cmd.Context()), entry); saveErr != nil {
		cli.Logger(cmd.Context()).Debug("audit entry not saved", "error", saveErr)
	}
}
