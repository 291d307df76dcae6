package verify

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"

	"github.com/spf13/cobra"
)

// CheckCommand returns the "verify check" command.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a declaration answer without submitting it",
		Long: `Check whether the registry accepts a captcha code for a declaration
request, without submitting the declaration.

Examples:
  hureg verify check --request-id 42 --captcha ab12cd --ip 192.0.2.10
  hureg verify check --domain example.hu --captcha ab12cd --ip 192.0.2.10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := replyFromFlags(cmd)
			if err != nil {
				return err
			}

			svc, _, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			var ok bool
			err = perform(cmd, "Checking captcha...", func(ctx context.Context) error {
				var err error
				ok, err = svc.TryCaptchaCode(ctx, reply)
				return err
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the registry did not accept the captcha code")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Captcha code accepted.")
			return nil
		},
		SilenceUsage: true,
	}

	addReplyFlags(cmd)

	return cmd
}

// SendCommand returns the "verify send" command.
func SendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a declaration answer",
		Long: `Submit the owner's answer to a declaration request.

Examples:
  hureg verify send --request-id 42 --captcha ab12cd --ip 192.0.2.10
  hureg verify send --domain example.hu --captcha ab12cd --ip 192.0.2.10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := replyFromFlags(cmd)
			if err != nil {
				return err
			}

			svc, cfg, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()
			resource := fmt.Sprintf("declaration %d", reply.RequestID)
			if name, _ := cmd.Flags().GetString("domain"); strings.TrimSpace(name) != "" {
				resource = strings.TrimSpace(name)
			}
			cli.Track(cmd, cfg, auditlog.ResourceDomain, resource)

			var ok bool
			err = perform(cmd, "Submitting declaration...", func(ctx context.Context) error {
				var err error
				ok, err = svc.SendVerificationData(ctx, reply)
				return err
			})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the registry did not acknowledge the declaration")
			}
			forget(cmd, reply.RequestID)
			fmt.Fprintln(cmd.OutOrStdout(), "Declaration submitted.")
			return nil
		},
		SilenceUsage: true,
	}

	addReplyFlags(cmd)

	return cli.Audited(cmd)
}
