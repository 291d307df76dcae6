package verify

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// RequestCommand returns the "verify request" command.
func RequestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <domain>",
		Short: "Request an ownership declaration for a domain",
		Long: `Request the ownership declaration for a domain and print the
registry's reply.

With --answer in a terminal, you are then asked for the captcha code; the
answer is checked and, after confirmation, submitted.

The request id and hash are saved locally for 'hureg verify check' and
'hureg verify send --domain'.

Examples:
  hureg verify request example.hu
  hureg verify request example.hu -o xml
  hureg verify request example.hu --answer --ip 192.0.2.10`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRequest,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format: text or xml")
	cmd.Flags().Bool("answer", false, "Answer the declaration interactively")
	cmd.Flags().String("ip", "", "IP address the owner answers from (with --answer)")

	return cli.Audited(cmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "xml" {
		return fmt.Errorf("unsupported output format %q", output)
	}
	answer, _ := cmd.Flags().GetBool("answer")
	ip, _ := cmd.Flags().GetString("ip")
	if answer {
		if !cli.IsInteractive() {
			return fmt.Errorf("--answer needs a terminal; use 'hureg verify send' instead")
		}
		if strings.TrimSpace(ip) == "" {
			return fmt.Errorf("--ip is required with --answer")
		}
	}

	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	var decl *services.Declaration
	err = perform(cmd, "Requesting declaration...", func(ctx context.Context) error {
		var err error
		decl, err = svc.GetVerificationData(ctx, args[0], false)
		return err
	})
	if err != nil {
		return err
	}

	id, saved := remember(cmd, cfg, args[0], decl)
	if output == "xml" {
		fmt.Fprintln(cmd.OutOrStdout(), decl.XML)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), tui.FormatDeclaration(decl))
		if saved {
			fmt.Fprintf(cmd.OutOrStdout(), "Request %d saved; answer with 'hureg verify send --domain %s'.\n", id, args[0])
		}
	}
	if !answer {
		return nil
	}

	reply, err := tui.CaptchaForm(decl, services.DeclarationReply{IP: strings.TrimSpace(ip)})
	if err != nil {
		return err
	}
	return checkAndSend(cmd, svc, reply)
}

// checkAndSend checks reply and, once confirmed, submits it.
func checkAndSend(cmd *cobra.Command, svc *services.Service, reply services.DeclarationReply) error {
	var ok bool
	err := perform(cmd, "Checking captcha...", func(ctx context.Context) error {
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

	summary := fmt.Sprintf("Request id:  %d\nCaptcha:     %s\nIP:          %s", reply.RequestID, reply.Captcha, reply.IP)
	confirmed, err := tui.Confirm("Submit this declaration?", summary, "Submit")
	if err != nil {
		return err
	}
	if !confirmed {
		return tui.ErrAborted
	}

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
}
