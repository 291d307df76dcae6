package verify

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// NewCommand returns the "verify" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Handle domain ownership declarations",
		Long: `Request and answer the captcha-protected ownership declaration the
registry sends to a domain's owner.

A declaration is requested for a domain, the owner receives a captcha
code, and the reply is checked and finally submitted with that code.

Requested declarations are remembered locally, so check and send accept
--domain instead of --request-id and --hash.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(RequestCommand())
	cmd.AddCommand(CheckCommand())
	cmd.AddCommand(SendCommand())
	cmd.AddCommand(PendingCommand())

	return cmd
}

// addReplyFlags registers the flags describing a declaration reply.
func addReplyFlags(cmd *cobra.Command) {
	cmd.Flags().String("request-id", "", "Declaration request id")
	cmd.Flags().String("domain", "", "Use the pending declaration requested for this domain")
	cmd.Flags().String("captcha", "", "Captcha code received by the owner (required)")
	cmd.Flags().String("ip", "", "IP address the owner answered from (required)")
	cmd.Flags().String("hash", "", "Hash from the declaration request")
}

// replyFromFlags reads and checks the declaration reply flags. Without
// --request-id the pending declaration for --domain supplies the id and,
// unless --hash is given, the hash.
func replyFromFlags(cmd *cobra.Command) (services.DeclarationReply, error) {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return strings.TrimSpace(v)
	}

	var reply services.DeclarationReply
	reply.Captcha = get("captcha")
	reply.IP = get("ip")
	reply.Hash = get("hash")

	if rawID := get("request-id"); rawID != "" {
		id, err := services.ParseRequestID(rawID)
		if err != nil {
			return reply, fmt.Errorf("invalid request id %q", rawID)
		}
		reply.RequestID = id
	} else {
		name := get("domain")
		if name == "" {
			return reply, fmt.Errorf("--request-id is required (or --domain with a pending declaration)")
		}
		rec, err := pendingFor(name)
		if err != nil {
			return reply, err
		}
		if rec == nil {
			return reply, fmt.Errorf("no pending declaration for %s; pass --request-id", name)
		}
		reply.RequestID = rec.RequestID
		if reply.Hash == "" {
			reply.Hash = rec.Hash
		}
	}

	if reply.Captcha == "" {
		return reply, fmt.Errorf("--captcha is required")
	}
	if reply.IP == "" {
		return reply, fmt.Errorf("--ip is required")
	}
	return reply, nil
}

// perform runs a registry call, behind a spinner when attached to a
// terminal.
func perform(cmd *cobra.Command, title string, action func(ctx context.Context) error) error {
	if cli.IsInteractive() {
		return tui.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), title, action)
	}
	return action(cmd.Context())
}
