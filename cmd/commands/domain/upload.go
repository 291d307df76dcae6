package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/services"

	"github.com/spf13/cobra"
)

// UploadCommand returns the "domain upload" command.
func UploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <domain>",
		Short: "Attach a document to a domain",
		Long: `Attach a document, such as a signed contract, to a domain as a
registry remark. The subject defaults to the file name.

Example:
  hureg domain upload example.hu --file contract.pdf --text "Signed contract"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runUpload,
		SilenceUsage: true,
	}

	cmd.Flags().String("file", "", "Path of the document to upload (required)")
	cmd.Flags().String("subject", "", "Remark subject (defaults to the file name)")
	cmd.Flags().String("text", "", "Remark text")

	return cli.Audited(cmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("--file is required")
	}

	subject, _ := cmd.Flags().GetString("subject")
	if strings.TrimSpace(subject) == "" {
		subject = filepath.Base(path)
	}
	text, _ := cmd.Flags().GetString("text")

	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()
	cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

	doc := services.Document{Subject: subject, FilePath: path, Text: text}
	err = perform(cmd, "Uploading document...", func(ctx context.Context) error {
		return svc.UploadDocument(ctx, args[0], doc, false)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Document %s attached to %s.\n", filepath.Base(path), args[0])
	return nil
}
