package auth

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/platform/credentials"
	"nathanbeddoewebdev/hureg/internal/services/auth"
	"nathanbeddoewebdev/hureg/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store registrar secrets in the keychain",
		Long: `Store the registrar password, the signing key passphrase and, when
you use an authenticating proxy, the proxy credentials ("user:password").

In a terminal without flags a form asks for every secret. Flags store
only the given secrets; a missing required secret is prompted for.

Examples:
  hureg auth login
  hureg auth login --password "$HUREG_PASSWORD" --passphrase "$KEY_PASS"`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	for _, spec := range credentials.All() {
		cmd.Flags().String(spec.Key, "", spec.Prompt+" (optional, overrides prompt)")
	}

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	store := auth.DefaultStore()

	values := make(map[string]string)
	anyFlag := false
	for _, spec := range credentials.All() {
		if cmd.Flags().Changed(spec.Key) {
			anyFlag = true
			v, _ := cmd.Flags().GetString(spec.Key)
			values[spec.Key] = strings.TrimSpace(v)
		}
	}

	if !anyFlag && cli.IsInteractive() {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		result, err := tui.RunAuthLogin(cfg.Registrar, store)
		if err != nil {
			return err
		}
		if result == nil || !result.Saved {
			fmt.Fprintln(cmd.ErrOrStderr(), "Login cancelled.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved registrar secrets.")
		return nil
	}

	for _, spec := range credentials.All() {
		if !spec.Required {
			continue
		}
		if cmd.Flags().Changed(spec.Key) {
			if values[spec.Key] == "" {
				return fmt.Errorf("%s cannot be empty", spec.Key)
			}
			continue
		}
		existing, err := auth.Lookup(store, spec.Key)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}
		v, err := readSecret(cmd, spec)
		if err != nil {
			return err
		}
		values[spec.Key] = v
	}

	if err := tui.SaveSecrets(store, values); err != nil {
		return err
	}

	for _, key := range credentials.Keys() {
		if values[key] != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", key)
		}
	}
	return nil
}

// readSecret prompts for spec on the terminal without echo.
func readSecret(cmd *cobra.Command, spec credentials.Spec) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%s is required: pass --%s or run in a terminal", spec.Key, spec.Key)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", spec.Prompt)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(bytes))
	if v == "" {
		return "", fmt.Errorf("%s cannot be empty", spec.Key)
	}
	return v, nil
}
