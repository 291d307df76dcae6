// Package cli holds the plumbing shared by hureg's commands: the logger
// carried in the command context, session opening, retries for read-only
// lookups and audit tagging for registry changes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/registry/session"
	"nathanbeddoewebdev/hureg/internal/retry"
	"nathanbeddoewebdev/hureg/internal/services/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AuditAnnotation marks commands whose runs are written to the audit log.
const AuditAnnotation = "audit"

type loggerKey struct{}

// NewLogger returns the CLI's text logger. Verbose lowers the level to
// debug, which includes every registry round trip.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger returns the logger stored in ctx, or a discarding one.
func Logger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// Audited marks cmd so that its outcome is recorded.
func Audited(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AuditAnnotation] = "true"
	return cmd
}

// IsAudited reports whether cmd was marked with Audited.
func IsAudited(cmd *cobra.Command) bool {
	return cmd != nil && cmd.Annotations[AuditAnnotation] == "true"
}

// Open loads the configuration and builds a registry session for cmd.
// The caller must Close the returned Service.
func Open(cmd *cobra.Command) (*services.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	svc, err := session.Open(cfg, auth.DefaultStore(), Logger(cmd.Context()))
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

// Environment returns the registry environment named by cfg.
func Environment(cfg *config.Config) string {
	if cfg == nil || cfg.Environment == "" {
		return config.EnvLive
	}
	return cfg.Environment
}

// Track attaches audit metadata about the resource cmd is changing.
func Track(cmd *cobra.Command, cfg *config.Config, resourceType, name string) {
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Environment:  Environment(cfg),
		ResourceType: resourceType,
		ResourceName: name,
	}))
}

// Read runs a read-only registry call, retrying transport failures.
func Read(ctx context.Context, fn func() error) error {
	policy := retry.Lookups()
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		Logger(ctx).Debug("retrying registry lookup",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}
	return policy.Run(ctx, func(context.Context) error { return fn() })
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
