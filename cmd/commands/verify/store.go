package verify

import (
	"strings"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/declstore"
	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/tui"

	"github.com/spf13/cobra"
)

// pendingFor returns the newest pending declaration for name in the
// configured environment.
func pendingFor(name string) (*declstore.Record, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	repo, err := declstore.Open()
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	return repo.Pending(name, cli.Environment(cfg))
}

// remember stores a requested declaration. It reports whether the reply
// carried a request id and was saved; storage failures are only logged.
func remember(cmd *cobra.Command, cfg *config.Config, name string, decl *services.Declaration) (int64, bool) {
	rawID, ok := tui.DeclarationRequestID(decl)
	if !ok {
		return 0, false
	}
	id, err := services.ParseRequestID(rawID)
	if err != nil {
		return 0, false
	}

	logger := cli.Logger(cmd.Context())
	repo, err := declstore.Open()
	if err != nil {
		logger.Debug("declaration store unavailable", "error", err)
		return id, false
	}
	defer repo.Close()

	rec := &declstore.Record{
		Domain:      name,
		RequestID:   id,
		Hash:        declarationHash(decl),
		Environment: cli.Environment(cfg),
	}
	if err := repo.Save(rec); err != nil {
		logger.Debug("declaration not saved", "error", err)
		return id, false
	}
	return id, true
}

// forget marks the declaration as submitted.
func forget(cmd *cobra.Command, requestID int64) {
	repo, err := declstore.Open()
	if err != nil {
		cli.Logger(cmd.Context()).Debug("declaration store unavailable", "error", err)
		return
	}
	defer repo.Close()
	if err := repo.MarkSubmitted(requestID); err != nil {
		cli.Logger(cmd.Context()).Debug("declaration not updated", "error", err)
	}
}

func declarationHash(decl *services.Declaration) string {
	for _, key := range []string{"DECL_REQ.HASH", "HASH"} {
		if v := strings.TrimSpace(decl.Fields[key]); v != "" {
			return v
		}
	}
	return ""
}
