// Package services provides the domain lifecycle operations of the registry
// client.
//
// A Service wraps a protocol engine and a Domain Cache. Every operation is
// synchronous and performs its round trips strictly in sequence; operations
// that need the current domain record consult the cache first unless the
// caller asks to bypass it. A Service is not safe for concurrent use: run one
// per concurrent unit of work.
package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/cache"
	"nathanbeddoewebdev/hureg/internal/registry/dapi"
)

// Registry command names.
const (
	CmdLookup          = "altalanos_kereses"
	CmdRegister        = "uj_domain"
	CmdStateChange     = "domain"
	CmdAttributeChange = "objektum_attributum_modositas"
	CmdOwnerContact    = "tulajdonos_felvitel"
	CmdTechContact     = "szemely_felvitel"
	CmdDeclRequest     = "nyilatkozat_keres"
	CmdDeclSubmit      = "nyilatkozat_bekuldes"
	CmdDeclCheck       = "nyilatkozat_ellenorzes"
	CmdDocument        = "megjegyzes_felvitel"
)

// AckStateChanged is the registry's acknowledgement of a state change. The
// spelling is the registry's own.
const AckStateChanged = "A státuszmódosítás sikeresen végrehatjásra került"

// Engine executes signed registry commands. *dapi.Client implements it.
type Engine interface {
	Execute(ctx context.Context, name, payload, domainName string) (*dapi.Result, error)
	ExecuteMulti(ctx context.Context, name, payload, domainName string) ([]*dapi.CommandNode, error)
	VerifyBasic(ctx context.Context, name string, blocks []string, domainName, expected string) (bool, string, error)
	Close() error
}

// Service implements the domain lifecycle operations.
type Service struct {
	engine    Engine
	cache     *cache.Cache
	logger    *slog.Logger
	defaultNS string
	readFile  func(string) ([]byte, error)
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache replaces the default unbounded Domain Cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultNameserver sets the nameserver embedded in new registrations.
func WithDefaultNameserver(ns string) Option {
	return func(s *Service) { s.defaultNS = ns }
}

// WithFileReader replaces os.ReadFile for document uploads.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.readFile = fn
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service backed by engine.
func New(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		cache:    cache.New(),
		logger:   slog.New(slog.DiscardHandler),
		readFile: os.ReadFile,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache exposes the Domain Cache, e.g. for explicit invalidation.
func (s *Service) Cache() *cache.Cache { return s.cache }

// Close releases the engine's signer and transport.
func (s *Service) Close() error {
	return s.engine.Close()
}
