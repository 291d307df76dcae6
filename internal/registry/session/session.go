// Package session assembles a ready-to-use lifecycle Service from the
// persisted configuration and the keychain.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/platform/credentials"
	"nathanbeddoewebdev/hureg/internal/registry/cache"
	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/pgpsign"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/services/auth"
)

// ErrNotConfigured is returned when a setting needed to talk to the
// registry is missing.
var ErrNotConfigured = errors.New("session: not configured")

// Factory builds the Service used by one command.
type Factory func(cfg *config.Config, store auth.Store, logger *slog.Logger) (*services.Service, error)

var (
	mu      sync.RWMutex
	factory Factory = Build
)

// Override replaces the factory used by Open. Intended for tests only.
func Override(f Factory) {
	if f == nil {
		panic("session: nil factory")
	}
	mu.Lock()
	defer mu.Unlock()
	factory = f
}

// Reset restores the default factory. Intended for tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	factory = Build
}

// Open builds a Service with the current factory.
func Open(cfg *config.Config, store auth.Store, logger *slog.Logger) (*services.Service, error) {
	mu.RLock()
	f := factory
	mu.RUnlock()
	return f(cfg, store, logger)
}

// Endpoint returns the registry URL selected by cfg: the explicit url
// setting, else the test or live preset.
func Endpoint(cfg *config.Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	if strings.EqualFold(cfg.Environment, config.EnvTest) {
		return dapi.URLTest
	}
	return dapi.URLLive
}

// Build assembles a Service from cfg and the secrets in store. The signing
// key is not read until the first command is sent.
func Build(cfg *config.Config, store auth.Store, logger *slog.Logger) (*services.Service, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Registrar == "" {
		return nil, fmt.Errorf("%w: registrar is not set (run 'hureg config set registrar <name>')", ErrNotConfigured)
	}
	if cfg.KeyID == "" {
		return nil, fmt.Errorf("%w: key-id is not set (run 'hureg config set key-id <id>')", ErrNotConfigured)
	}

	secrets, err := loadSecrets(store)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}

	creds := dapi.Credentials{
		Username:   cfg.Registrar,
		Password:   secrets[credentials.Password],
		KeyID:      cfg.KeyID,
		Passphrase: secrets[credentials.Passphrase],
		KeyStore:   cfg.KeyStore,
	}

	engine := dapi.New(dapi.Config{
		URL:         Endpoint(cfg),
		Credentials: creds,
		Transport: dapi.TransportConfig{
			Timeout:   timeout,
			ProxyURL:  cfg.Proxy,
			ProxyAuth: secrets[credentials.ProxyAuth],
		},
	},
		dapi.WithSignerFactory(signerFactory(creds)),
		dapi.WithLogger(logger.With(slog.String("component", "dapi"))),
	)

	opts := []services.Option{
		services.WithLogger(logger.With(slog.String("component", "services"))),
		services.WithDefaultNameserver(cfg.Nameserver),
	}
	if capacity := cfg.CacheCapacity(); capacity > 0 {
		c, err := cache.NewBounded(capacity)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		opts = append(opts, services.WithCache(c))
	}

	logger.Debug("session ready",
		slog.String("endpoint", Endpoint(cfg)),
		slog.String("registrar", cfg.Registrar),
		slog.Bool("proxy", cfg.Proxy != ""),
	)
	return services.New(engine, opts...), nil
}

func signerFactory(creds dapi.Credentials) dapi.SignerFactory {
	return func() (dapi.Signer, error) {
		s, err := pgpsign.Load(pgpsign.Config{
			KeyID:      creds.KeyID,
			Passphrase: creds.Passphrase,
			KeyStore:   creds.KeyStore,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func loadSecrets(store auth.Store) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, spec := range credentials.All() {
		v, err := auth.Lookup(store, spec.Key)
		if err != nil {
			return nil, fmt.Errorf("session: failed to read %s from keychain: %w", spec.Key, err)
		}
		if v == "" && spec.Required {
			return nil, fmt.Errorf("%w: %s is not stored (run 'hureg auth login')", ErrNotConfigured, spec.Key)
		}
		secrets[spec.Key] = v
	}
	return secrets, nil
}
