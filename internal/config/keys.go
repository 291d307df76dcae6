package config

import (
	"fmt"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "registrar-id").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Fold marks values that are case-insensitive; they are lowercased
	// before being stored.
	Fold bool

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)
}

// Keys is the authoritative list of all supported configuration keys.
var Keys = []KeySpec{
	{
		Name:        "environment",
		Description: "Registry environment: live or test",
		Fold:        true,
		Get:         func(cfg *Config) string { return cfg.Environment },
		Set:         func(cfg *Config, v string) { cfg.Environment = v },
	},
	{
		Name:        "url",
		Description: "Registry endpoint, overrides the environment preset",
		Get:         func(cfg *Config) string { return cfg.URL },
		Set:         func(cfg *Config, v string) { cfg.URL = v },
	},
	{
		Name:        "registrar",
		Description: "Registrar login name",
		Get:         func(cfg *Config) string { return cfg.Registrar },
		Set:         func(cfg *Config, v string) { cfg.Registrar = v },
	},
	{
		Name:        "registrar-id",
		Description: "Numeric registrar id used for ownership checks and renewals",
		Get:         func(cfg *Config) string { return cfg.RegistrarID },
		Set:         func(cfg *Config, v string) { cfg.RegistrarID = v },
	},
	{
		Name:        "key-id",
		Description: "OpenPGP key used to sign commands (fingerprint, key id or user id)",
		Get:         func(cfg *Config) string { return cfg.KeyID },
		Set:         func(cfg *Config, v string) { cfg.KeyID = v },
	},
	{
		Name:        "keystore",
		Description: "Secret key file or directory (default $GNUPGHOME or ~/.gnupg)",
		Get:         func(cfg *Config) string { return cfg.KeyStore },
		Set:         func(cfg *Config, v string) { cfg.KeyStore = v },
	},
	{
		Name:        "timeout",
		Description: "Request timeout, e.g. 30s (bare numbers are seconds)",
		Get:         func(cfg *Config) string { return cfg.Timeout },
		Set:         func(cfg *Config, v string) { cfg.Timeout = v },
	},
	{
		Name:        "proxy",
		Description: "HTTP proxy for registry requests",
		Get:         func(cfg *Config) string { return cfg.Proxy },
		Set:         func(cfg *Config, v string) { cfg.Proxy = v },
	},
	{
		Name:        "nameserver",
		Description: "Nameserver used for new registrations and transfers",
		Fold:        true,
		Get:         func(cfg *Config) string { return cfg.Nameserver },
		Set:         func(cfg *Config, v string) { cfg.Nameserver = v },
	},
	{
		Name:        "cache-size",
		Description: "Maximum number of cached domain records (0 = unbounded)",
		Get:         func(cfg *Config) string { return cfg.CacheSize },
		Set:         func(cfg *Config, v string) { cfg.CacheSize = v },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
