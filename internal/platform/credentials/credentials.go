// Package credentials describes the secrets hureg keeps in the keychain and
// how auth login prompts for them.
package credentials

import "nathanbeddoewebdev/hureg/internal/util"

// Keychain entry names.
const (
	Password   = "password"
	Passphrase = "passphrase"
	ProxyAuth  = "proxy-auth"
)

// Spec describes a single secret.
type Spec struct {
	// Key is the keychain entry name.
	Key string

	// Prompt is the human-readable label shown when prompting the user.
	Prompt string

	// Required secrets must be present before any registry command runs.
	Required bool
}

var known = []Spec{
	{Key: Password, Prompt: "Registrar password", Required: true},
	{Key: Passphrase, Prompt: "Signing key passphrase (empty if the key is unprotected)"},
	{Key: ProxyAuth, Prompt: "Proxy credentials as user:password (empty for none)"},
}

// Lookup returns the Spec for key, or nil if none is registered.
func Lookup(key string) *Spec {
	normalized := util.NormalizeKey(key)
	for i := range known {
		if known[i].Key == normalized {
			return &known[i]
		}
	}
	return nil
}

// All returns a copy of all registered secret specs, in prompt order.
func All() []Spec {
	out := make([]Spec, len(known))
	copy(out, known)
	return out
}

// Keys returns the registered keychain entry names, in prompt order.
func Keys() []string {
	keys := make([]string, len(known))
	for i, s := range known {
		keys[i] = s.Key
	}
	return keys
}
