// Package auth stores registrar secrets in the OS keychain.
package auth

import (
	"errors"

	"nathanbeddoewebdev/hureg/internal/util"
)

const ServiceName = "hureg"

var ErrSecretNotFound = errors.New("secret not found")

// Store persists named secrets (registrar password, key passphrase, proxy
// credentials). Names are normalised with NormalizeName.
type Store interface {
	SetSecret(name string, value string) error
	GetSecret(name string) (string, error)
	DeleteSecret(name string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeName normalizes a secret name for consistent key lookup.
func NormalizeName(name string) string {
	return util.NormalizeKey(name)
}

// Lookup returns the secret stored under name, or "" when none is stored.
// Errors other than ErrSecretNotFound are returned.
func Lookup(s Store, name string) (string, error) {
	v, err := s.GetSecret(name)
	if errors.Is(err, ErrSecretNotFound) {
		return "", nil
	}
	return v, err
}
