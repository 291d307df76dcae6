// Package pgpsign provides the detached OpenPGP signing capability used to
// authenticate registry commands.
//
// Keys are read from a key store: either a single exported secret key file
// (armored or binary) or a directory holding such files. The default store
// is $GNUPGHOME, falling back to ~/.gnupg.
package pgpsign

import (
	"bytes"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Config identifies the signing key.
type Config struct {
	// KeyID selects the key by fingerprint, long or short key id, or a
	// substring of one of its user ids.
	KeyID string

	// Passphrase unlocks the key. Ignored for unprotected keys.
	Passphrase string

	// KeyStore is the key file or directory. Empty means DefaultKeyStore().
	KeyStore string
}

// Signer produces ASCII-armored detached signatures.
type Signer struct {
	entity *openpgp.Entity
	config *packet.Config
}

// Load reads the key store, selects the key named by cfg.KeyID and unlocks
// it. Any failure is reported as a domain.ErrInternal error.
func Load(cfg Config) (*Signer, error) {
	if strings.TrimSpace(cfg.KeyID) == "" {
		return nil, domain.InternalError("no signing key id configured", nil)
	}

	store := cfg.KeyStore
	if store == "" {
		store = DefaultKeyStore()
	}

	keys, err := ReadKeyStore(store)
	if err != nil {
		return nil, domain.InternalError("cannot read key store", err)
	}

	entity := FindKey(keys, cfg.KeyID)
	if entity == nil {
		return nil, domain.InternalError(fmt.Sprintf("cannot find gpg key %q", cfg.KeyID), nil)
	}

	if err := unlock(entity, []byte(cfg.Passphrase)); err != nil {
		return nil, domain.InternalError(fmt.Sprintf("passphrase rejected for gpg key %q", cfg.KeyID), err)
	}

	return &Signer{entity: entity, config: &packet.Config{}}, nil
}

// Sign returns an armored detached signature over data.
func (s *Signer) Sign(data []byte) (string, error) {
	if s.entity == nil {
		return "", fmt.Errorf("pgpsign: signer is closed")
	}
	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), s.config); err != nil {
		return "", fmt.Errorf("pgpsign: failed to sign: %w", err)
	}
	return buf.String(), nil
}

// Close drops the unlocked key.
func (s *Signer) Close() error {
	s.entity = nil
	return nil
}

// FindKey returns the first secret key in keys matching id, or nil.
func FindKey(keys openpgp.EntityList, id string) *openpgp.Entity {
	want := strings.ToUpper(strings.TrimSpace(id))
	want = strings.TrimPrefix(want, "0X")
	if want == "" {
		return nil
	}

	for _, e := range keys {
		if e.PrivateKey == nil {
			continue
		}
		if matches(e, want) {
			return e
		}
	}
	return nil
}

func matches(e *openpgp.Entity, want string) bool {
	publicKeys := []*packet.PublicKey{e.PrimaryKey}
	for _, sub := range e.Subkeys {
		publicKeys = append(publicKeys, sub.PublicKey)
	}

	for _, pk := range publicKeys {
		if pk == nil {
			continue
		}
		fingerprint := fmt.Sprintf("%X", pk.Fingerprint)
		keyID := fmt.Sprintf("%016X", pk.KeyId)
		if want == fingerprint || want == keyID {
			return true
		}
		if len(want) >= 8 && strings.HasSuffix(keyID, want) {
			return true
		}
	}

	for name := range e.Identities {
		if strings.Contains(strings.ToUpper(name), want) {
			return true
		}
	}
	return false
}

func unlock(e *openpgp.Entity, passphrase []byte) error {
	if e.PrivateKey != nil && e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Decrypt(passphrase); err != nil {
			return err
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return err
			}
		}
	}
	return nil
}
