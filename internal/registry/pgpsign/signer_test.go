package pgpsign

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	e, err := openpgp.NewEntity("Registrar Ops", "", "ops@registrar.hu", &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	if err != nil {
		t.Fatalf("NewEntity() error = %v", err)
	}
	return e
}

func writeKey(t *testing.T, path string, e *openpgp.Entity, passphrase string) {
	t.Helper()

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("armor.Encode() error = %v", err)
	}

	if passphrase == "" {
		err = e.SerializePrivate(w, nil)
	} else {
		if err := e.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		for _, sub := range e.Subkeys {
			if err := sub.PrivateKey.Encrypt([]byte(passphrase)); err != nil {
				t.Fatalf("Encrypt(subkey) error = %v", err)
			}
		}
		err = e.SerializePrivateWithoutSigning(w, nil)
	}
	if err != nil {
		t.Fatalf("serialize error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("armor close error = %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func verify(t *testing.T, e *openpgp.Entity, data []byte, sig string) {
	t.Helper()
	if _, err := openpgp.CheckArmoredDetachedSignature(openpgp.EntityList{e}, bytes.NewReader(data), strings.NewReader(sig), nil); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}

func TestLoad_SignsWithFingerprint(t *testing.T) {
	e := newTestEntity(t)
	path := filepath.Join(t.TempDir(), "registrar.asc")
	writeKey(t, path, e, "")

	signer, err := Load(Config{
		KeyID:    fmt.Sprintf("%X", e.PrimaryKey.Fingerprint),
		KeyStore: path,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	data := []byte("<COMMAND TODO=\"domain\"><ID>1.000001</ID></COMMAND>\n")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if !strings.HasPrefix(sig, "-----BEGIN PGP SIGNATURE-----") {
		t.Fatalf("signature is not armored: %q", sig)
	}
	verify(t, e, data, sig)
}

func TestLoad_DirectoryAndUserIDMatch(t *testing.T) {
	dir := t.TempDir()
	e := newTestEntity(t)
	writeKey(t, filepath.Join(dir, "registrar.asc"), e, "")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.gpg"), []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}

	signer, err := Load(Config{KeyID: "ops@registrar.hu", KeyStore: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	data := []byte("payload")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	verify(t, e, data, sig)
}

func TestLoad_ShortKeyID(t *testing.T) {
	e := newTestEntity(t)
	path := filepath.Join(t.TempDir(), "registrar.asc")
	writeKey(t, path, e, "")

	short := fmt.Sprintf("%016X", e.PrimaryKey.KeyId)[8:]
	if _, err := Load(Config{KeyID: "0x" + strings.ToLower(short), KeyStore: path}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoad_Passphrase(t *testing.T) {
	e := newTestEntity(t)
	path := filepath.Join(t.TempDir(), "registrar.asc")
	writeKey(t, path, e, "correct horse")

	if _, err := Load(Config{KeyID: "Registrar Ops", KeyStore: path, Passphrase: "wrong"}); !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("Load(wrong passphrase) error = %v, want ErrInternal", err)
	}

	signer, err := Load(Config{KeyID: "Registrar Ops", KeyStore: path, Passphrase: "correct horse"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := signer.Sign([]byte("payload")); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	e := newTestEntity(t)
	path := filepath.Join(t.TempDir(), "registrar.asc")
	writeKey(t, path, e, "")

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty key id", cfg: Config{KeyStore: path}},
		{name: "unknown key", cfg: Config{KeyID: "nobody@example.com", KeyStore: path}},
		{name: "missing store", cfg: Config{KeyID: "Registrar", KeyStore: filepath.Join(t.TempDir(), "absent")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.cfg)
			if !errors.Is(err, domain.ErrInternal) {
				t.Fatalf("Load() error = %v, want ErrInternal", err)
			}
		})
	}
}

func TestSigner_Close(t *testing.T) {
	e := newTestEntity(t)
	path := filepath.Join(t.TempDir(), "registrar.asc")
	writeKey(t, path, e, "")

	signer, err := Load(Config{KeyID: "Registrar", KeyStore: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := signer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := signer.Sign([]byte("x")); err == nil {
		t.Fatal("Sign() after Close() should fail")
	}
}

func TestDefaultKeyStore(t *testing.T) {
	t.Setenv("GNUPGHOME", "/tmp/custom-gnupg")
	if got := DefaultKeyStore(); got != "/tmp/custom-gnupg" {
		t.Fatalf("DefaultKeyStore() = %q", got)
	}

	t.Setenv("GNUPGHOME", "")
	if got := DefaultKeyStore(); !strings.HasSuffix(got, ".gnupg") {
		t.Fatalf("DefaultKeyStore() = %q, want ~/.gnupg", got)
	}
}
