package pgpsign

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

var keyFileExts = map[string]struct{}{
	".asc": {},
	".gpg": {},
	".key": {},
	".pgp": {},
}

// DefaultKeyStore returns $GNUPGHOME, or ~/.gnupg when unset.
func DefaultKeyStore() string {
	if dir := os.Getenv("GNUPGHOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gnupg"
	}
	return filepath.Join(home, ".gnupg")
}

// ReadKeyStore reads every key in path. A directory is scanned for .asc,
// .gpg, .key and .pgp files; unreadable files in a directory are skipped.
func ReadKeyStore(path string) (openpgp.EntityList, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("checking key store: %w", err)
	}

	if !info.IsDir() {
		return readKeyFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading key store directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keyFileExts[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var keys openpgp.EntityList
	for _, name := range names {
		list, err := readKeyFile(filepath.Join(path, name))
		if err != nil {
			continue
		}
		keys = append(keys, list...)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys found in %s", path)
	}
	return keys, nil
}

func readKeyFile(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	if keys, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data)); err == nil {
		return keys, nil
	}
	keys, err := openpgp.ReadKeyRing(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing key file %s: %w", path, err)
	}
	return keys, nil
}
