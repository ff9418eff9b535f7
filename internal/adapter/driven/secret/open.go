package secret

import (
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Open returns the platform keychain store when one is usable, otherwise the
// encrypted-file fallback at fallbackPath keyed by passphrase. The fallback
// logs its reduced security guarantees on construction.
func Open(fallbackPath, passphrase string) (driven.SecretStore, error) {
	if store, err := NewKeyringStore(); err == nil {
		return store, nil
	}
	return NewFileStore(fallbackPath, passphrase)
}
