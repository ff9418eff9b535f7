package secret

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretStore = (*FileStore)(nil)

// FileStore is the fallback secret store for hosts without a usable
// keychain. The token is encrypted with AES-256-GCM under a key derived
// from a user-supplied passphrase and written to a 0600 file.
//
// This is weaker than the platform keychain: anyone with the passphrase and
// file access can read the token. The constructor logs that trade-off so it
// is never picked silently.
type FileStore struct {
	path string
	key  []byte
}

// NewFileStore creates a file-backed secret store at path, deriving the
// AES-256 key from passphrase. The passphrase must be non-empty.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("encrypted-file secret store requires a passphrase")
	}

	slog.Warn("platform keychain unavailable, falling back to encrypted file storage (less secure)", "path", path)

	key := sha256.Sum256([]byte(passphrase))
	return &FileStore{path: path, key: key[:]}, nil
}

// Get returns the stored token, or ErrNoCredential when none is set.
func (s *FileStore) Get(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", driven.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}

	plaintext, err := s.decrypt(string(bytes.TrimSpace(data)))
	if err != nil {
		return "", fmt.Errorf("decrypt secret: %w", err)
	}
	return plaintext, nil
}

// Set stores or replaces the token.
func (s *FileStore) Set(_ context.Context, value string) error {
	encrypted, err := s.encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt secret: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader([]byte(encrypted))); err != nil {
		return fmt.Errorf("write secret file: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restrict secret file permissions: %w", err)
	}
	return nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (s *FileStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove secret file: %w", err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded
// string containing the nonce (12 bytes) prepended to the ciphertext.
func (s *FileStore) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (s *FileStore) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
