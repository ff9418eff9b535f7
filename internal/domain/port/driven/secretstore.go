package driven

import "context"

// SecretService and SecretAccount are the fixed keychain coordinates for the
// catalog host token. The token is only ever stored here, never in the
// repository configuration.
const (
	SecretService = "catalogsync"
	SecretAccount = "host-token"
)

// SecretStore defines the driven port for credential storage. The primary
// adapter uses the platform keychain; a clearly labeled less-secure
// encrypted-file fallback exists for hosts without one.
type SecretStore interface {
	// Get returns the stored secret, or ErrNoCredential when none is set.
	Get(ctx context.Context) (string, error)

	// Set stores or replaces the secret.
	Set(ctx context.Context, value string) error

	// Delete removes the stored secret. Deleting an absent secret is not
	// an error.
	Delete(ctx context.Context) error
}
