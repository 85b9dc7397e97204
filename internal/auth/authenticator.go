package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers and verifies ledger users.
// AuthService depends on this interface only, so the credential scheme can change
// without touching the service layer.
type Authenticator interface {
	// Register creates a user account for email. The credential format is up to
	// the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email if credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports whether credential is acceptable for a new account.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
