// Package identity bridges an external authentication provider to the
// app's local session state and tenant records.
package identity

import "context"

// ProviderUser is the provider's view of a signed-in account.
// UID and Email are the only fields the app relies on.
type ProviderUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`

	// IDToken is the bearer credential for the session.
	IDToken string `json:"idToken,omitempty"`
}

// Provider defines the operations consumed from the authentication service.
// This abstraction allows swapping the in-process provider for a hosted one
// without changing the session code.
type Provider interface {
	// SignIn verifies credentials and makes the account current.
	SignIn(ctx context.Context, email, password string) (*ProviderUser, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) (*ProviderUser, error)

	// SignOut clears the current account.
	SignOut(ctx context.Context) error

	// SendPasswordReset starts the password-reset flow for email.
	SendPasswordReset(ctx context.Context, email string) error

	// OnAuthStateChanged registers fn to be called with the current account
	// (nil when signed out) on registration and after every change.
	// The returned func removes the registration.
	OnAuthStateChanged(fn func(*ProviderUser)) (unsubscribe func())
}
