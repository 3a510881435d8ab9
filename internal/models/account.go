package models

// Account is a credential record held by the identity provider.
// It is separate from User: the provider knows who can sign in, the
// record store knows who the tenant is. The two are joined by email.
type Account struct {
	// UID is the provider's identifier for the account (UUID format).
	UID string

	// Email is the sign-in email, unique case-insensitively.
	Email string

	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// Disabled accounts cannot sign in.
	Disabled bool

	// FailedAttempts counts consecutive failed sign-ins since the last success.
	FailedAttempts int

	// LastFailedAt is the Unix timestamp of the most recent failed sign-in.
	LastFailedAt int64

	CreatedAt int64
	UpdatedAt int64
}
