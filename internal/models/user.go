package models

// DefaultUnitNumber is used when a signed-in account has no local profile yet.
const DefaultUnitNumber = "Unit 1A"

// User represents a tenant account.
//
// Users are matched to the identity provider by email (case-insensitive).
// Accounts that exist only at the provider are materialized with placeholder
// values until the tenant edits their profile.
type User struct {
	// ID is the unique identifier for the user. It is the owner key
	// referenced by every other record's UserID.
	ID string `json:"id"`

	// Name is the display name of the tenant.
	Name string `json:"name"`

	// Email is the tenant's login email.
	Email string `json:"email"`

	// Phone is the tenant's phone number (used for M-Pesa prompts).
	Phone string `json:"phone"`

	// UnitNumber identifies the apartment/unit the tenant leases.
	UnitNumber string `json:"unitNumber"`

	// ProfileImage is an image reference (asset name or URL).
	ProfileImage string `json:"profileImage"`

	// CreatedAt is the RFC 3339 timestamp when the profile was created.
	CreatedAt string `json:"createdAt"`
}

func (u User) RecordID() string { return u.ID }

// OwnerID returns the user's own ID; users own themselves.
func (u User) OwnerID() string { return u.ID }

// HasEmail reports whether the user's email matches email, ignoring case.
func (u User) HasEmail(email string) bool {
	return email != "" && equalFold(u.Email, email)
}
