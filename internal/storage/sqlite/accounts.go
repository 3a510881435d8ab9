package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/rentalmanager/internal/models"
)

// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
var ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")

const accountColumns = `uid, email, display_name, password_hash, disabled, failed_attempts, last_failed_at, created_at, updated_at`

// CreateAccount inserts a new account into the database.
func (s *AccountStore) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		account.UID,
		account.Email,
		account.DisplayName,
		account.PasswordHash,
		account.Disabled,
		account.FailedAttempts,
		account.LastFailedAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail retrieves an account by email, ignoring case.
// Returns nil, nil when no account matches.
func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// GetAccountByUID retrieves an account by its UID.
// Returns nil, nil when no account matches.
func (s *AccountStore) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE uid = ?`, uid)
	account, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by uid: %w", err)
	}
	return account, nil
}

// SetDisabled enables or disables sign-in for an account.
func (s *AccountStore) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	return s.execOne(ctx, "set disabled",
		`UPDATE accounts SET disabled = ?, updated_at = ? WHERE uid = ?`,
		disabled, time.Now().Unix(), uid)
}

// RecordFailedSignIn increments the failed-attempt counter and returns
// the new count.
func (s *AccountStore) RecordFailedSignIn(ctx context.Context, uid string, at time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`UPDATE accounts SET failed_attempts = failed_attempts + 1, last_failed_at = ?
		 WHERE uid = ? RETURNING failed_attempts`,
		at.Unix(), uid,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to record failed sign-in: %w", err)
	}
	return count, nil
}

// ResetFailedSignIns clears the failed-attempt counter.
func (s *AccountStore) ResetFailedSignIns(ctx context.Context, uid string) error {
	return s.execOne(ctx, "reset failed sign-ins",
		`UPDATE accounts SET failed_attempts = 0, last_failed_at = 0 WHERE uid = ?`, uid)
}

// UpdatePassword stores a new password hash.
func (s *AccountStore) UpdatePassword(ctx context.Context, uid, passwordHash string) error {
	return s.execOne(ctx, "update password",
		`UPDATE accounts SET password_hash = ?, failed_attempts = 0, last_failed_at = 0, updated_at = ? WHERE uid = ?`,
		passwordHash, time.Now().Unix(), uid)
}

// CreatePasswordReset stores a reset token for uid.
func (s *AccountStore) CreatePasswordReset(ctx context.Context, token, uid string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO password_resets (token, uid, expires_at) VALUES (?, ?, ?)`,
		token, uid, expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// ConsumePasswordReset deletes token and returns its account UID.
// Expired tokens are deleted too but yield ErrResetTokenInvalid.
func (s *AccountStore) ConsumePasswordReset(ctx context.Context, token string, now time.Time) (string, error) {
	var uid string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM password_resets WHERE token = ? RETURNING uid, expires_at`, token,
	).Scan(&uid, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrResetTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume password reset: %w", err)
	}
	if now.Unix() > expiresAt {
		return "", ErrResetTokenInvalid
	}
	return uid, nil
}

func (s *AccountStore) execOne(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to %s: account not found", what)
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.UID,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&account.Disabled,
		&account.FailedAttempts,
		&account.LastFailedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
