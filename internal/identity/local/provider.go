// Package local implements identity.Provider in-process, backed by the
// SQLite account database. It stands in for a hosted authentication service.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/rentalmanager/internal/identity"
	"github.com/mmynk/rentalmanager/internal/models"
)

// AccountStorage defines the account persistence the provider needs.
// This allows the provider to be independent of the storage implementation.
type AccountStorage interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	RecordFailedSignIn(ctx context.Context, uid string, at time.Time) (int, error)
	ResetFailedSignIns(ctx context.Context, uid string) error
	UpdatePassword(ctx context.Context, uid, passwordHash string) error
	CreatePasswordReset(ctx context.Context, token, uid string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, token string, now time.Time) (string, error)
}

// Config tunes provider policy.
type Config struct {
	// AllowSignUp enables self-service registration.
	AllowSignUp bool

	// MinPasswordLength is the shortest accepted password. Defaults to 6.
	MinPasswordLength int

	// MaxFailedAttempts consecutive failures lock sign-in for LockoutWindow.
	// Zero disables lockout.
	MaxFailedAttempts int
	LockoutWindow     time.Duration

	// ResetTokenTTL is how long a password-reset token stays valid. Defaults to 1h.
	ResetTokenTTL time.Duration
}

// Ensure Provider implements identity.Provider
var _ identity.Provider = (*Provider)(nil)

// Provider is a password-based identity provider.
type Provider struct {
	accounts AccountStorage
	tokens   *TokenManager
	mailer   Mailer
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	current   *identity.ProviderUser
	listeners map[int]func(*identity.ProviderUser)
	nextID    int
}

// NewProvider creates a provider. A nil mailer logs reset tokens.
func NewProvider(accounts AccountStorage, tokens *TokenManager, mailer Mailer, cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if mailer == nil {
		mailer = LogMailer{Logger: logger}
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &Provider{
		accounts:  accounts,
		tokens:    tokens,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]func(*identity.ProviderUser)),
	}
}

// SignIn verifies email and password and makes the account current.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.ProviderUser, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	account, err := p.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, internalError(err)
	}
	if account == nil {
		return nil, identity.NewError(identity.CodeUserNotFound, "There is no user record corresponding to this identifier.")
	}
	if account.Disabled {
		return nil, identity.NewError(identity.CodeUserDisabled, "The user account has been disabled by an administrator.")
	}
	if p.lockedOut(account) {
		return nil, identity.NewError(identity.CodeTooManyRequests, "Access to this account has been temporarily disabled due to many failed login attempts.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if _, recErr := p.accounts.RecordFailedSignIn(ctx, account.UID, p.now()); recErr != nil {
			p.logger.WarnContext(ctx, "Failed to record failed sign-in", "uid", account.UID, "error", recErr)
		}
		return nil, identity.NewError(identity.CodeWrongPassword, "The password is invalid.")
	}

	if account.FailedAttempts > 0 {
		if err := p.accounts.ResetFailedSignIns(ctx, account.UID); err != nil {
			p.logger.WarnContext(ctx, "Failed to reset failed sign-ins", "uid", account.UID, "error", err)
		}
	}

	return p.startSession(account)
}

// SignUp creates an account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*identity.ProviderUser, error) {
	if !p.cfg.AllowSignUp {
		return nil, identity.NewError(identity.CodeOperationNotAllowed, "Sign-up is disabled for this project.")
	}
	account, err := p.CreateAccount(ctx, email, password, "")
	if err != nil {
		return nil, err
	}
	return p.startSession(account)
}

// CreateAccount registers an account without signing it in. It ignores
// AllowSignUp and is meant for administrative tooling.
func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < p.cfg.MinPasswordLength {
		return nil, identity.NewError(identity.CodeWeakPassword,
			fmt.Sprintf("Password should be at least %d characters.", p.cfg.MinPasswordLength))
	}

	existing, err := p.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, identity.NewError(identity.CodeEmailAlreadyInUse, "The email address is already in use by another account.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(fmt.Errorf("failed to hash password: %w", err))
	}

	now := p.now().Unix()
	account := &models.Account{
		UID:          uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.accounts.CreateAccount(ctx, account); err != nil {
		return nil, internalError(err)
	}

	p.logger.InfoContext(ctx, "Account created", "uid", account.UID, "email", account.Email)
	return account, nil
}

// DisableAccount blocks sign-in for the account registered with email.
func (p *Provider) DisableAccount(ctx context.Context, email string, disabled bool) error {
	account, err := p.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return internalError(err)
	}
	if account == nil {
		return identity.NewError(identity.CodeUserNotFound, "There is no user record corresponding to this identifier.")
	}
	if err := p.accounts.SetDisabled(ctx, account.UID, disabled); err != nil {
		return internalError(err)
	}
	return nil
}

// SignOut clears the current account.
func (p *Provider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// SendPasswordReset issues a single-use reset token and hands it to the mailer.
func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	account, err := p.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return internalError(err)
	}
	if account == nil {
		return identity.NewError(identity.CodeUserNotFound, "There is no user record corresponding to this identifier.")
	}

	token := uuid.New().String()
	if err := p.accounts.CreatePasswordReset(ctx, token, account.UID, p.now().Add(p.cfg.ResetTokenTTL)); err != nil {
		return internalError(err)
	}
	if err := p.mailer.SendPasswordReset(ctx, account.Email, token); err != nil {
		return identity.NewError(identity.CodeNetworkError, err.Error())
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token.
func (p *Provider) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < p.cfg.MinPasswordLength {
		return identity.NewError(identity.CodeWeakPassword,
			fmt.Sprintf("Password should be at least %d characters.", p.cfg.MinPasswordLength))
	}
	uid, err := p.accounts.ConsumePasswordReset(ctx, token, p.now())
	if err != nil {
		return identity.NewError(identity.CodeInvalidCredential, err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := p.accounts.UpdatePassword(ctx, uid, string(hash)); err != nil {
		return internalError(err)
	}
	return nil
}

// VerifyIDToken validates an ID token and returns the account it names.
func (p *Provider) VerifyIDToken(ctx context.Context, token string) (*identity.ProviderUser, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return nil, identity.NewError(identity.CodeInvalidCredential, err.Error())
	}
	account, err := p.accounts.GetAccountByUID(ctx, claims.Subject)
	if err != nil {
		return nil, internalError(err)
	}
	if account == nil {
		return nil, identity.NewError(identity.CodeUserNotFound, "There is no user record corresponding to this identifier.")
	}
	if account.Disabled {
		return nil, identity.NewError(identity.CodeUserDisabled, "The user account has been disabled by an administrator.")
	}
	return &identity.ProviderUser{
		UID:         account.UID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		IDToken:     token,
	}, nil
}

// CurrentUser returns the signed-in account, or nil.
func (p *Provider) CurrentUser() *identity.ProviderUser {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	u := *p.current
	return &u
}

// OnAuthStateChanged registers fn and immediately calls it with the current account.
func (p *Provider) OnAuthStateChanged(fn func(*identity.ProviderUser)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(copyUser(current))

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) startSession(account *models.Account) (*identity.ProviderUser, error) {
	token, err := p.tokens.Generate(account)
	if err != nil {
		return nil, internalError(err)
	}
	user := &identity.ProviderUser{
		UID:         account.UID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		IDToken:     token,
	}
	p.setCurrent(user)
	return copyUser(user), nil
}

// setCurrent swaps the current account and notifies listeners outside the lock.
func (p *Provider) setCurrent(user *identity.ProviderUser) {
	p.mu.Lock()
	p.current = user
	listeners := make([]func(*identity.ProviderUser), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(copyUser(user))
	}
}

func (p *Provider) lockedOut(account *models.Account) bool {
	if p.cfg.MaxFailedAttempts <= 0 || account.FailedAttempts < p.cfg.MaxFailedAttempts {
		return false
	}
	last := time.Unix(account.LastFailedAt, 0)
	return p.now().Sub(last) < p.cfg.LockoutWindow
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return identity.NewError(identity.CodeInvalidEmail, "The email address is badly formatted.")
	}
	return nil
}

func internalError(err error) error {
	return identity.NewError(identity.CodeInternal, err.Error())
}

func copyUser(u *identity.ProviderUser) *identity.ProviderUser {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
