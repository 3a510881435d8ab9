package identity

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmynk/rentalmanager/internal/metrics"
	"github.com/mmynk/rentalmanager/internal/models"
)

// Fallback display names for accounts without a local profile.
const (
	defaultSignInName = "Tenant User"
	defaultSignUpName = "New Tenant"
)

// AuthState is the session snapshot observed by the presentation layer.
type AuthState struct {
	Authenticated bool   `json:"isAuthenticated"`
	Email         string `json:"currentEmail"`
	UserID        string `json:"currentUserId"`
}

// SignInResult is what one sign-in or sign-up established. It is captured
// when the session is updated, so a later sign-in cannot change it.
type SignInResult struct {
	User    models.User
	IDToken string
	State   AuthState
}

// UserDirectory looks up tenant profiles.
type UserDirectory interface {
	Find(ctx context.Context, match func(models.User) bool) (models.User, bool)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// DefaultUnit labels placeholder profiles. Defaults to models.DefaultUnitNumber.
	DefaultUnit string

	Logger *slog.Logger
}

// Session adapts a Provider into local authentication state.
// It maps provider accounts to tenant records by email and republishes the
// provider's auth-state notifications to subscribers.
type Session struct {
	provider    Provider
	users       UserDirectory
	logger      *slog.Logger
	defaultUnit string

	mu      sync.RWMutex
	state   AuthState
	user    *models.User
	idToken string
	subs    map[int]chan AuthState
	nextSub int

	unsubscribe func()
}

// NewSession creates a session bound to provider. Call Close to detach.
func NewSession(provider Provider, users UserDirectory, opts SessionOptions) *Session {
	s := &Session{
		provider:    provider,
		users:       users,
		logger:      opts.Logger,
		defaultUnit: opts.DefaultUnit,
		subs:        make(map[int]chan AuthState),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.defaultUnit == "" {
		s.defaultUnit = models.DefaultUnitNumber
	}
	s.unsubscribe = provider.OnAuthStateChanged(s.handleAuthChange)
	return s
}

// SignIn authenticates with the provider and returns the tenant record for
// the account, or a placeholder when the tenant has no local profile yet.
func (s *Session) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewError(CodeMissingFields, "Please enter both email and password.")
	}

	pu, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.observeFailure(ctx, "sign_in", email, err)
		return nil, err
	}
	metrics.ObserveAuth("sign_in", "ok")

	user := s.resolveUser(ctx, pu, email, defaultSignInName)
	st := s.setSignedIn(user, pu)
	s.logger.InfoContext(ctx, "Signed in", "user_id", user.ID, "email", user.Email)
	return &SignInResult{User: *user, IDToken: pu.IDToken, State: st}, nil
}

// SignUp creates a provider account and signs it in.
func (s *Session) SignUp(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewError(CodeMissingFields, "Email and password required.")
	}

	pu, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.observeFailure(ctx, "sign_up", email, err)
		return nil, err
	}
	metrics.ObserveAuth("sign_up", "ok")

	user := s.resolveUser(ctx, pu, email, defaultSignUpName)
	st := s.setSignedIn(user, pu)
	s.logger.InfoContext(ctx, "Account registered", "user_id", user.ID, "email", user.Email)
	return &SignInResult{User: *user, IDToken: pu.IDToken, State: st}, nil
}

// SignOut ends the provider session and clears local state.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		s.observeFailure(ctx, "sign_out", s.State().Email, err)
		return err
	}
	metrics.ObserveAuth("sign_out", "ok")

	s.mu.Lock()
	s.user = nil
	s.idToken = ""
	s.updateLocked(AuthState{})
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "Signed out")
	return nil
}

// ResetPassword asks the provider to send a password-reset message.
// Local state is not changed.
func (s *Session) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewError(CodeMissingFields, "Please enter your email address.")
	}
	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		s.observeFailure(ctx, "reset_password", email, err)
		return err
	}
	metrics.ObserveAuth("reset_password", "ok")
	s.logger.InfoContext(ctx, "Password reset requested", "email", email)
	return nil
}

// State returns the current auth snapshot.
func (s *Session) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the signed-in tenant, if any.
func (s *Session) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// IDToken returns the provider credential of the current session.
func (s *Session) IDToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idToken
}

// Subscribe returns a channel that receives the current state immediately
// and every subsequent change. A slow reader may miss intermediate states
// but always receives the latest one. cancel closes the channel.
func (s *Session) Subscribe() (<-chan AuthState, func()) {
	ch := make(chan AuthState, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Close detaches from the provider and closes all subscriptions.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// handleAuthChange mirrors the provider's notifications. It runs on the
// provider's goroutine.
func (s *Session) handleAuthChange(pu *ProviderUser) {
	if pu == nil {
		s.mu.Lock()
		s.user = nil
		s.idToken = ""
		s.updateLocked(AuthState{})
		s.mu.Unlock()
		return
	}

	// Lookup happens outside the lock: it reads the users file.
	user := s.resolveUser(context.Background(), pu, pu.Email, defaultSignInName)
	s.setSignedIn(user, pu)
}

// setSignedIn makes user current and returns the state it published.
func (s *Session) setSignedIn(user *models.User, pu *ProviderUser) AuthState {
	email := pu.Email
	if email == "" {
		email = user.Email
	}
	st := AuthState{Authenticated: true, Email: email, UserID: user.ID}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	if pu.IDToken != "" {
		s.idToken = pu.IDToken
	}
	s.updateLocked(st)
	return st
}

// updateLocked stores st and fans it out if it differs from the current state.
// Callers hold s.mu.
func (s *Session) updateLocked(st AuthState) {
	if st == s.state {
		return
	}
	s.state = st
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// Drop the stale value; only this goroutine sends while holding mu.
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

// resolveUser finds the tenant record for pu by email, building a
// placeholder profile when none exists.
func (s *Session) resolveUser(ctx context.Context, pu *ProviderUser, fallbackEmail, fallbackName string) *models.User {
	email := pu.Email
	if email == "" {
		email = fallbackEmail
	}

	if user, ok := s.users.Find(ctx, func(u models.User) bool { return u.HasEmail(email) }); ok {
		return &user
	}

	name := pu.DisplayName
	if name == "" {
		name = fallbackName
	}
	s.logger.InfoContext(ctx, "No local profile for account, using placeholder", "uid", pu.UID, "email", email)
	return &models.User{
		ID:         pu.UID,
		Name:       name,
		Email:      email,
		UnitNumber: s.defaultUnit,
		CreatedAt:  models.Now(),
	}
}

func (s *Session) observeFailure(ctx context.Context, op, email string, err error) {
	code := string(CodeOf(err))
	if code == "" {
		code = "error"
	}
	metrics.ObserveAuth(op, code)
	s.logger.WarnContext(ctx, "Identity operation failed", "op", op, "email", email, "code", code, "error", err)
}
