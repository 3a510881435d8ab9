package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/identity"
)

var (
	ErrMissingToken = errors.New("authorization token required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the provider UID of the caller.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for the caller's email.
	EmailKey contextKey = "email"
)

// TokenVerifier validates ID tokens issued by the identity provider.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*identity.ProviderUser, error)
}

// GetUserID extracts the provider UID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUser returns ctx carrying the caller's UID and email.
func WithUser(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, uid)
	return context.WithValue(ctx, EmailKey, email)
}

// Authenticate validates the Bearer token in header and returns ctx
// enriched with the caller's identity.
func Authenticate(ctx context.Context, verifier TokenVerifier, header http.Header) (context.Context, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, ErrMissingToken)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, connect.NewError(connect.CodeUnauthenticated, ErrInvalidToken)
	}

	user, err := verifier.VerifyIDToken(ctx, parts[1])
	if err != nil {
		if identity.CodeOf(err) == identity.CodeUserDisabled {
			return nil, connect.NewError(connect.CodePermissionDenied, errors.New(identity.UserMessage(err)))
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, ErrInvalidToken)
	}

	return WithUser(ctx, user.UID, user.Email), nil
}

// RequireAuth returns an interceptor that validates ID tokens and requires
// authentication. It adds the caller's UID and email to the request context.
func RequireAuth(verifier TokenVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authCtx, err := Authenticate(ctx, verifier, req.Header())
			if err != nil {
				return nil, err
			}
			return next(authCtx, req)
		}
	}
}
