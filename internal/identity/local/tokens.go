package local

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/rentalmanager/internal/models"
)

const tokenIssuer = "rentalmanager-local"

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager signs the ID tokens handed out at sign-in and checks the
// ones presented back on RPC calls. Tokens are HS256 and carry the account
// UID as subject.
type TokenManager struct {
	key []byte
	ttl time.Duration
}

// Claims is the payload of an ID token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenManager returns a manager signing with secret. Issued tokens
// expire after ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{key: []byte(secret), ttl: ttl}
}

// Generate issues an ID token for account.
func (m *TokenManager) Generate(account *models.Account) (string, error) {
	issued := time.Now()
	claims := Claims{
		Email: account.Email,
		Name:  account.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   account.UID,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign ID token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer and expiry of raw and returns its claims.
// Any failure wraps ErrInvalidToken.
func (m *TokenManager) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
