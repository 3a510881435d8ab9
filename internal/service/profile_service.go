package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
)

// ProfileService reads and edits tenant profiles.
type ProfileService struct {
	store *storage.Store
}

// NewProfileService creates a new ProfileService with the given store.
func NewProfileService(store *storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

// GetProfile returns the profile with the given ID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	u, ok := s.store.Users.Get(ctx, userID)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return u, nil
}

// GetProfileByEmail returns the profile registered with email, ignoring case.
func (s *ProfileService) GetProfileByEmail(ctx context.Context, email string) (models.User, error) {
	u, ok := s.store.Users.Find(ctx, func(u models.User) bool { return u.HasEmail(email) })
	if !ok {
		slog.Info("No profile for email", "email", email)
		return models.User{}, fmt.Errorf("%w: no profile for %s", ErrNotFound, email)
	}
	return u, nil
}

// ResolveOwner returns the owner ID for a signed-in account: the profile ID
// registered with email if there is one, otherwise fallbackID (the
// provider's UID).
func (s *ProfileService) ResolveOwner(ctx context.Context, email, fallbackID string) string {
	if u, err := s.GetProfileByEmail(ctx, email); err == nil {
		return u.ID
	}
	return fallbackID
}

// UpdateProfile saves edits to a profile. Email and CreatedAt of an existing
// profile are kept. A profile that does not exist yet (an account signed in
// with a placeholder) is created.
func (s *ProfileService) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" {
		return models.User{}, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if user.Name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	existing, ok := s.store.Users.Get(ctx, user.ID)
	if !ok {
		if user.Email == "" {
			return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidArgument)
		}
		if user.CreatedAt == "" {
			user.CreatedAt = models.Now()
		}
		if err := s.store.Users.Append(ctx, user); err != nil {
			return models.User{}, fmt.Errorf("failed to create profile: %w", err)
		}
		slog.Info("Profile created", "user_id", user.ID)
		return user, nil
	}

	user.Email = existing.Email
	user.CreatedAt = existing.CreatedAt
	if _, err := s.store.Users.Replace(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	slog.Info("Profile updated", "user_id", user.ID)
	return user, nil
}
