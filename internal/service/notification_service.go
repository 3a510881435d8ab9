package service

import (
	"context"
	"slices"
	"strings"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
)

// NotificationService lists a tenant's notifications. Notifications are
// read-only here.
type NotificationService struct {
	store *storage.Store
}

// NewNotificationService creates a new NotificationService with the given store.
func NewNotificationService(store *storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// ListNotifications returns the owner's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, ownerID string, unreadOnly bool) []models.NotificationItem {
	items := s.store.Notifications.FilterByOwner(ctx, ownerID)
	if unreadOnly {
		kept := items[:0]
		for _, n := range items {
			if !n.IsRead {
				kept = append(kept, n)
			}
		}
		items = kept
	}
	slices.SortStableFunc(items, func(a, b models.NotificationItem) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return items
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, ownerID string) int {
	return models.CountUnread(s.store.Notifications.FilterByOwner(ctx, ownerID))
}
