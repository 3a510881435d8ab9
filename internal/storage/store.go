// Package storage provides the record store used by the service layer.
package storage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage/jsonstore"
)

// Collection defines the operations available on one record collection.
// This abstraction lets the service layer run against the JSON files or
// against test doubles.
type Collection[T models.Record] interface {
	// Load returns every record. Read failures yield an empty slice.
	Load(ctx context.Context) []T

	// FilterByOwner returns the records owned by ownerID.
	FilterByOwner(ctx context.Context, ownerID string) []T

	// Find returns the first record matching match.
	Find(ctx context.Context, match func(T) bool) (T, bool)

	// Get returns the record with the given id.
	Get(ctx context.Context, id string) (T, bool)

	// Append adds a record and persists the collection.
	Append(ctx context.Context, record T) error

	// Replace swaps the record with the same id. Reports false if none matched.
	Replace(ctx context.Context, record T) (bool, error)

	// RemoveByID deletes the record with the given id. Reports false if none matched.
	RemoveByID(ctx context.Context, id string) (bool, error)
}

// Ensure the JSON collections satisfy Collection.
var (
	_ Collection[models.User]               = (*jsonstore.Collection[models.User])(nil)
	_ Collection[models.Bill]               = (*jsonstore.Collection[models.Bill])(nil)
	_ Collection[models.Payment]            = (*jsonstore.Collection[models.Payment])(nil)
	_ Collection[models.MaintenanceRequest] = (*jsonstore.Collection[models.MaintenanceRequest])(nil)
	_ Collection[models.NotificationItem]   = (*jsonstore.Collection[models.NotificationItem])(nil)
)

// Store bundles the five collections the app works with.
type Store struct {
	Users         Collection[models.User]
	Bills         Collection[models.Bill]
	Payments      Collection[models.Payment]
	Maintenance   Collection[models.MaintenanceRequest]
	Notifications Collection[models.NotificationItem]

	dir string
}

// Open prepares the JSON store in dir, seeding missing collections from
// templates (nil templates skips seeding).
func Open(dir string, templates fs.FS, opts jsonstore.Options) (*Store, error) {
	if templates != nil {
		if err := jsonstore.Seed(dir, templates, opts.Logger); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	return &Store{
		Users:         jsonstore.NewCollection[models.User](dir, jsonstore.Users, opts),
		Bills:         jsonstore.NewCollection[models.Bill](dir, jsonstore.Bills, opts),
		Payments:      jsonstore.NewCollection[models.Payment](dir, jsonstore.Payments, opts),
		Maintenance:   jsonstore.NewCollection[models.MaintenanceRequest](dir, jsonstore.MaintenanceRequests, opts),
		Notifications: jsonstore.NewCollection[models.NotificationItem](dir, jsonstore.Notifications, opts),
		dir:           dir,
	}, nil
}

// Dir returns the directory holding the collection files.
func (s *Store) Dir() string { return s.dir }
