package jsonstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// Collection names, matching the bundled template file names.
const (
	Users               = "users"
	Bills               = "bills"
	Payments            = "payments"
	MaintenanceRequests = "maintenanceRequests"
	Notifications       = "notifications"
)

// Names lists every collection in seeding order.
var Names = []string{Users, Bills, Payments, MaintenanceRequests, Notifications}

// Seed copies each collection's template from templates into dir when dir
// has no file for it yet. Existing files are left byte-for-byte unchanged,
// so Seed is safe to run on every start.
func Seed(dir string, templates fs.FS, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	for _, name := range Names {
		dest := FilePath(dir, name)
		_, err := os.Stat(dest)
		if err == nil {
			logger.Debug("Collection already present, skipping seed", "collection", name)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", dest, err)
		}

		data, err := fs.ReadFile(templates, name+".json")
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("No bundled template for collection", "collection", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}

		if err := writeFileAtomic(dest, data); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
		logger.Info("Seeded collection", "collection", name, "path", dest)
	}
	return nil
}
