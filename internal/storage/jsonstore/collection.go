// Package jsonstore implements record collections as flat JSON files.
//
// Each collection is one file holding a JSON array. Every operation reads the
// whole file and mutations rewrite it; there is no index and, unless
// Options.SerializeWrites is set, no locking between callers. Two
// read-modify-write cycles that overlap on the same collection therefore
// race, and the later write discards the earlier one (lost update).
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mmynk/rentalmanager/internal/metrics"
	"github.com/mmynk/rentalmanager/internal/models"
)

// Options configures a collection.
type Options struct {
	// SerializeWrites guards each read-modify-write cycle with a
	// per-collection mutex. Off by default: callers get the unsynchronized
	// behavior and its lost-update hazard.
	SerializeWrites bool

	Logger *slog.Logger
}

// Collection is a JSON-array file of records of type T.
type Collection[T models.Record] struct {
	name   string
	path   string
	logger *slog.Logger
	lock   *sync.Mutex

	// afterLoad runs between the read and the write of a mutation.
	afterLoad func()
}

// NewCollection returns the collection name stored as dir/name.json.
// The file is not touched until the first operation.
func NewCollection[T models.Record](dir, name string, opts Options) *Collection[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collection[T]{
		name:   name,
		path:   FilePath(dir, name),
		logger: logger.With("collection", name),
	}
	if opts.SerializeWrites {
		c.lock = &sync.Mutex{}
	}
	return c
}

// FilePath returns the location of collection name inside dir.
func FilePath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Load reads every record in the collection.
// A missing or undecodable file yields an empty slice; the failure is logged
// and not returned.
func (c *Collection[T]) Load(ctx context.Context) []T {
	items, err := c.read()
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to load collection, using empty set", "path", c.path, "error", err)
		metrics.ObserveStoreOp(c.name, "load", "error")
		return []T{}
	}
	metrics.ObserveStoreOp(c.name, "load", "ok")
	metrics.SetRecordCount(c.name, len(items))
	return items
}

// FilterByOwner returns the records whose owner is ownerID.
func (c *Collection[T]) FilterByOwner(ctx context.Context, ownerID string) []T {
	items := c.Load(ctx)
	owned := make([]T, 0, len(items))
	for _, item := range items {
		if item.OwnerID() == ownerID {
			owned = append(owned, item)
		}
	}
	return owned
}

// Find returns the first record matching match.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool) {
	for _, item := range c.Load(ctx) {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool) {
	return c.Find(ctx, func(item T) bool { return item.RecordID() == id })
}

// Append adds record to the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, record T) error {
	_, err := c.mutate(ctx, "append", func(items []T) ([]T, bool) {
		return append(items, record), true
	})
	if err == nil {
		c.logger.DebugContext(ctx, "Record appended", "id", record.RecordID())
	}
	return err
}

// Replace swaps the first record whose id matches record's id.
// It reports false, and leaves the file untouched, when there is no match.
func (c *Collection[T]) Replace(ctx context.Context, record T) (bool, error) {
	id := record.RecordID()
	replaced, err := c.mutate(ctx, "replace", func(items []T) ([]T, bool) {
		for i := range items {
			if items[i].RecordID() == id {
				items[i] = record
				return items, true
			}
		}
		return items, false
	})
	if err == nil && !replaced {
		c.logger.WarnContext(ctx, "No matching record to replace", "id", id)
	}
	return replaced, err
}

// RemoveByID deletes every record with the given id.
// It reports false when no record matched.
func (c *Collection[T]) RemoveByID(ctx context.Context, id string) (bool, error) {
	removed, err := c.mutate(ctx, "remove", func(items []T) ([]T, bool) {
		kept := items[:0]
		for _, item := range items {
			if item.RecordID() != id {
				kept = append(kept, item)
			}
		}
		return kept, len(kept) != len(items)
	})
	if err == nil && !removed {
		c.logger.DebugContext(ctx, "No matching record to remove", "id", id)
	}
	return removed, err
}

// mutate runs one read-modify-write cycle. fn reports whether it changed
// the slice; unchanged slices are not written back.
func (c *Collection[T]) mutate(ctx context.Context, op string, fn func([]T) ([]T, bool)) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}

	items := c.Load(ctx)
	if c.afterLoad != nil {
		c.afterLoad()
	}

	next, changed := fn(items)
	if !changed {
		metrics.ObserveStoreOp(c.name, op, "miss")
		return false, nil
	}

	if err := c.write(next); err != nil {
		c.logger.ErrorContext(ctx, "Failed to write collection", "op", op, "path", c.path, "error", err)
		metrics.ObserveStoreOp(c.name, op, "error")
		return false, err
	}
	metrics.ObserveStoreOp(c.name, op, "ok")
	metrics.SetRecordCount(c.name, len(next))
	return true, nil
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(c.path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write replaces the file with items via a temp file and rename, so readers
// never observe a partially written array.
func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	return writeFileAtomic(c.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
