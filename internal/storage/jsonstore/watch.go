package jsonstore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Change reports that a collection file was rewritten or removed.
type Change struct {
	Collection string `json:"collection"`
	Removed    bool   `json:"removed"`
}

// Watch emits a Change whenever one of the collection files in dir changes.
// The channel closes when ctx is done or the watcher fails.
func Watch(ctx context.Context, dir string, logger *slog.Logger) (<-chan Change, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := collectionFromPath(ev.Name)
				if name == "" {
					continue
				}
				change := Change{
					Collection: name,
					Removed:    ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Collection watcher error", "dir", dir, "error", err)
			}
		}
	}()
	return out, nil
}

func collectionFromPath(path string) string {
	base := filepath.Base(path)
	name, ok := strings.CutSuffix(base, ".json")
	if !ok {
		return ""
	}
	for _, known := range Names {
		if name == known {
			return name
		}
	}
	return ""
}
