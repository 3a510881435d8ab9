package jsonstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rentalmanager/internal/models"
)

func TestWatchReportsCollectionWrites(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := Watch(ctx, dir, nil)
	require.NoError(t, err)

	c := NewCollection[models.MaintenanceRequest](dir, MaintenanceRequests, Options{})
	require.NoError(t, c.Append(ctx, models.MaintenanceRequest{ID: "m1", Title: "Leak", Description: "Tap"}))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ch, ok := <-changes:
			require.True(t, ok, "watch channel closed early")
			if ch.Collection == MaintenanceRequests && !ch.Removed {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes, err := Watch(ctx, t.TempDir(), nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestCollectionFromPath(t *testing.T) {
	assert.Equal(t, Bills, collectionFromPath("/data/bills.json"))
	assert.Equal(t, "", collectionFromPath("/data/bills.json.tmp-123"))
	assert.Equal(t, "", collectionFromPath("/data/other.json"))
}
