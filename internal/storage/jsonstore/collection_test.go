package jsonstore

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rentalmanager/internal/models"
)

func newBills(t *testing.T, opts Options) (*Collection[models.Bill], string) {
	t.Helper()
	dir := t.TempDir()
	return NewCollection[models.Bill](dir, Bills, opts), dir
}

func ids(bills []models.Bill) []string {
	out := make([]string, len(bills))
	for i, b := range bills {
		out[i] = b.ID
	}
	return out
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields empty collection", func(t *testing.T) {
		c, _ := newBills(t, Options{})
		items := c.Load(ctx)
		require.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("corrupt file yields empty collection", func(t *testing.T) {
		c, dir := newBills(t, Options{})
		require.NoError(t, os.WriteFile(FilePath(dir, Bills), []byte("{not json"), 0644))
		assert.Empty(t, c.Load(ctx))
	})

	t.Run("null array yields empty collection", func(t *testing.T) {
		c, dir := newBills(t, Options{})
		require.NoError(t, os.WriteFile(FilePath(dir, Bills), []byte("null"), 0644))
		items := c.Load(ctx)
		require.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})

	require.NoError(t, c.Append(ctx, models.Bill{ID: "b1", UserID: "u1", Amount: 1000, Status: "unpaid"}))
	require.NoError(t, c.Append(ctx, models.Bill{ID: "b2", UserID: "u1", Amount: 500, Status: "unpaid"}))

	items := c.Load(ctx)
	assert.Equal(t, []string{"b1", "b2"}, ids(items))

	count := 0
	for _, b := range items {
		if b.ID == "b2" {
			count++
		}
	}
	assert.Equal(t, 1, count, "appended record should appear exactly once")
}

func TestAppendCanceledContext(t *testing.T) {
	c, _ := newBills(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Append(ctx, models.Bill{ID: "b1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Load(context.Background()))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})
	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, c.Append(ctx, models.Bill{ID: id, UserID: "u1", Status: "unpaid"}))
	}

	t.Run("matching id is replaced in place", func(t *testing.T) {
		replaced, err := c.Replace(ctx, models.Bill{ID: "b2", UserID: "u1", Status: "paid"})
		require.NoError(t, err)
		assert.True(t, replaced)

		items := c.Load(ctx)
		assert.Equal(t, []string{"b1", "b2", "b3"}, ids(items))
		assert.Equal(t, "paid", items[1].Status)
		assert.Equal(t, "unpaid", items[0].Status)
		assert.Equal(t, "unpaid", items[2].Status)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		replaced, err := c.Replace(ctx, models.Bill{ID: "nope", Status: "paid"})
		require.NoError(t, err)
		assert.False(t, replaced)
		assert.Len(t, c.Load(ctx), 3)
	})
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})
	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, c.Append(ctx, models.Bill{ID: id}))
	}

	removed, err := c.RemoveByID(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"b1", "b3"}, ids(c.Load(ctx)))

	removed, err = c.RemoveByID(ctx, "b2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, c.Load(ctx), 2)
}

func TestFilterByOwner(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})
	owners := map[string]string{"b1": "u1", "b2": "u2", "b3": "u1", "b4": "u3", "b5": "u2"}
	for _, id := range []string{"b1", "b2", "b3", "b4", "b5"} {
		require.NoError(t, c.Append(ctx, models.Bill{ID: id, UserID: owners[id]}))
	}

	assert.Equal(t, []string{"b1", "b3"}, ids(c.FilterByOwner(ctx, "u1")))
	assert.Empty(t, c.FilterByOwner(ctx, "nobody"))

	// The per-owner partitions together cover the collection exactly once.
	seen := map[string]int{}
	for _, owner := range []string{"u1", "u2", "u3"} {
		for _, b := range c.FilterByOwner(ctx, owner) {
			assert.Equal(t, owner, b.UserID)
			seen[b.ID]++
		}
	}
	assert.Len(t, seen, len(owners))
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s", id)
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})
	require.NoError(t, c.Append(ctx, models.Bill{ID: "b1", Type: "Rent"}))

	b, ok := c.Get(ctx, "b1")
	require.True(t, ok)
	assert.Equal(t, "Rent", b.Type)

	_, ok = c.Get(ctx, "b9")
	assert.False(t, ok)
}

// Both writers read the empty file before either writes, so the second
// write discards the first. This is the documented lost-update hazard of
// the unsynchronized store.
func TestConcurrentAppendLosesUpdate(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{})

	var loaded sync.WaitGroup
	loaded.Add(2)
	c.afterLoad = func() {
		loaded.Done()
		loaded.Wait()
	}

	var wg sync.WaitGroup
	for _, id := range []string{"A", "B"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, c.Append(ctx, models.Bill{ID: id}))
		}(id)
	}
	wg.Wait()
	c.afterLoad = nil

	items := c.Load(ctx)
	require.Len(t, items, 1)
	assert.Contains(t, []string{"A", "B"}, items[0].ID)
}

func TestSerializedWritesKeepEveryAppend(t *testing.T) {
	ctx := context.Background()
	c, _ := newBills(t, Options{SerializeWrites: true})

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.Append(ctx, models.Bill{ID: string(rune('a' + i))}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Load(ctx), writers)
}
