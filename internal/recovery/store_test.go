package recovery_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/recovery"
)

// fakeClock lets tests control retention arithmetic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T, clock recovery.Clock) *recovery.Store {
	t.Helper()
	store := recovery.NewStore(t.TempDir(), clock, nil)
	require.NoError(t, store.Initialize())
	return store
}

func TestStoreInitialize(t *testing.T) {
	t.Run("creates the directory skeleton", func(t *testing.T) {
		dir := t.TempDir()
		store := recovery.NewStore(dir, nil, nil)
		require.NoError(t, store.Initialize())

		for _, sub := range []string{"manifests", "archives", "index.json"} {
			_, err := os.Stat(filepath.Join(dir, sub))
			require.NoError(t, err, sub)
		}
	})

	t.Run("does not clobber an existing index", func(t *testing.T) {
		store := newTestStore(t, nil)

		m := store.CreateManifest(30)
		m.AddItem(recovery.Item{OriginalPath: "/tmp/x", Size: 10})
		require.NoError(t, store.SaveManifest(m))

		require.NoError(t, store.Initialize())

		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestStoreCreateManifest(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)}
	store := newTestStore(t, clock)

	t.Run("id carries the creation timestamp", func(t *testing.T) {
		m := store.CreateManifest(30)
		require.Equal(t, "2025-06-01_12-30-45", m.ID[:19])
		require.Len(t, m.ID, 19+1+8)
	})

	t.Run("same-second manifests get distinct ids", func(t *testing.T) {
		a := store.CreateManifest(30)
		b := store.CreateManifest(30)
		require.NotEqual(t, a.ID, b.ID)
	})

	t.Run("retention window starts at creation time", func(t *testing.T) {
		m := store.CreateManifest(7)
		require.Equal(t, clock.now.Add(7*24*time.Hour), m.RetentionUntil)
	})
}

func TestStoreSaveLoad(t *testing.T) {
	store := newTestStore(t, nil)

	m := store.CreateManifest(30)
	m.AddItem(recovery.Item{
		OriginalPath: "/tmp/a.log",
		ArchivePath:  filepath.Join(store.ArchiveDir(m.ID), "tmp/a.log"),
		Size:         42,
		Checksum:     "deadbeef",
		Category:     "logs",
		Source:       "UserLogs",
	})
	require.NoError(t, store.SaveManifest(m))

	t.Run("round trips the manifest", func(t *testing.T) {
		got, err := store.LoadManifest(m.ID)
		require.NoError(t, err)
		require.Equal(t, m.ID, got.ID)
		require.Equal(t, int64(42), got.TotalSize)
		require.Len(t, got.Items, 1)
		require.Equal(t, "/tmp/a.log", got.Items[0].OriginalPath)
	})

	t.Run("re-saving does not duplicate the index entry", func(t *testing.T) {
		require.NoError(t, store.SaveManifest(m))
		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("unknown id is a not-found error", func(t *testing.T) {
		_, err := store.LoadManifest("no-such-id")
		require.True(t, errors.Is(err, core.ErrNotFound))
	})
}

func TestStoreListRecoveries(t *testing.T) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		store := newTestStore(t, nil)
		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("uninitialized store lists nothing", func(t *testing.T) {
		store := recovery.NewStore(t.TempDir(), nil, nil)
		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("newest first", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
		store := newTestStore(t, clock)

		old := store.CreateManifest(30)
		old.AddItem(recovery.Item{OriginalPath: "/tmp/old"})
		require.NoError(t, store.SaveManifest(old))

		clock.now = clock.now.Add(time.Hour)
		recent := store.CreateManifest(30)
		recent.AddItem(recovery.Item{OriginalPath: "/tmp/new"})
		require.NoError(t, store.SaveManifest(recent))

		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, recent.ID, list[0].ID)
		require.Equal(t, old.ID, list[1].ID)
	})

	t.Run("skips index entries whose manifest file is gone", func(t *testing.T) {
		store := newTestStore(t, nil)

		a := store.CreateManifest(30)
		a.AddItem(recovery.Item{OriginalPath: "/tmp/a"})
		require.NoError(t, store.SaveManifest(a))
		b := store.CreateManifest(30)
		b.AddItem(recovery.Item{OriginalPath: "/tmp/b"})
		require.NoError(t, store.SaveManifest(b))

		require.NoError(t, os.Remove(filepath.Join(store.Root(), "manifests", a.ID+".json")))

		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, b.ID, list[0].ID)
	})
}

func TestStoreCleanupExpired(t *testing.T) {
	t.Run("purges only recoveries past retention", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
		store := newTestStore(t, clock)

		expired := store.CreateManifest(1)
		expired.AddItem(recovery.Item{OriginalPath: "/tmp/old"})
		require.NoError(t, store.SaveManifest(expired))
		require.NoError(t, os.MkdirAll(store.ArchiveDir(expired.ID), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(store.ArchiveDir(expired.ID), "old"), []byte("x"), 0644))

		clock.now = clock.now.Add(time.Hour)
		kept := store.CreateManifest(30)
		kept.AddItem(recovery.Item{OriginalPath: "/tmp/new"})
		require.NoError(t, store.SaveManifest(kept))

		clock.now = clock.now.Add(48 * time.Hour)
		cleaned, err := store.CleanupExpired()
		require.NoError(t, err)
		require.Equal(t, []string{expired.ID}, cleaned)

		_, err = os.Stat(store.ArchiveDir(expired.ID))
		require.True(t, os.IsNotExist(err), "archive dir should be removed")

		_, err = store.LoadManifest(expired.ID)
		require.True(t, errors.Is(err, core.ErrNotFound))

		list, err := store.ListRecoveries()
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, kept.ID, list[0].ID)
	})

	t.Run("nothing expired is a no-op", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		store := newTestStore(t, clock)

		m := store.CreateManifest(30)
		m.AddItem(recovery.Item{OriginalPath: "/tmp/a"})
		require.NoError(t, store.SaveManifest(m))

		cleaned, err := store.CleanupExpired()
		require.NoError(t, err)
		require.Empty(t, cleaned)
	})
}
