package recovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
)

// Store owns the on-disk manifest/index/archive tree under one recovery
// root. Callers never touch those files directly.
//
// The index is shared mutable state across concurrent invocations, so
// every index mutation happens under an advisory file lock and commits
// via write-temp-then-rename.
type Store struct {
	root   string
	clock  Clock
	logger logging.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, clock Clock, logger logging.Logger) *Store {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{root: dir, clock: clock, logger: logger}
}

// Root returns the recovery root directory.
func (s *Store) Root() string { return s.root }

// ArchiveDir returns the archive directory for a recovery id.
func (s *Store) ArchiveDir(id string) string {
	return filepath.Join(s.root, "archives", id)
}

func (s *Store) manifestsDir() string {
	return filepath.Join(s.root, "manifests")
}

func (s *Store) manifestPath(id string) string {
	return filepath.Join(s.manifestsDir(), id+".json")
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, "index.json")
}

// Initialize idempotently ensures the on-disk directory skeleton exists.
// Safe to call repeatedly and concurrently; an existing index is never
// clobbered.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(s.manifestsDir(), 0755); err != nil {
		return fmt.Errorf("creating manifests dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(s.root, "archives"), 0755); err != nil {
		return fmt.Errorf("creating archives dir: %w", err)
	}

	// O_EXCL so a concurrent Initialize cannot truncate an index that
	// already holds entries.
	f, err := os.OpenFile(s.indexPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("creating index: %w", err)
	}
	defer f.Close()

	data, err := json.MarshalIndent(&index{Recoveries: []string{}}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding empty index: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing empty index: %w", err)
	}
	return nil
}

// CreateManifest allocates a new in-memory manifest with a fresh id and
// the given retention window. Nothing is persisted until SaveManifest.
// The id is a sortable timestamp plus a short random suffix so two
// manifests created within the same second cannot collide.
func (s *Store) CreateManifest(retentionDays int) *Manifest {
	now := s.clock.Now().UTC()
	id := now.Format("2006-01-02_15-04-05") + "_" + uuid.NewString()[:8]

	return &Manifest{
		ID:             id,
		Timestamp:      now,
		RetentionUntil: now.Add(time.Duration(retentionDays) * 24 * time.Hour),
	}
}

// SaveManifest serializes the manifest to its own file, then records its
// id in the index. Re-saving an already-indexed id is a no-op on the
// index side.
func (s *Store) SaveManifest(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest %s: %w", m.ID, err)
	}
	if err := writeFileAtomic(s.manifestPath(m.ID), data); err != nil {
		return fmt.Errorf("writing manifest %s: %w", m.ID, err)
	}

	return s.updateIndex(func(ix *index) {
		if !ix.contains(m.ID) {
			ix.Recoveries = append(ix.Recoveries, m.ID)
		}
	})
}

// LoadManifest reads the manifest for id.
func (s *Store) LoadManifest(id string) (*Manifest, error) {
	data, err := os.ReadFile(s.manifestPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundf("recovery %s", id)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", id, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", id, err)
	}
	return &m, nil
}

// ListRecoveries returns all manifests, newest first. An absent index
// yields an empty list. Index entries whose manifest file is missing or
// corrupt are silently skipped.
func (s *Store) ListRecoveries() ([]*Manifest, error) {
	ix, err := s.readIndex()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var manifests []*Manifest
	for _, id := range ix.Recoveries {
		m, err := s.LoadManifest(id)
		if err != nil {
			s.logger.Debug("skipping unreadable recovery", "id", id, "err", err)
			continue
		}
		manifests = append(manifests, m)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].Timestamp.After(manifests[j].Timestamp)
	})
	return manifests, nil
}

// CleanupExpired permanently purges every recovery whose retention window
// has passed: archive directory first, then manifest file, then the index
// entry. One recovery failing does not block the rest; an id is only
// reported cleaned after its files are gone.
func (s *Store) CleanupExpired() ([]string, error) {
	manifests, err := s.ListRecoveries()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var cleaned []string
	for _, m := range manifests {
		if !m.Expired(now) {
			continue
		}

		if err := os.RemoveAll(s.ArchiveDir(m.ID)); err != nil {
			s.logger.Warn("cannot remove archive", "id", m.ID, "err", err)
			continue
		}
		if err := os.Remove(s.manifestPath(m.ID)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("cannot remove manifest", "id", m.ID, "err", err)
			continue
		}
		cleaned = append(cleaned, m.ID)
		s.logger.Info("recovery purged", "id", m.ID)
	}

	if len(cleaned) == 0 {
		return nil, nil
	}

	purged := make(map[string]bool, len(cleaned))
	for _, id := range cleaned {
		purged[id] = true
	}
	err = s.updateIndex(func(ix *index) {
		kept := ix.Recoveries[:0]
		for _, id := range ix.Recoveries {
			if !purged[id] {
				kept = append(kept, id)
			}
		}
		ix.Recoveries = kept
	})
	return cleaned, err
}

// readIndex reads index.json without locking. Callers mutating the index
// must go through updateIndex instead.
func (s *Store) readIndex() (*index, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return nil, err
	}
	var ix index
	if err := json.Unmarshal(data, &ix); err != nil {
		// Corrupt index degrades to empty rather than failing every
		// listing; manifests on disk stay recoverable.
		s.logger.Warn("index unreadable, treating as empty", "err", err)
		return &index{}, nil
	}
	return &ix, nil
}

// updateIndex applies fn to the index under an advisory file lock and
// commits the result atomically via temp-file rename.
func (s *Store) updateIndex(fn func(*index)) error {
	lock := flock.New(filepath.Join(s.root, "index.lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking index: %w", err)
	}
	defer lock.Unlock()

	ix, err := s.readIndex()
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading index: %w", err)
		}
		ix = &index{}
	}
	if ix.Recoveries == nil {
		ix.Recoveries = []string{}
	}

	fn(ix)

	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := writeFileAtomic(s.indexPath(), data); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
