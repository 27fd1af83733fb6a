package recovery

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archiver moves files into per-recovery archive folders instead of
// deleting them, and moves them back on restore. Failure to archive a
// file must leave the original untouched; that is the safety invariant
// every destructive command depends on.
type Archiver struct {
	store *Store
}

// NewArchiver creates an Archiver backed by store.
func NewArchiver(store *Store) *Archiver {
	return &Archiver{store: store}
}

// Archive moves the file at path into the manifest's archive directory,
// preserving the original directory structure so same-named files from
// different directories cannot collide. The checksum is taken before the
// move so it reflects content at archive time. On success the item is
// appended to the manifest.
func (a *Archiver) Archive(path string, m *Manifest, category, source string, canRegenerate bool) (*Item, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	checksum, err := ChecksumFile(path)
	if err != nil {
		return nil, fmt.Errorf("checksumming %s: %w", path, err)
	}

	dest := filepath.Join(a.store.ArchiveDir(m.ID), relativize(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}
	if err := moveFile(path, dest); err != nil {
		return nil, fmt.Errorf("archiving %s: %w", path, err)
	}

	item := Item{
		OriginalPath:  path,
		ArchivePath:   dest,
		Size:          info.Size(),
		Checksum:      checksum,
		Category:      category,
		Source:        source,
		CanRegenerate: canRegenerate,
	}
	m.AddItem(item)
	return &item, nil
}

// RestoreResult summarizes one restore run.
type RestoreResult struct {
	// Restored is the number of items moved back to their original paths.
	Restored int
	// Bytes is the total size of restored items.
	Bytes int64
	// Skipped describes items that failed integrity checks or could not
	// be moved. These are per-item problems; they never abort the batch.
	Skipped []string
}

// Restore moves every item of the manifest back to its original path.
// Each archived copy's checksum is verified first; a mismatch skips that
// item and the batch continues. If the original path already holds a
// file, it is renamed aside to <name>.pre-restore rather than
// overwritten. Fails as a whole only if the manifest cannot be loaded.
func (a *Archiver) Restore(manifestID string) (*RestoreResult, error) {
	m, err := a.store.LoadManifest(manifestID)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}
	for _, item := range m.Items {
		if err := a.restoreItem(item); err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", item.OriginalPath, err))
			continue
		}
		result.Restored++
		result.Bytes += item.Size
	}
	return result, nil
}

func (a *Archiver) restoreItem(item Item) error {
	checksum, err := ChecksumFile(item.ArchivePath)
	if err != nil {
		return fmt.Errorf("reading archived copy: %w", err)
	}
	if checksum != item.Checksum {
		return fmt.Errorf("checksum mismatch: archive has %s, manifest says %s", checksum, item.Checksum)
	}

	if err := os.MkdirAll(filepath.Dir(item.OriginalPath), 0755); err != nil {
		return fmt.Errorf("creating parent dir: %w", err)
	}

	// Never overwrite whatever now lives at the original path; move it
	// aside so the user can reconcile.
	if _, err := os.Lstat(item.OriginalPath); err == nil {
		if err := os.Rename(item.OriginalPath, asidePath(item.OriginalPath)); err != nil {
			return fmt.Errorf("moving existing file aside: %w", err)
		}
	}

	if err := moveFile(item.ArchivePath, item.OriginalPath); err != nil {
		return fmt.Errorf("moving back: %w", err)
	}
	return nil
}

// asidePath picks an unoccupied aside name for path. Earlier asides from
// previous restores of the same path are never overwritten.
func asidePath(path string) string {
	aside := path + ".pre-restore"
	for i := 1; ; i++ {
		if _, err := os.Lstat(aside); os.IsNotExist(err) {
			return aside
		}
		aside = fmt.Sprintf("%s.pre-restore.%d", path, i)
	}
}

// ChecksumFile returns the streaming SHA-256 hex digest of the file.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// relativize strips the leading separator so an absolute original path
// can live under the archive directory with its structure intact.
func relativize(path string) string {
	return strings.TrimPrefix(filepath.Clean(path), string(filepath.Separator))
}

// moveFile renames src to dst, falling back to copy-then-remove when the
// two live on different filesystems. A failed copy removes the partial
// destination, so either the original or the archived copy survives
// intact — never neither, never two diverging copies.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
