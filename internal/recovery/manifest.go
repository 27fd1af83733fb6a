// Package recovery implements the archive-before-delete store that makes
// every destructive cleanup reversible until its retention window expires.
//
// On-disk layout under the recovery root:
//
//	index.json           {"recoveries": [id, ...]}
//	manifests/<id>.json  one Manifest per cleanup run, pretty-printed
//	archives/<id>/...    archived file tree for that run
package recovery

import "time"

// Item records one file moved into the archive. Created at archive time
// and never mutated; the checksum is verified before the file is moved
// back during restore.
type Item struct {
	OriginalPath  string `json:"original_path"`
	ArchivePath   string `json:"archive_path"`
	Size          int64  `json:"size"`
	Checksum      string `json:"checksum"`
	Category      string `json:"category"`
	Source        string `json:"source"`
	CanRegenerate bool   `json:"can_regenerate"`
}

// Manifest records one cleanup run's archived items and retention window.
// Immutable once saved.
type Manifest struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	TotalSize      int64     `json:"total_size"`
	Items          []Item    `json:"items"`
	RetentionUntil time.Time `json:"retention_until"`
}

// AddItem appends an archived item and accounts its size.
func (m *Manifest) AddItem(item Item) {
	m.Items = append(m.Items, item)
	m.TotalSize += item.Size
}

// Expired reports whether the manifest's retention window has passed.
func (m *Manifest) Expired(now time.Time) bool {
	return m.RetentionUntil.Before(now)
}

// index is the flat persisted lookup table of manifest ids. Its sole
// purpose is enumerating manifests without a directory scan.
type index struct {
	Recoveries []string `json:"recoveries"`
}

func (ix *index) contains(id string) bool {
	for _, r := range ix.Recoveries {
		if r == id {
			return true
		}
	}
	return false
}

// Clock abstracts time retrieval so retention logic is deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
