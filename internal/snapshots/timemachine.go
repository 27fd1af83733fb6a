// Package snapshots manages local Time Machine snapshots that accumulate
// on APFS volumes.
package snapshots

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// tmutilTimeout is the maximum time to wait for a tmutil invocation.
const tmutilTimeout = 60 * time.Second

// snapshotPrefix is the fixed prefix of local snapshot names.
const snapshotPrefix = "com.apple.TimeMachine."

// Snapshot is one local Time Machine snapshot.
type Snapshot struct {
	// ID is the full snapshot name, e.g.
	// com.apple.TimeMachine.2025-01-20-143000.local
	ID string `json:"id"`
	// Date is the creation time parsed from the snapshot name.
	Date time.Time `json:"date"`
}

// runner executes tmutil; swapped out in tests.
type runner func(args ...string) ([]byte, error)

func tmutilRun(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tmutilTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "tmutil", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("tmutil %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Manager lists and deletes local snapshots via tmutil.
type Manager struct {
	run runner
}

// NewManager creates a Manager using the real tmutil binary.
func NewManager() *Manager {
	return &Manager{run: tmutilRun}
}

// List returns all local snapshots on the root volume.
func (m *Manager) List() ([]Snapshot, error) {
	out, err := m.run("listlocalsnapshots", "/")
	if err != nil {
		return nil, err
	}
	return parseSnapshotList(string(out)), nil
}

// Delete removes one local snapshot by id.
func (m *Manager) Delete(id string) error {
	date, ok := strings.CutPrefix(id, snapshotPrefix)
	if !ok {
		return core.InvalidInputf("not a snapshot id: %q", id)
	}
	// tmutil deletelocalsnapshot takes the date portion, not the full name.
	date = strings.TrimSuffix(date, ".local")
	_, err := m.run("deletelocalsnapshot", date)
	return err
}

// DeleteOlderThan removes snapshots older than the given number of days.
// In dry-run mode it only reports what would be deleted. Snapshots whose
// dates cannot be parsed are left alone.
func (m *Manager) DeleteOlderThan(days int, dryRun bool) ([]string, error) {
	if days < 0 {
		return nil, core.InvalidInputf("days must be non-negative, got %d", days)
	}

	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	var deleted []string
	for _, s := range snapshots {
		if s.Date.IsZero() || !s.Date.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := m.Delete(s.ID); err != nil {
				return deleted, err
			}
		}
		deleted = append(deleted, s.ID)
	}
	return deleted, nil
}

// parseSnapshotList extracts snapshots from tmutil listlocalsnapshots
// output. Lines that are not snapshot names (headers, blanks) are
// skipped.
func parseSnapshotList(out string) []Snapshot {
	var snapshots []Snapshot
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, snapshotPrefix) {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			ID:   line,
			Date: parseSnapshotDate(line),
		})
	}
	return snapshots
}

// parseSnapshotDate pulls the timestamp out of a snapshot name like
// com.apple.TimeMachine.2025-01-20-143000.local. Returns the zero time
// when no timestamp can be found.
func parseSnapshotDate(id string) time.Time {
	s := strings.TrimPrefix(id, snapshotPrefix)
	s = strings.TrimSuffix(s, ".local")

	for _, layout := range []string{"2006-01-02-150405", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
