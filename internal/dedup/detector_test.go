package dedup_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/dedup"
)

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindDuplicates(t *testing.T) {
	t.Run("groups identical files and computes savings", func(t *testing.T) {
		dir := t.TempDir()
		content := bytes.Repeat([]byte{0xAB}, 1000)
		writeBytes(t, filepath.Join(dir, "a.bin"), content)
		writeBytes(t, filepath.Join(dir, "sub", "b.bin"), content)
		writeBytes(t, filepath.Join(dir, "c.bin"), bytes.Repeat([]byte{0xCD}, 1000))

		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(dir, 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}

		if len(result.Groups) != 1 {
			t.Fatalf("groups = %d, want 1", len(result.Groups))
		}
		g := result.Groups[0]
		if len(g.Files) != 2 {
			t.Errorf("group members = %d, want 2", len(g.Files))
		}
		// Two 1000-byte copies: keeping one frees 1000 bytes.
		if result.PotentialSavings != 1000 {
			t.Errorf("savings = %d, want 1000", result.PotentialSavings)
		}
		if g.Reclaimable() != 1000 {
			t.Errorf("Reclaimable() = %d, want 1000", g.Reclaimable())
		}
	})

	t.Run("respects the minimum size filter", func(t *testing.T) {
		dir := t.TempDir()
		small := []byte("tiny")
		writeBytes(t, filepath.Join(dir, "x"), small)
		writeBytes(t, filepath.Join(dir, "y"), small)

		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(dir, 100)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}
		if len(result.Groups) != 0 {
			t.Errorf("groups = %d, want 0 (all files below min size)", len(result.Groups))
		}
	})

	t.Run("reports each duplicate set as its own group", func(t *testing.T) {
		dir := t.TempDir()
		first := bytes.Repeat([]byte{0x01}, 500)
		second := bytes.Repeat([]byte{0x02}, 300)
		writeBytes(t, filepath.Join(dir, "a1"), first)
		writeBytes(t, filepath.Join(dir, "a2"), first)
		writeBytes(t, filepath.Join(dir, "a3"), first)
		writeBytes(t, filepath.Join(dir, "b1"), second)
		writeBytes(t, filepath.Join(dir, "b2"), second)

		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(dir, 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}

		if len(result.Groups) != 2 {
			t.Fatalf("groups = %d, want 2", len(result.Groups))
		}
		// Three 500-byte copies free 1000; two 300-byte copies free 300.
		if result.PotentialSavings != 1300 {
			t.Errorf("savings = %d, want 1300", result.PotentialSavings)
		}
	})

	t.Run("unique files produce no groups", func(t *testing.T) {
		dir := t.TempDir()
		writeBytes(t, filepath.Join(dir, "a"), []byte("one"))
		writeBytes(t, filepath.Join(dir, "b"), []byte("two"))

		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(dir, 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}
		if len(result.Groups) != 0 {
			t.Errorf("groups = %d, want 0", len(result.Groups))
		}
		if result.PotentialSavings != 0 {
			t.Errorf("savings = %d, want 0", result.PotentialSavings)
		}
	})

	t.Run("empty directory yields an empty result", func(t *testing.T) {
		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(t.TempDir(), 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}
		if len(result.Groups) != 0 {
			t.Errorf("groups = %d, want 0", len(result.Groups))
		}
		if result.PotentialSavings != 0 {
			t.Errorf("savings = %d, want 0", result.PotentialSavings)
		}
	})

	t.Run("zero-byte files all group together at min size zero", func(t *testing.T) {
		dir := t.TempDir()
		writeBytes(t, filepath.Join(dir, "a"), nil)
		writeBytes(t, filepath.Join(dir, "b"), nil)
		writeBytes(t, filepath.Join(dir, "sub", "c"), nil)

		detector := dedup.NewDetector(dedup.Blake3, 4)
		result, err := detector.FindDuplicates(dir, 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}
		if len(result.Groups) != 1 {
			t.Fatalf("groups = %d, want 1 (empty content hashes identically)", len(result.Groups))
		}
		if got := len(result.Groups[0].Files); got != 3 {
			t.Errorf("group members = %d, want 3", got)
		}
		if result.PotentialSavings != 0 {
			t.Errorf("savings = %d, want 0 (nothing to reclaim from empty files)", result.PotentialSavings)
		}
	})

	t.Run("nonexistent root is a not-found error", func(t *testing.T) {
		detector := dedup.NewDetector(dedup.Blake3, 4)
		_, err := detector.FindDuplicates(filepath.Join(t.TempDir(), "nope"), 0)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("xxhash finds the same duplicates", func(t *testing.T) {
		dir := t.TempDir()
		content := bytes.Repeat([]byte{0x42}, 256)
		writeBytes(t, filepath.Join(dir, "p"), content)
		writeBytes(t, filepath.Join(dir, "q"), content)

		detector := dedup.NewDetector(dedup.XXHash, 2)
		result, err := detector.FindDuplicates(dir, 0)
		if err != nil {
			t.Fatalf("FindDuplicates() error = %v", err)
		}
		if len(result.Groups) != 1 {
			t.Fatalf("groups = %d, want 1", len(result.Groups))
		}
		if result.PotentialSavings != 256 {
			t.Errorf("savings = %d, want 256", result.PotentialSavings)
		}
	})
}
