package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

func mustWrite(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScannerWalk(t *testing.T) {
	t.Run("collects nested regular files with sizes", func(t *testing.T) {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "a"), 10)
		mustWrite(t, filepath.Join(dir, "sub", "b"), 20)
		mustWrite(t, filepath.Join(dir, "sub", "deep", "c"), 30)

		files, err := scan.NewScanner(4, nil).Walk(dir)
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("files = %d, want 3", len(files))
		}

		var total int64
		for _, f := range files {
			total += f.Size
		}
		if total != 60 {
			t.Errorf("total size = %d, want 60", total)
		}
	})

	t.Run("walking a single file returns it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "only")
		mustWrite(t, path, 7)

		files, err := scan.NewScanner(4, nil).Walk(path)
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(files) != 1 || files[0].Size != 7 {
			t.Errorf("files = %+v, want one 7-byte record", files)
		}
	})

	t.Run("excluded directory names are skipped", func(t *testing.T) {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "keep", "a"), 1)
		mustWrite(t, filepath.Join(dir, "node_modules", "b"), 1)

		files, err := scan.NewScanner(4, []string{"Node_Modules"}).Walk(dir)
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("files = %d, want 1 (exclusion is case-insensitive)", len(files))
		}
		if filepath.Base(filepath.Dir(files[0].Path)) != "keep" {
			t.Errorf("unexpected file survived: %s", files[0].Path)
		}
	})

	t.Run("symlinks are not followed", func(t *testing.T) {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "real"), 5)
		if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")); err != nil {
			t.Skipf("cannot create symlink: %v", err)
		}

		files, err := scan.NewScanner(4, nil).Walk(dir)
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(files) != 1 {
			t.Errorf("files = %d, want 1 (link must be skipped)", len(files))
		}
	})

	t.Run("nonexistent root is a not-found error", func(t *testing.T) {
		_, err := scan.NewScanner(4, nil).Walk(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
