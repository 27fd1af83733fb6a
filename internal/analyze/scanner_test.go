package analyze_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/analyze"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
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

func TestScannerScan(t *testing.T) {
	t.Run("sizes roll up bottom-up and children sort by size", func(t *testing.T) {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "small.txt"), 10)
		mustWrite(t, filepath.Join(dir, "big", "a"), 100)
		mustWrite(t, filepath.Join(dir, "big", "b"), 200)

		root, err := analyze.NewScanner(4, nil).Scan(dir)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if root.Size != 310 {
			t.Errorf("root size = %d, want 310", root.Size)
		}
		if len(root.Children) != 2 {
			t.Fatalf("children = %d, want 2", len(root.Children))
		}
		// Largest first.
		if root.Children[0].Name != "big" || root.Children[0].Size != 300 {
			t.Errorf("first child = %s (%d), want big (300)", root.Children[0].Name, root.Children[0].Size)
		}
		if !root.Scanned {
			t.Error("root should be marked scanned")
		}
	})

	t.Run("scanning a file returns a leaf entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "f")
		mustWrite(t, path, 42)

		entry, err := analyze.NewScanner(4, nil).Scan(path)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if entry.IsDir || entry.Size != 42 {
			t.Errorf("entry = dir=%v size=%d, want file of 42", entry.IsDir, entry.Size)
		}
	})

	t.Run("excluded directories are pruned from the tree", func(t *testing.T) {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "keep", "a"), 1)
		mustWrite(t, filepath.Join(dir, ".git", "b"), 1)

		root, err := analyze.NewScanner(4, []string{".git"}).Scan(dir)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		for _, c := range root.Children {
			if c.Name == ".git" {
				t.Error(".git should be excluded")
			}
		}
	})

	t.Run("nonexistent path is a not-found error", func(t *testing.T) {
		_, err := analyze.NewScanner(4, nil).Scan(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestFindLargeFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "tiny"), 5)
	mustWrite(t, filepath.Join(dir, "mid"), 50)
	mustWrite(t, filepath.Join(dir, "sub", "huge"), 500)

	files, err := analyze.FindLargeFiles(dir, 10, 4)
	if err != nil {
		t.Fatalf("FindLargeFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2 (tiny filtered out)", len(files))
	}
	if files[0].Size != 500 || files[1].Size != 50 {
		t.Errorf("order = %d, %d, want 500 then 50", files[0].Size, files[1].Size)
	}
}
