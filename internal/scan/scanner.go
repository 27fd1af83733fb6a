// Package scan provides the parallel directory walker shared by the
// cleaner and the duplicate detector.
package scan

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// FileRecord is one regular file discovered during a walk.
type FileRecord struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Scanner performs parallel recursive directory walks with bounded
// concurrency. Unreadable entries never abort a walk; they are recorded
// as warnings and skipped.
type Scanner struct {
	sem          chan struct{}
	exclude      map[string]bool
	mu           sync.Mutex
	warnings     []string
	scannedCount atomic.Int64
}

// NewScanner creates a scanner with bounded concurrency.
// exclude is a list of directory names (case-insensitive) to skip.
func NewScanner(maxConcurrency int, exclude []string) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	excMap := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excMap[strings.ToLower(e)] = true
	}
	return &Scanner{
		sem:     make(chan struct{}, maxConcurrency),
		exclude: excMap,
	}
}

// Warnings returns any warnings accumulated during scanning.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// ScannedCount returns the number of entries visited so far.
func (s *Scanner) ScannedCount() int64 {
	return s.scannedCount.Load()
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Walk recursively collects all regular files under root. Symlinks are
// never followed. Fails only if root itself does not exist or cannot be
// read; individual entry failures become warnings.
func (s *Scanner) Walk(root string) ([]FileRecord, error) {
	root = filepath.Clean(root)

	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NotFoundf("path %s", root)
		}
		return nil, err
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return []FileRecord{{Path: root, Size: info.Size()}}, nil
		}
		return nil, nil
	}

	var (
		mu    sync.Mutex
		files []FileRecord
	)
	s.walkDir(root, func(r FileRecord) {
		mu.Lock()
		files = append(files, r)
		mu.Unlock()
	})
	return files, nil
}

// walkDir recursively walks a directory, holding the semaphore only
// during the ReadDir I/O to prevent deadlocks from nested goroutine
// semaphore acquisition.
func (s *Scanner) walkDir(dir string, emit func(FileRecord)) {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.addWarning("cannot read " + dir + ": " + err.Error())
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		childPath := filepath.Join(dir, e.Name())
		s.scannedCount.Add(1)

		if e.IsDir() {
			if s.exclude[strings.ToLower(e.Name())] {
				continue
			}
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				s.walkDir(p, emit)
			}(childPath)
			continue
		}

		// Regular files only: symlinks, sockets and devices are skipped.
		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			s.addWarning("cannot stat " + childPath + ": " + err.Error())
			continue
		}
		emit(FileRecord{Path: childPath, Size: info.Size()})
	}

	wg.Wait()
}
