package dedup

import (
	"sync"

	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// Group is a set of files sharing one content fingerprint. The first
// member is the conventional keeper; the rest are reclaimable. Member
// order is discovery order, not path order.
type Group struct {
	Fingerprint string            `json:"fingerprint"`
	Files       []scan.FileRecord `json:"files"`
}

// Size returns the combined size of all members.
func (g Group) Size() int64 {
	var total int64
	for _, f := range g.Files {
		total += f.Size
	}
	return total
}

// Reclaimable returns the bytes freed by keeping only the first member.
func (g Group) Reclaimable() int64 {
	return g.Size() - g.Files[0].Size
}

// Result of a duplicate detection pass.
type Result struct {
	Groups []Group `json:"groups"`
	// PotentialSavings is the total bytes reclaimable by keeping one
	// member per group.
	PotentialSavings int64 `json:"potential_savings"`
	// Warnings lists files that could not be read or hashed.
	Warnings []string `json:"warnings,omitempty"`
}

// Detector finds duplicate files by content fingerprint.
type Detector struct {
	hasher  *Hasher
	workers int
}

// NewDetector creates a detector using the given algorithm and hashing
// concurrency. workers <= 0 defaults to 4.
func NewDetector(alg Algorithm, workers int) *Detector {
	if workers <= 0 {
		workers = 4
	}
	return &Detector{hasher: NewHasher(alg), workers: workers}
}

// FindDuplicates walks root, fingerprints every regular file with size
// >= minSize, and groups files whose fingerprints match. Hashing fans
// out across workers; grouping happens single-threaded afterwards, so
// group membership follows discovery order. A nonexistent root is an
// error; an unreadable file is a warning, not a failure.
func (d *Detector) FindDuplicates(root string, minSize int64) (*Result, error) {
	scanner := scan.NewScanner(d.workers, nil)
	all, err := scanner.Walk(root)
	if err != nil {
		return nil, err
	}

	var files []scan.FileRecord
	for _, f := range all {
		if f.Size >= minSize {
			files = append(files, f)
		}
	}

	fingerprints, hashWarnings := d.hashAll(files)

	// Group in discovery order so the keeper is the first file found.
	byPrint := make(map[string]int)
	var groups []Group
	for i, f := range files {
		fp := fingerprints[i]
		if fp == "" {
			continue // hash failed, warned above
		}
		idx, ok := byPrint[fp]
		if !ok {
			byPrint[fp] = len(groups)
			groups = append(groups, Group{Fingerprint: fp, Files: []scan.FileRecord{f}})
			continue
		}
		groups[idx].Files = append(groups[idx].Files, f)
	}

	result := &Result{Warnings: append(scanner.Warnings(), hashWarnings...)}
	for _, g := range groups {
		if len(g.Files) < 2 {
			continue
		}
		result.Groups = append(result.Groups, g)
		result.PotentialSavings += g.Reclaimable()
	}
	return result, nil
}

// hashAll fingerprints files in parallel, preserving input order in the
// returned slice. Failed hashes leave an empty fingerprint and a warning.
func (d *Detector) hashAll(files []scan.FileRecord) ([]string, []string) {
	fingerprints := make([]string, len(files))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		warnings []string
	)
	jobs := make(chan int)

	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fp, err := d.hasher.Hash(files[i].Path)
				if err != nil {
					mu.Lock()
					warnings = append(warnings, err.Error())
					mu.Unlock()
					continue
				}
				fingerprints[i] = fp
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return fingerprints, warnings
}
