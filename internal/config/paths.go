package config

import (
	"os"
	"path/filepath"
	"strings"
)

// CleanTarget represents a category of files that can be cleaned.
type CleanTarget struct {
	// Name is the unique identifier for this target.
	Name string

	// Paths is the list of filesystem paths to clean.
	Paths []string

	// Description is a human-readable description.
	Description string

	// RequiresRoot indicates whether elevated privileges are needed.
	RequiresRoot bool

	// Category groups related targets: "caches", "logs", "temp".
	Category string

	// RiskLevel is one of "low", "medium", "high".
	RiskLevel string
}

// HomeDir returns the user's home directory, falling back to $HOME.
func HomeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// library returns the per-user Library directory.
func library() string {
	return filepath.Join(HomeDir(), "Library")
}

// GetCleanTargets returns all available cleanup targets with paths expanded.
func GetCleanTargets() []CleanTarget {
	lib := library()

	return []CleanTarget{
		// ── User Caches ─────────────────────────────────────────
		{
			Name:         "UserCaches",
			Paths:        []string{filepath.Join(lib, "Caches")},
			Description:  "Per-user application caches",
			RequiresRoot: false,
			Category:     "caches",
			RiskLevel:    "low",
		},
		{
			Name:         "SystemCaches",
			Paths:        []string{"/Library/Caches"},
			Description:  "System-wide application caches",
			RequiresRoot: true,
			Category:     "caches",
			RiskLevel:    "low",
		},

		// ── Logs ────────────────────────────────────────────────
		{
			Name:         "UserLogs",
			Paths:        []string{filepath.Join(lib, "Logs")},
			Description:  "Per-user application logs",
			RequiresRoot: false,
			Category:     "logs",
			RiskLevel:    "low",
		},
		{
			Name:         "SystemLogs",
			Paths:        []string{"/var/log"},
			Description:  "System log files",
			RequiresRoot: true,
			Category:     "logs",
			RiskLevel:    "medium",
		},

		// ── Temp ────────────────────────────────────────────────
		{
			Name:         "Temp",
			Paths:        []string{"/tmp", "/var/tmp"},
			Description:  "Temporary files",
			RequiresRoot: false,
			Category:     "temp",
			RiskLevel:    "low",
		},
	}
}

// GetTargetsByCategory returns clean targets filtered by category.
// The special category "all" returns every target.
func GetTargetsByCategory(category string) []CleanTarget {
	if category == "all" {
		return GetCleanTargets()
	}
	var result []CleanTarget
	for _, t := range GetCleanTargets() {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result
}

// GetNeverDeletePaths returns paths that must NEVER be touched under any
// circumstances, no matter what a target table or config file says.
func GetNeverDeletePaths() []string {
	home := HomeDir()
	return []string{
		"/System",
		"/usr",
		"/bin",
		"/sbin",
		"/etc",
		"/Applications",
		"/Library/Frameworks",
		"/Library/Extensions",
		"/private/var/db",
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Desktop"),
		filepath.Join(home, "Library", "Keychains"),
		filepath.Join(home, "Library", "Mail"),
		filepath.Join(home, "Library", "Photos"),
	}
}

// IsProtected reports whether path is, or lives under, a never-delete path.
func IsProtected(path string) bool {
	cleaned := filepath.Clean(path)
	for _, p := range GetNeverDeletePaths() {
		if cleaned == p || strings.HasPrefix(cleaned, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
