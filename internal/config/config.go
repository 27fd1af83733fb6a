package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for mm, loaded from
// ~/.macmole/config.toml. Missing file or fields fall back to defaults.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	Recovery RecoveryConfig `toml:"recovery"`
	Scan     ScanConfig     `toml:"scan"`
	Dedup    DedupConfig    `toml:"dedup"`
}

// RecoveryConfig holds settings for the archive-before-delete store.
type RecoveryConfig struct {
	// Dir is the recovery root holding index.json, manifests/ and archives/.
	Dir string `toml:"dir"`
	// RetentionDays is how long archived files are kept before they become
	// eligible for pruning. Must be positive.
	RetentionDays int `toml:"retention_days"`
}

// ScanConfig holds filesystem scanning settings.
type ScanConfig struct {
	// Concurrency bounds parallel directory reads; 0 means NumCPU.
	Concurrency int `toml:"concurrency"`
	// Exclude lists directory names skipped during scans.
	Exclude []string `toml:"exclude"`
	// Protected lists extra paths that must never be cleaned, on top of
	// the built-in never-delete list.
	Protected []string `toml:"protected"`
}

// DedupConfig holds duplicate-detection settings.
type DedupConfig struct {
	// Algorithm is "blake3" (default) or "xxhash".
	Algorithm string `toml:"algorithm"`
	// MinSize is the default minimum file size, e.g. "1MB".
	MinSize string `toml:"min_size"`
}

// DefaultBaseDir returns the per-user state directory.
func DefaultBaseDir() string {
	return filepath.Join(HomeDir(), ".macmole")
}

// Default returns a Config populated with defaults rooted at baseDir.
func Default(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Recovery: RecoveryConfig{
			Dir:           filepath.Join(baseDir, "recovery"),
			RetentionDays: 30,
		},
		Scan: ScanConfig{
			Concurrency: runtime.NumCPU(),
		},
		Dedup: DedupConfig{
			Algorithm: "blake3",
			MinSize:   "1MB",
		},
	}
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default(DefaultBaseDir())

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.Recovery.RetentionDays <= 0 {
		return nil, fmt.Errorf("retention_days must be positive, got %d", cfg.Recovery.RetentionDays)
	}
	return cfg, nil
}

// LoadDefault loads the config from the standard location.
func LoadDefault() (*Config, error) {
	return Load(filepath.Join(DefaultBaseDir(), "config.toml"))
}

// Save writes the config to path in TOML form, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// applyDefaults fills fields the TOML file left empty.
func (c *Config) applyDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = DefaultBaseDir()
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Recovery.Dir == "" {
		c.Recovery.Dir = filepath.Join(c.BaseDir, "recovery")
	}
	if c.Recovery.RetentionDays == 0 {
		c.Recovery.RetentionDays = 30
	}
	if c.Scan.Concurrency <= 0 {
		c.Scan.Concurrency = runtime.NumCPU()
	}
	if c.Dedup.Algorithm == "" {
		c.Dedup.Algorithm = "blake3"
	}
}
