package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/recovery"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Deep cleanup of caches, logs, and temp files to reclaim disk space.

Files are never deleted outright: everything is moved into the recovery
archive first and can be restored with 'mm recover restore <id>' until
the retention window expires.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without touching files")
	cleanCmd.Flags().Bool("all", false, "Clean all categories")
	cleanCmd.Flags().Bool("caches", false, "Clean application caches only")
	cleanCmd.Flags().Bool("logs", false, "Clean log files only")
	cleanCmd.Flags().Bool("temp", false, "Clean temporary files only")
	cleanCmd.Flags().Int("retention", 0, "Days to keep archived files (default from config)")
	cleanCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	retention := cfg.Recovery.RetentionDays
	if n, _ := cmd.Flags().GetInt("retention"); n > 0 {
		retention = n
	}

	targets := selectedTargets(cmd)

	store := recovery.NewStore(cfg.Recovery.Dir, recovery.RealClock{}, logger)
	cleaner := clean.NewCleaner(store, retention, cfg.Scan.Concurrency, cfg.Scan.Protected, logger)

	total := cleanSummary{}
	for _, target := range targets {
		res, err := cleaner.Clean(target, dryRun)
		if err != nil {
			return err
		}
		total.FilesFound += res.FilesFound
		total.FilesCleaned += res.FilesCleaned
		total.BytesFreed += res.BytesFreed
		total.Skipped = append(total.Skipped, res.Skipped...)
		if res.ManifestID != "" {
			total.ManifestIDs = append(total.ManifestIDs, res.ManifestID)
		}
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(total)
	}

	if dryRun {
		fmt.Printf("Would clean %d files, freeing %s\n",
			total.FilesFound, core.FormatSize(total.BytesFreed))
		return nil
	}

	fmt.Printf("Cleaned %d of %d files, freed %s\n",
		total.FilesCleaned, total.FilesFound, core.FormatSize(total.BytesFreed))
	for _, id := range total.ManifestIDs {
		fmt.Printf("Recovery id: %s (kept %d days, restore with 'mm recover restore %s')\n",
			id, retention, id)
	}
	if len(total.Skipped) > 0 {
		fmt.Printf("%d files could not be archived and were left in place\n", len(total.Skipped))
	}
	return nil
}

// cleanSummary aggregates per-target results for one invocation. Each
// cleaned target records its own manifest; all ids are reported.
type cleanSummary struct {
	FilesFound   int      `json:"files_found"`
	FilesCleaned int      `json:"files_cleaned"`
	BytesFreed   int64    `json:"bytes_freed"`
	ManifestIDs  []string `json:"manifest_ids,omitempty"`
	Skipped      []string `json:"skipped,omitempty"`
}

// selectedTargets maps the category flags to clean targets in a fixed
// order so repeated runs process and report them identically. With
// --all, or no category flag at all, everything is cleaned.
func selectedTargets(cmd *cobra.Command) []clean.Target {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return []clean.Target{clean.TargetAll}
	}

	var targets []clean.Target
	for _, sel := range []struct {
		flag   string
		target clean.Target
	}{
		{"caches", clean.TargetCaches},
		{"logs", clean.TargetLogs},
		{"temp", clean.TargetTemp},
	} {
		if on, _ := cmd.Flags().GetBool(sel.flag); on {
			targets = append(targets, sel.target)
		}
	}
	if len(targets) == 0 {
		return []clean.Target{clean.TargetAll}
	}
	return targets
}
