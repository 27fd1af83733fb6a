package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/snapshots"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage local Time Machine snapshots",
	Long: `List local Time Machine snapshots, or thin out old ones. Snapshots
can silently consume tens of gigabytes of purgeable space on APFS
volumes.`,
	RunE: runSnapshots,
}

func init() {
	snapshotsCmd.Flags().Int("thin-older-than", 0, "Delete snapshots older than N days")
	snapshotsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report what would be deleted")
	snapshotsCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	mgr := snapshots.NewManager()
	jsonOut, _ := cmd.Flags().GetBool("json")

	if days, _ := cmd.Flags().GetInt("thin-older-than"); days > 0 {
		deleted, err := mgr.DeleteOlderThan(days, dryRun)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(map[string]any{"deleted": deleted, "dry_run": dryRun})
		}
		verb := "Deleted"
		if dryRun {
			verb = "Would delete"
		}
		fmt.Printf("%s %d snapshots older than %d days\n", verb, len(deleted), days)
		for _, id := range deleted {
			fmt.Printf("  %s\n", id)
		}
		return nil
	}

	list, err := mgr.List()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(list)
	}
	if len(list) == 0 {
		fmt.Println("No local snapshots.")
		return nil
	}
	for _, s := range list {
		when := "unknown date"
		if !s.Date.IsZero() {
			when = s.Date.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  %s\n", when, s.ID)
	}
	return nil
}
