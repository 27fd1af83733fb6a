package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/recovery"
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Restore or inspect archived cleanups",
	Long: `Inspect past cleanup runs, restore their files, or purge expired
archives. Every 'mm clean' records a manifest that can be restored here
until its retention window expires.`,
}

var recoverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available recoveries",
	RunE:  runRecoverList,
}

var recoverShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recovery in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecoverShow,
}

var recoverRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Move archived files back to their original locations",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecoverRestore,
}

var recoverPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Permanently delete expired recoveries",
	RunE:  runRecoverPrune,
}

func init() {
	for _, c := range []*cobra.Command{recoverListCmd, recoverShowCmd, recoverRestoreCmd, recoverPruneCmd} {
		c.Flags().Bool("json", false, "Output results as JSON")
		recoverCmd.AddCommand(c)
	}
}

// openStore builds the recovery store and ensures its directory
// skeleton exists.
func openStore(cfg *config.Config, logger logging.Logger) (*recovery.Store, error) {
	store := recovery.NewStore(cfg.Recovery.Dir, recovery.RealClock{}, logger)
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

func runRecoverList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	manifests, err := store.ListRecoveries()
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(manifests)
	}

	if len(manifests) == 0 {
		fmt.Println("No recoveries available.")
		return nil
	}
	for _, m := range manifests {
		fmt.Printf("%s  %s  %d files  %s  kept until %s\n",
			m.ID,
			m.Timestamp.Local().Format("2006-01-02 15:04:05"),
			len(m.Items),
			core.FormatSize(m.TotalSize),
			m.RetentionUntil.Local().Format("2006-01-02"))
	}
	return nil
}

func runRecoverShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	m, err := store.LoadManifest(args[0])
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(m)
	}

	fmt.Printf("Recovery %s\n", m.ID)
	fmt.Printf("Date:  %s\n", m.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Size:  %s in %d files\n", core.FormatSize(m.TotalSize), len(m.Items))
	fmt.Printf("Kept until: %s\n\n", m.RetentionUntil.Local().Format("2006-01-02 15:04:05"))
	for _, item := range m.Items {
		fmt.Printf("  %s  %s  [%s/%s]\n",
			core.FormatSize(item.Size), item.OriginalPath, item.Category, item.Source)
	}
	return nil
}

func runRecoverRestore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	result, err := recovery.NewArchiver(store).Restore(args[0])
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(result)
	}

	fmt.Printf("Restored %d files (%s)\n", result.Restored, core.FormatSize(result.Bytes))
	for _, s := range result.Skipped {
		fmt.Printf("  skipped: %s\n", s)
	}
	return nil
}

func runRecoverPrune(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	cleaned, err := store.CleanupExpired()
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(map[string]any{"cleaned": cleaned})
	}

	if len(cleaned) == 0 {
		fmt.Println("No expired recoveries to prune.")
		return nil
	}
	fmt.Printf("Pruned %d expired recoveries:\n", len(cleaned))
	for _, id := range cleaned {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
