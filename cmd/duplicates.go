package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/dedup"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates [path]",
	Short: "Find duplicate files",
	Long: `Find files with identical content under a directory and report the
space reclaimable by keeping one copy per group. Defaults to the home
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().String("min-size", "", "Minimum file size to consider (e.g., 1MB)")
	duplicatesCmd.Flags().Bool("fast", false, "Use xxHash instead of BLAKE3 (faster, weaker collision resistance)")
	duplicatesCmd.Flags().Int("top", 10, "Number of groups to show (0 = all)")
	duplicatesCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	root := config.HomeDir()
	if len(args) == 1 {
		root = config.ExpandHome(args[0])
	}

	minSizeFlag, _ := cmd.Flags().GetString("min-size")
	if minSizeFlag == "" {
		minSizeFlag = cfg.Dedup.MinSize
	}
	minSize, err := core.ParseSize(minSizeFlag)
	if err != nil {
		return err
	}

	alg, err := dedup.ParseAlgorithm(cfg.Dedup.Algorithm)
	if err != nil {
		return err
	}
	if fast, _ := cmd.Flags().GetBool("fast"); fast {
		alg = dedup.XXHash
	}

	detector := dedup.NewDetector(alg, cfg.Scan.Concurrency)
	result, err := detector.FindDuplicates(root, minSize)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(result)
	}

	if len(result.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	fmt.Printf("Found %d duplicate groups under %s (%s)\n",
		len(result.Groups), root, alg)
	fmt.Printf("Potential savings: %s\n\n", core.FormatSize(result.PotentialSavings))

	top, _ := cmd.Flags().GetInt("top")
	for i, g := range result.Groups {
		if top > 0 && i >= top {
			fmt.Printf("… and %d more groups\n", len(result.Groups)-top)
			break
		}
		fmt.Printf("%s  %d files, %s reclaimable\n",
			g.Fingerprint[:12], len(g.Files), core.FormatSize(g.Reclaimable()))
		for j, f := range g.Files {
			marker := " "
			if j == 0 {
				marker = "*" // keeper
			}
			fmt.Printf("  %s %s\n", marker, f.Path)
		}
		fmt.Println()
	}
	return nil
}
