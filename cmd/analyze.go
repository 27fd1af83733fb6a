package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/analyze"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze disk usage",
	Long: `Scan a directory tree and browse its disk usage interactively.
Defaults to the home directory. When stdout is not a terminal, a static
tree is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("depth", 3, "Maximum tree depth in static output (0 = unlimited)")
	analyzeCmd.Flags().String("min-size", "1MB", "Hide entries smaller than this")
	analyzeCmd.Flags().StringSlice("exclude", nil, "Directory names to skip")
	analyzeCmd.Flags().Int("top", 0, "Print the N largest files instead of the tree")
	analyzeCmd.Flags().Bool("json", false, "Output the scan tree as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	root := config.HomeDir()
	if len(args) == 1 {
		root = config.ExpandHome(args[0])
	}

	minSizeFlag, _ := cmd.Flags().GetString("min-size")
	minSize, err := core.ParseSize(minSizeFlag)
	if err != nil {
		return err
	}

	// Largest-files mode bypasses the tree entirely.
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		return printLargestFiles(cmd, root, minSize, top, cfg.Scan.Concurrency)
	}

	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	if len(exclude) == 0 {
		exclude = cfg.Scan.Exclude
	}

	fmt.Fprintf(os.Stderr, "Scanning %s...\n", root)
	scanner := analyze.NewScanner(cfg.Scan.Concurrency, exclude)
	tree, err := scanner.Scan(root)
	if err != nil {
		return err
	}
	if debug {
		for _, w := range scanner.Warnings() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(tree)
	}

	depth, _ := cmd.Flags().GetInt("depth")
	if !stdoutIsTTY() {
		analyze.PrintStaticTree(tree, depth, minSize)
		return nil
	}

	p := tea.NewProgram(analyze.NewModel(tree, minSize), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func printLargestFiles(cmd *cobra.Command, root string, minSize int64, top, concurrency int) error {
	files, err := analyze.FindLargeFiles(root, minSize, concurrency)
	if err != nil {
		return err
	}
	if len(files) > top {
		files = files[:top]
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(files)
	}

	if len(files) == 0 {
		fmt.Println("No files found.")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%10s  %s\n", core.FormatSize(f.Size), f.Path)
	}
	return nil
}
