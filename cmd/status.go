package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Live system monitor",
	Long: `Show CPU, memory, swap, and disk metrics with a health assessment.
Runs as a live dashboard on a terminal; prints a one-shot report
otherwise or with --json.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Int("refresh", 1, "Dashboard refresh interval in seconds")
	statusCmd.Flags().Bool("json", false, "Print one metrics sample as JSON and exit")
}

func runStatus(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut || !stdoutIsTTY() {
		return printStatusOnce(jsonOut)
	}

	refresh, _ := cmd.Flags().GetInt("refresh")
	p := tea.NewProgram(status.NewModel(time.Duration(refresh)*time.Second), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func printStatusOnce(jsonOut bool) error {
	metrics, err := status.CollectMetrics()
	if err != nil {
		return err
	}
	report := status.Evaluate(metrics)

	if jsonOut {
		return printJSON(map[string]any{
			"metrics": metrics,
			"health":  report,
		})
	}

	fmt.Printf("Health: %s (score %d/100)\n", report.Status, report.Score)
	for _, issue := range report.Issues {
		fmt.Printf("  ! %s\n", issue)
	}
	fmt.Println()
	fmt.Printf("CPU:    %.1f%% across %d cores\n", metrics.CPU.UsagePercent, metrics.CPU.Cores)
	fmt.Printf("Memory: %.1f%% (%s of %s)\n",
		metrics.Memory.UsedPercent,
		core.FormatSize(int64(metrics.Memory.Used)),
		core.FormatSize(int64(metrics.Memory.Total)))
	if metrics.Swap.Total > 0 {
		fmt.Printf("Swap:   %.1f%% (%s of %s)\n",
			metrics.Swap.UsedPercent,
			core.FormatSize(int64(metrics.Swap.Used)),
			core.FormatSize(int64(metrics.Swap.Total)))
	}
	fmt.Printf("Disk:   %.1f%% (%s free of %s)\n",
		metrics.Disk.UsedPercent,
		core.FormatSize(int64(metrics.Disk.Available)),
		core.FormatSize(int64(metrics.Disk.Total)))
	fmt.Printf("Uptime: %s   Load: %.2f %.2f %.2f\n",
		metrics.Uptime.Round(time.Minute),
		metrics.Load1, metrics.Load5, metrics.Load15)
	return nil
}
