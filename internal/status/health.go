package status

import "fmt"

// HealthStatus classifies overall system health.
type HealthStatus string

const (
	Healthy  HealthStatus = "healthy"
	Warning  HealthStatus = "warning"
	Critical HealthStatus = "critical"
)

// Thresholds for the usage checks, in percent.
const (
	warnThreshold = 80.0
	critThreshold = 90.0
)

// HealthReport is the outcome of evaluating one metrics snapshot.
type HealthReport struct {
	Status HealthStatus `json:"status"`
	// Score is 0-100; each warning costs 10 points, each critical 25.
	Score  int      `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// Evaluate derives a health report from a metrics snapshot. Disk, memory
// and CPU pressure each contribute independently; the worst class wins.
func Evaluate(m *SystemMetrics) HealthReport {
	report := HealthReport{Status: Healthy, Score: 100}

	check := func(name string, percent float64) {
		switch {
		case percent >= critThreshold:
			report.Status = Critical
			report.Score -= 25
			report.Issues = append(report.Issues, fmt.Sprintf("%s usage critical: %.1f%%", name, percent))
		case percent >= warnThreshold:
			if report.Status == Healthy {
				report.Status = Warning
			}
			report.Score -= 10
			report.Issues = append(report.Issues, fmt.Sprintf("%s usage high: %.1f%%", name, percent))
		}
	}

	check("disk", m.Disk.UsedPercent)
	check("memory", m.Memory.UsedPercent)
	check("cpu", m.CPU.UsagePercent)

	if report.Score < 0 {
		report.Score = 0
	}
	return report
}
