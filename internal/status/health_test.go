package status_test

import (
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/status"
)

func metricsWith(disk, mem, cpu float64) *status.SystemMetrics {
	return &status.SystemMetrics{
		Disk:   status.DiskMetrics{UsedPercent: disk},
		Memory: status.MemoryMetrics{UsedPercent: mem},
		CPU:    status.CPUMetrics{UsagePercent: cpu},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		metrics    *status.SystemMetrics
		wantStatus status.HealthStatus
		wantScore  int
		wantIssues int
	}{
		{
			name:       "all quiet",
			metrics:    metricsWith(40, 50, 10),
			wantStatus: status.Healthy,
			wantScore:  100,
		},
		{
			name:       "one warning",
			metrics:    metricsWith(85, 50, 10),
			wantStatus: status.Warning,
			wantScore:  90,
			wantIssues: 1,
		},
		{
			name:       "critical beats warning",
			metrics:    metricsWith(85, 95, 10),
			wantStatus: status.Critical,
			wantScore:  65,
			wantIssues: 2,
		},
		{
			name:       "boundary values trip the thresholds",
			metrics:    metricsWith(80, 90, 0),
			wantStatus: status.Critical,
			wantScore:  65,
			wantIssues: 2,
		},
		{
			name:       "everything critical",
			metrics:    metricsWith(99, 99, 99),
			wantStatus: status.Critical,
			wantScore:  25,
			wantIssues: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Evaluate(tt.metrics)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if len(got.Issues) != tt.wantIssues {
				t.Errorf("Issues = %v, want %d entries", got.Issues, tt.wantIssues)
			}
		})
	}
}
