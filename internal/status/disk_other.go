//go:build !darwin

package status

import "github.com/shirou/gopsutil/v4/disk"

// diskUsage falls back to gopsutil on non-darwin platforms so the tool
// stays testable during development.
func diskUsage(path string) (DiskMetrics, error) {
	du, err := disk.Usage(path)
	if err != nil {
		return DiskMetrics{}, err
	}
	return DiskMetrics{
		Total:       du.Total,
		Used:        du.Used,
		Available:   du.Free,
		UsedPercent: du.UsedPercent,
	}, nil
}
