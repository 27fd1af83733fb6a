// Package status collects system health metrics and renders the live
// dashboard.
package status

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// CPUMetrics holds processor usage.
type CPUMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

// MemoryMetrics holds physical memory usage.
type MemoryMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// SwapMetrics holds swap usage.
type SwapMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// DiskMetrics holds root filesystem usage.
type DiskMetrics struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// SystemMetrics is one snapshot of system health.
type SystemMetrics struct {
	CPU       CPUMetrics    `json:"cpu"`
	Memory    MemoryMetrics `json:"memory"`
	Swap      SwapMetrics   `json:"swap"`
	Disk      DiskMetrics   `json:"disk"`
	Load1     float64       `json:"load1"`
	Load5     float64       `json:"load5"`
	Load15    float64       `json:"load15"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
}

// sampleWindow is how long the CPU usage sample blocks. Collection runs
// off the UI goroutine, so the dashboard never stalls on it.
const sampleWindow = 200 * time.Millisecond

// CollectMetrics gathers one snapshot of CPU, memory, swap, disk and
// load metrics.
func CollectMetrics() (*SystemMetrics, error) {
	m := &SystemMetrics{Timestamp: time.Now()}

	percents, err := cpu.Percent(sampleWindow, false)
	if err != nil {
		return nil, fmt.Errorf("collecting cpu usage: %w", err)
	}
	if len(percents) > 0 {
		m.CPU.UsagePercent = percents[0]
	}
	if cores, err := cpu.Counts(true); err == nil {
		m.CPU.Cores = cores
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("collecting memory: %w", err)
	}
	m.Memory = MemoryMetrics{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}

	sw, err := mem.SwapMemory()
	if err == nil {
		m.Swap = SwapMetrics{Total: sw.Total, Used: sw.Used, UsedPercent: sw.UsedPercent}
	}

	du, err := diskUsage("/")
	if err != nil {
		return nil, fmt.Errorf("collecting disk usage: %w", err)
	}
	m.Disk = du

	if avg, err := load.Avg(); err == nil {
		m.Load1, m.Load5, m.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if up, err := host.Uptime(); err == nil {
		m.Uptime = time.Duration(up) * time.Second
	}

	return m, nil
}
