//go:build darwin

package status

import "golang.org/x/sys/unix"

// diskUsage reads filesystem usage via statfs, counting available space
// the way Finder does (blocks available to unprivileged users).
func diskUsage(path string) (DiskMetrics, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return DiskMetrics{}, err
	}

	bsize := uint64(stat.Bsize)
	total := stat.Blocks * bsize
	avail := stat.Bavail * bsize
	used := total - avail

	m := DiskMetrics{Total: total, Used: used, Available: avail}
	if total > 0 {
		m.UsedPercent = float64(used) / float64(total) * 100
	}
	return m, nil
}
