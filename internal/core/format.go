package core

import (
	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for display, e.g. "1.4 GB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(bytes))
}

// ParseSize parses a human size string like "100MB" or "1.5 GiB" into bytes.
// An empty string parses to zero.
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, InvalidInputf("bad size %q", s)
	}
	if n > uint64(1)<<62 {
		return 0, InvalidInputf("size %q out of range", s)
	}
	return int64(n), nil
}
