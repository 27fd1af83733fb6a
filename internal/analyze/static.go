package analyze

import (
	"fmt"
	"strings"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// PrintStaticTree prints a plain-text tree view of the disk analysis
// results. Used when stdout is not a TTY and the interactive bubbletea
// browser cannot render. Respects depth and minSize filters.
func PrintStaticTree(root *DirEntry, maxDepth int, minSize int64) {
	if root == nil {
		fmt.Println("  No data to display.")
		return
	}

	fmt.Printf("  Disk usage: %s\n", root.Path)
	fmt.Printf("  Total size: %s\n", core.FormatSize(root.Size))
	fmt.Println("  " + strings.Repeat("-", 58))
	fmt.Println()

	printEntry(root, "", true, 0, maxDepth, minSize)

	fmt.Println()
	fmt.Println("  " + strings.Repeat("-", 58))
	fmt.Printf("  Total: %s\n", core.FormatSize(root.Size))
}

// printEntry recursively prints a directory entry in tree format.
func printEntry(entry *DirEntry, prefix string, isLast bool, depth int, maxDepth int, minSize int64) {
	if entry == nil {
		return
	}

	// Apply depth limit (0 = unlimited).
	if maxDepth > 0 && depth > maxDepth {
		return
	}

	// Apply size filter.
	if minSize > 0 && entry.Size < minSize {
		return
	}

	connector := "├── "
	childPrefix := "│   "
	if isLast {
		connector = "└── "
		childPrefix = "    "
	}

	// Root has no connector.
	if depth == 0 {
		connector = ""
		childPrefix = ""
	}

	name := entry.Name
	if entry.IsDir {
		name += "/"
	}
	fmt.Printf("  %s%s%s  %s\n", prefix, connector, name, core.FormatSize(entry.Size))

	for i, child := range entry.Children {
		printEntry(child, prefix+childPrefix, i == len(entry.Children)-1, depth+1, maxDepth, minSize)
	}
}
