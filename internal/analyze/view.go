package analyze

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	dirStyle      = lipgloss.NewStyle().Bold(true)
	oldStyle      = lipgloss.NewStyle().Foreground(ui.ColorWarn)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(ui.TitleStyle.Render("  Disk Usage"))
	s.WriteString(ui.MutedStyle.Render("  " + m.current.Path))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Total: %s\n\n", core.FormatSize(m.current.Size)))

	children := m.visibleChildren()
	if len(children) == 0 {
		s.WriteString(ui.MutedStyle.Render("  (empty)\n"))
	}

	h := m.listHeight()
	end := m.offset + h
	if end > len(children) {
		end = len(children)
	}

	barWidth := 16
	for i := m.offset; i < end; i++ {
		child := children[i]

		name := child.Name
		if child.IsDir {
			name = dirStyle.Render(name + "/")
		} else if child.IsOld() {
			name = oldStyle.Render(name)
		}

		frac := 0.0
		if m.current.Size > 0 {
			frac = float64(child.Size) / float64(m.current.Size)
		}
		line := fmt.Sprintf("%s %9s  %5.1f%%  %s",
			ui.Bar(frac, barWidth), core.FormatSize(child.Size),
			child.Percentage(m.current.Size), name)

		if i == m.cursor {
			s.WriteString(selectedStyle.Render("  ▸ " + line))
		} else {
			s.WriteString("    " + line)
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.MutedStyle.Render("  ↑/↓ move · enter open · backspace up · q quit"))
	return s.String()
}
