package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// sparkRunes are the eighth-block glyphs used for history sparklines.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := m.Width
	if w < 50 {
		w = 50
	}

	var s strings.Builder
	s.WriteString(m.renderTabs(w))
	s.WriteString("\n")

	if m.Metrics == nil {
		s.WriteString(ui.MutedStyle.Italic(true).Render("  Collecting metrics…"))
		return s.String()
	}

	switch m.Tab {
	case TabOverview:
		s.WriteString(m.renderOverview(w))
	case TabCPU:
		s.WriteString(m.renderCPU(w))
	case TabMemory:
		s.WriteString(m.renderMemory(w))
	case TabDisk:
		s.WriteString(m.renderDisk(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Tab bar ─────────────────────────────────────────────────────────────────

func (m Model) renderTabs(w int) string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 2)

	inactive := ui.MutedStyle.Padding(0, 2)

	var tabs []string
	for i, name := range TabNames {
		label := fmt.Sprintf("%d·%s", i+1, name)
		if Tab(i) == m.Tab {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	divider := ui.MutedStyle.Render(strings.Repeat("─", w))

	return bar + "\n" + divider
}

// ─── Tabs ────────────────────────────────────────────────────────────────────

func (m Model) renderOverview(w int) string {
	met := m.Metrics
	report := Evaluate(met)

	statusStyle := ui.GoodStyle
	switch report.Status {
	case Warning:
		statusStyle = ui.WarnStyle
	case Critical:
		statusStyle = ui.BadStyle
	}

	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Health  %s  score %d/100\n\n",
		statusStyle.Bold(true).Render(strings.ToUpper(string(report.Status))), report.Score))

	s.WriteString(m.gauge("CPU   ", met.CPU.UsagePercent, w))
	s.WriteString(m.gauge("Memory", met.Memory.UsedPercent, w))
	s.WriteString(m.gauge("Disk  ", met.Disk.UsedPercent, w))

	if len(report.Issues) > 0 {
		s.WriteString("\n")
		for _, issue := range report.Issues {
			s.WriteString(ui.WarnStyle.Render("  ! " + issue))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Uptime %s · load %.2f %.2f %.2f\n",
		formatUptime(met.Uptime), met.Load1, met.Load5, met.Load15))
	return s.String()
}

func (m Model) renderCPU(w int) string {
	met := m.Metrics
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  %d logical cores\n\n", met.CPU.Cores))
	s.WriteString(m.gauge("Usage ", met.CPU.UsagePercent, w))
	s.WriteString("\n  " + sparkline(m.CPUHistory, 100) + "\n")
	return s.String()
}

func (m Model) renderMemory(w int) string {
	met := m.Metrics
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(m.gauge("Memory", met.Memory.UsedPercent, w))
	s.WriteString(fmt.Sprintf("  Used %s of %s (%s available)\n",
		core.FormatSize(int64(met.Memory.Used)),
		core.FormatSize(int64(met.Memory.Total)),
		core.FormatSize(int64(met.Memory.Available))))
	s.WriteString("\n")
	s.WriteString(m.gauge("Swap  ", met.Swap.UsedPercent, w))
	s.WriteString(fmt.Sprintf("  Swap %s of %s\n",
		core.FormatSize(int64(met.Swap.Used)),
		core.FormatSize(int64(met.Swap.Total))))
	s.WriteString("\n  " + sparkline(m.MemHistory, 100) + "\n")
	return s.String()
}

func (m Model) renderDisk(w int) string {
	met := m.Metrics
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(m.gauge("Disk  ", met.Disk.UsedPercent, w))
	s.WriteString(fmt.Sprintf("  Used %s of %s (%s free)\n",
		core.FormatSize(int64(met.Disk.Used)),
		core.FormatSize(int64(met.Disk.Total)),
		core.FormatSize(int64(met.Disk.Available))))
	return s.String()
}

func (m Model) renderFooter() string {
	if m.Err != nil {
		return ui.BadStyle.Render("  collection error: "+m.Err.Error()) + "\n" +
			ui.MutedStyle.Render("  tab switch · q quit")
	}
	return ui.MutedStyle.Render("  tab switch · q quit")
}

// ─── Widgets ─────────────────────────────────────────────────────────────────

// gauge renders one labeled percentage bar.
func (m Model) gauge(label string, percent float64, w int) string {
	barWidth := w - 24
	if barWidth < 10 {
		barWidth = 10
	}
	p := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage())
	return fmt.Sprintf("  %s %s %5.1f%%\n", label, p.ViewAs(percent/100), percent)
}

// sparkline renders a history slice as eighth-block glyphs.
func sparkline(history []float64, max float64) string {
	if len(history) == 0 || max <= 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range history {
		idx := int(v / max * float64(len(sparkRunes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
