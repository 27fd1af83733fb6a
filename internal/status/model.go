package status

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Tab enumeration ─────────────────────────────────────────────────────────

// Tab identifies one of the dashboard sections.
type Tab int

const (
	TabOverview Tab = iota
	TabCPU
	TabMemory
	TabDisk
)

// TabNames is the display label for each tab.
var TabNames = []string{"Overview", "CPU", "Memory", "Disk"}

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type metricsMsg struct {
	metrics *SystemMetrics
	err     error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the system health dashboard.
type Model struct {
	Metrics         *SystemMetrics
	Tab             Tab
	Width           int
	Height          int
	refreshInterval time.Duration
	quitting        bool
	Err             error

	// Sparkline ring buffers (last 60 readings).
	CPUHistory []float64
	MemHistory []float64
}

// NewModel creates a dashboard Model with the given refresh cadence.
func NewModel(refreshInterval time.Duration) Model {
	if refreshInterval <= 0 {
		refreshInterval = time.Second
	}
	return Model{
		Width:           80,
		Height:          24,
		refreshInterval: refreshInterval,
	}
}

func (m Model) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func collectCmd() tea.Cmd {
	return func() tea.Msg {
		metrics, err := CollectMetrics()
		return metricsMsg{metrics: metrics, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	// Immediately start collecting; the first metricsMsg will trigger the
	// tick loop, keeping collection and display strictly sequential.
	return collectCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.Tab = (m.Tab + 1) % Tab(len(TabNames))
		case "shift+tab":
			if m.Tab == 0 {
				m.Tab = Tab(len(TabNames) - 1)
			} else {
				m.Tab--
			}
		case "1":
			m.Tab = TabOverview
		case "2":
			m.Tab = TabCPU
		case "3":
			m.Tab = TabMemory
		case "4":
			m.Tab = TabDisk
		}
		return m, nil

	case tickMsg:
		return m, collectCmd()

	case metricsMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Metrics = msg.metrics

		m.CPUHistory = appendCapped(m.CPUHistory, msg.metrics.CPU.UsagePercent, 60)
		m.MemHistory = appendCapped(m.MemHistory, msg.metrics.Memory.UsedPercent, 60)

		return m, m.doTick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

func appendCapped(history []float64, v float64, cap int) []float64 {
	history = append(history, v)
	if len(history) > cap {
		history = history[len(history)-cap:]
	}
	return history
}
