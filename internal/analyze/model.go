package analyze

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea Model for the interactive disk usage browser.
type Model struct {
	root       *DirEntry
	current    *DirEntry   // directory being displayed
	cursor     int         // selected item index
	breadcrumb []*DirEntry // navigation history stack
	width      int
	height     int
	offset     int   // viewport scroll offset
	minSize    int64 // 0 = show all
	quitting   bool
}

// NewModel creates a Model rooted at the given scan result.
func NewModel(root *DirEntry, minSize int64) Model {
	return Model{
		root:    root,
		current: root,
		width:   80,
		height:  24,
		minSize: minSize,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.clampViewport()

		case "down", "j":
			if m.cursor < len(m.visibleChildren())-1 {
				m.cursor++
			}
			m.clampViewport()

		case "enter", "right", "l":
			children := m.visibleChildren()
			if m.cursor < len(children) && children[m.cursor].IsDir {
				m.breadcrumb = append(m.breadcrumb, m.current)
				m.current = children[m.cursor]
				m.cursor = 0
				m.offset = 0
			}

		case "backspace", "left", "h":
			if n := len(m.breadcrumb); n > 0 {
				m.current = m.breadcrumb[n-1]
				m.breadcrumb = m.breadcrumb[:n-1]
				m.cursor = 0
				m.offset = 0
			}

		case "g":
			m.cursor = 0
			m.offset = 0

		case "G":
			m.cursor = len(m.visibleChildren()) - 1
			m.clampViewport()
		}
		return m, nil
	}

	return m, nil
}

// visibleChildren applies the minSize filter to the current directory.
func (m Model) visibleChildren() []*DirEntry {
	if m.minSize <= 0 {
		return m.current.Children
	}
	var out []*DirEntry
	for _, c := range m.current.Children {
		if c.Size >= m.minSize {
			out = append(out, c)
		}
	}
	return out
}

// listHeight is the number of rows available for entries.
func (m Model) listHeight() int {
	h := m.height - 6 // header, breadcrumb, footer
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) clampViewport() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
