// Package tui implements the interactive session picker behind
// `trajectory list`: a filterable list of cached sessions with a live
// decision-log preview of the highlighted one.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/trajectory-cli/trajectory/internal/index"
	"github.com/trajectory-cli/trajectory/internal/render"
	"github.com/trajectory-cli/trajectory/internal/session"
)

// linesPerItem is the number of terminal lines each session row occupies.
const linesPerItem = 2

type model struct {
	db   *index.DB
	opts index.ListOptions
	rows []index.SessionRow

	filterInput textinput.Model
	preview     viewport.Model
	previewID   string

	cursor     int
	listOffset int
	width      int
	height     int
	ready      bool

	choice *index.SessionRow
}

// Run shows the picker and returns the selected session, or nil if the user
// quit without choosing.
func Run(db *index.DB, opts index.ListOptions) (*index.SessionRow, error) {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		db:          db,
		opts:        opts,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
	m.reload()

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	return finalModel.(model).choice, nil
}

func (m *model) reload() {
	opts := m.opts
	opts.Filter = strings.TrimSpace(m.filterInput.Value())
	rows, err := m.db.ListSessions(opts)
	if err != nil {
		rows = nil
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.listOffset = 0
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = m.previewWidth() - 2
		m.preview.Height = m.panelHeight() - 2
		m.ready = true
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if m.cursor < len(m.rows) {
				row := m.rows[m.cursor]
				m.choice = &row
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.adjustScroll()
			m.refreshPreview()
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.adjustScroll()
			m.refreshPreview()
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.HalfViewUp()
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.HalfViewDown()
			return m, nil
		}

		var cmd tea.Cmd
		before := m.filterInput.Value()
		m.filterInput, cmd = m.filterInput.Update(msg)
		if m.filterInput.Value() != before {
			m.reload()
			m.refreshPreview()
		}
		return m, cmd
	}

	return m, nil
}

// refreshPreview re-renders the skim decision log for the highlighted
// session. No analysis is run here; the preview is the heuristic view.
func (m *model) refreshPreview() {
	if !m.ready || m.cursor >= len(m.rows) {
		m.preview.SetContent("")
		m.previewID = ""
		return
	}

	row := m.rows[m.cursor]
	if row.SessionID == m.previewID {
		return
	}
	m.previewID = row.SessionID

	data, err := session.ParseFile(row.FilePath)
	if err != nil {
		m.preview.SetContent(fmt.Sprintf("error: %v", err))
		return
	}
	m.preview.SetContent(render.RenderDecisionLog(data, nil, false))
	m.preview.GotoTop()
}

func (m *model) adjustScroll() {
	visible := m.panelHeight() / linesPerItem
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visible {
		m.listOffset = m.cursor - visible + 1
	}
}

func (m model) panelHeight() int {
	h := m.height - 4 // input line, status bar, borders
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) listWidth() int {
	w := m.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	w := m.width - m.listWidth() - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	height := m.panelHeight()

	list := stylePanelBorder.Width(m.listWidth()).Height(height).
		Render(m.renderList(m.listWidth()-2, height-1))
	preview := stylePanelBorder.Width(m.previewWidth()).Height(height).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	status := styleStatusBar.Render(fmt.Sprintf(
		"%d sessions | enter: copy id | C-u/C-d: scroll preview | esc: quit", len(m.rows)))

	return m.filterInput.View() + "\n" + panels + "\n" + status
}

func (m model) renderList(width, height int) string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, r := range m.rows {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLines(r, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatSessionLines formats one session as two lines:
//
//	line 1: [>] id8  MM-DD  branch
//	line 2:    summary (dimmed)
func formatSessionLines(r index.SessionRow, width int, selected bool) []string {
	id := r.SessionID
	if len(id) > 8 {
		id = id[:8]
	}

	// "2026-01-27T..." -> "01-27"
	date := r.UpdatedAt
	if len(date) >= 10 {
		date = date[5:10]
	}

	branch := strings.ReplaceAll(r.Branch, "\n", " ")
	branchMax := width - 2 - 9 - 6
	if branchMax < 0 {
		branchMax = 0
	}
	if runewidth.StringWidth(branch) > branchMax {
		branch = runewidth.Truncate(branch, branchMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", id, date, styleBranch.Render(branch))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	summary := strings.ReplaceAll(r.Summary, "\n", " ")
	summaryMax := width - 4
	if summaryMax < 0 {
		summaryMax = 0
	}
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(summary)

	return []string{line1, line2}
}
