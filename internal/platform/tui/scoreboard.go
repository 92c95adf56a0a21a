package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

// Scoreboard layout
const (
	minWidthForSidebar = 80
	sidebarWidth       = 22
	maxRows            = 100
)

// board selects what the scoreboard table lists.
type board int

const (
	boardScores board = iota
	boardSessions
)

func (b board) String() string {
	if b == boardSessions {
		return "RECENT SESSIONS"
	}
	return "HIGH SCORES"
}

var (
	dimColor    = lipgloss.Color("241")
	borderColor = lipgloss.Color("240")
	accentColor = lipgloss.Color("229")
	selectColor = lipgloss.Color("57")
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Board key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Board, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Board, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Next:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("right/tab", "next toy")),
		Prev:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("left", "prev toy")),
		Board: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scores/sessions")),
		Back:  key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	games  []registry.GameInfo
	cursor int
	board  board
	store  *storage.Store

	rows  []table.Row
	stats *storage.GameStats

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
	embedded      bool // part of a session: back does not quit
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

func (m ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.cursor].ID
}

func (m ScoreboardModel) sidebar() bool {
	return m.width >= minWidthForSidebar
}

// columns sizes the current board's columns to the space left of the
// sidebar. The last column takes what remains.
func (m ScoreboardModel) columns() []table.Column {
	var cols []table.Column
	if m.board == boardSessions {
		cols = []table.Column{
			{Title: "Outcome", Width: 8},
			{Title: "Score", Width: 7},
			{Title: "Time", Width: 8},
			{Title: "Level", Width: 7},
			{Title: "Player", Width: 10},
			{Title: "Date", Width: 12},
		}
	} else {
		cols = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 12},
		}
	}

	avail := m.width - 6
	if m.sidebar() {
		avail -= sidebarWidth + 4
	}
	used := 0
	for _, c := range cols[:len(cols)-1] {
		used += c.Width + 2
	}
	last := &cols[len(cols)-1]
	last.Width = max(last.Width, min(avail-used, 20))
	return cols
}

// reload rebuilds the table for the selected toy and board.
func (m *ScoreboardModel) reload() {
	m.rows, m.stats = nil, nil
	id := m.gameID()
	if m.store != nil && id != "" {
		if m.board == boardSessions {
			m.rows = m.sessionRows(id)
		} else {
			m.rows = m.scoreRows(id)
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(accentColor).
		Background(selectColor).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

func (m ScoreboardModel) scoreRows(id string) []table.Row {
	scores, err := m.store.TopScores(id, maxRows)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(s.Score),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m ScoreboardModel) sessionRows(id string) []table.Row {
	sessions, err := m.store.RecentSessions(id, maxRows)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(sessions))
	for i, s := range sessions {
		level, player := s.Difficulty, s.Player
		if level == "" {
			level = "-"
		}
		if player == "" {
			player = "local"
		}
		rows[i] = table.Row{
			s.Outcome,
			fmt.Sprint(s.Score),
			s.Duration.Round(time.Second).String(),
			level,
			player,
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			if len(m.games) > 0 {
				m.cursor = (m.cursor + 1) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			if len(m.games) > 0 {
				m.cursor = (m.cursor + len(m.games) - 1) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Board):
			m.board = 1 - m.board
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := m.board.String()
	if len(m.games) > 0 {
		title += " - " + m.games[m.cursor].Title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
	content := box.Render(m.renderTable())

	if m.sidebar() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		if len(m.games) > 0 {
			b.WriteString(centerText(fmt.Sprintf("< %s >", m.games[m.cursor].Title), m.width))
			b.WriteString("\n\n")
		}
		b.WriteString(content)
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(dimColor).Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Toys\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, g := range m.games {
		line := "  " + g.Title
		style := lipgloss.NewStyle()
		if i == m.cursor {
			line = "> " + g.Title
			style = style.Bold(true).Foreground(accentColor)
		}
		if lipgloss.Width(line) > sidebarWidth-4 {
			line = string([]rune(line)[:sidebarWidth-5]) + "."
		}
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(sidebarWidth).
		Padding(0, 1).
		Render(sb.String())
}

// renderStats renders the totals line of the current toy.
func (m ScoreboardModel) renderStats() string {
	st := m.stats
	if st == nil || (st.GamesCount == 0 && st.Wins+st.Losses == 0) {
		return ""
	}
	line := fmt.Sprintf("Best %d  |  Won %d  |  Lost %d  |  Avg %.0f  |  Played %s",
		st.HighScore, st.Wins, st.Losses, st.AvgScore, st.PlayTime.Round(time.Second))
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(centerText(line, m.width))
}

func (m ScoreboardModel) renderTable() string {
	if len(m.rows) > 0 {
		return m.table.View()
	}
	msg := "No scores recorded yet.\nPlay a toy to set a high score!"
	if m.board == boardSessions {
		msg = "No sessions recorded yet."
	}
	return lipgloss.NewStyle().Foreground(dimColor).Italic(true).Padding(2, 4).Render(msg)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
// Returns true if user wants to go back, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
