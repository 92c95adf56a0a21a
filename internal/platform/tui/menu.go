package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

// difficulties is the cycle offered by the menu. Empty keeps the config's
// own difficulty block.
var difficulties = []config.DifficultyPreset{
	"",
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	menuRowStyle   = lipgloss.NewStyle().Padding(0, 1)
	menuPickStyle  = menuRowStyle.Foreground(accentColor).Background(selectColor)
	menuStatStyle  = lipgloss.NewStyle().Foreground(dimColor)
)

// MenuItem is one toy in the picker with its record so far.
type MenuItem struct {
	GameID    string
	Title     string
	HighScore int
	Won, Lost int
}

func (it MenuItem) record() string {
	var parts []string
	if it.HighScore > 0 {
		parts = append(parts, fmt.Sprintf("best %d", it.HighScore))
	}
	if it.Won+it.Lost > 0 {
		parts = append(parts, fmt.Sprintf("%dW/%dL", it.Won, it.Lost))
	}
	return strings.Join(parts, "  ")
}

// MenuModel is the Bubble Tea model for the toy picker.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	difficulty int // index into difficulties
	config     core.RuntimeConfig
	keys       *KeyMapper

	quitting   bool
	selected   *MenuItem
	scoreboard bool
}

// NewMenuModel creates a new menu model. The store is optional and only
// used for records.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i] = MenuItem{GameID: g.ID, Title: g.Title}
		if store == nil {
			continue
		}
		if st, err := store.GetGameStats(g.ID); err == nil {
			items[i].HighScore, items[i].Won, items[i].Lost = st.HighScore, st.Wins, st.Losses
		}
	}

	m := MenuModel{items: items, config: cfg, keys: NewKeyMapper()}
	for i, d := range difficulties {
		if string(d) == cfg.Difficulty {
			m.difficulty = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 1-9 start a toy directly.
	if r := msg.Runes; msg.Type == tea.KeyRunes && len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
		if i := int(r[0] - '1'); i < len(m.items) {
			m.cursor = i
			return m.pick()
		}
		return m, nil
	}

	n := len(m.items)
	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if n > 0 {
			m.cursor = (m.cursor + n - 1) % n
		}
	case MenuActionDown:
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case MenuActionEasier:
		m.shiftDifficulty(len(difficulties) - 1)
	case MenuActionHarder:
		m.shiftDifficulty(1)
	case MenuActionSelect:
		return m.pick()
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *MenuModel) shiftDifficulty(step int) {
	m.difficulty = (m.difficulty + step) % len(difficulties)
	m.config.Difficulty = string(difficulties[m.difficulty])
}

func (m MenuModel) pick() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	item := m.items[m.cursor]
	m.selected = &item
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	width := m.config.ScreenW

	rows := make([]string, len(m.items))
	for i, it := range m.items {
		style := menuRowStyle
		if i == m.cursor {
			style = menuPickStyle
		}
		label := style.Width(26).Render(fmt.Sprintf("%d  %s", i+1, it.Title))
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top, label, "  ", menuStatStyle.Render(it.record()))
	}

	level := string(difficulties[m.difficulty])
	if level == "" {
		level = "config"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  C A N V A S   A R C A D E  "), width))
	b.WriteString("\n\n")
	if len(rows) == 0 {
		b.WriteString(centerText(menuStatStyle.Render("No toys installed."), width))
	}
	b.WriteString(centerBlock(lipgloss.JoinVertical(lipgloss.Left, rows...), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", level), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuStatStyle.Render(
		"Up/Down: Choose  |  1-9/Enter: Play  |  Left/Right: Difficulty  |  Tab: Scores  |  Q: Quit"), width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.scoreboard
}

// Config returns the runtime config with the latest size and difficulty.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers a single line within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centers a multi-line block as a whole, keeping its rows
// left-aligned to each other.
func centerBlock(block string, width int) string {
	return lipgloss.PlaceHorizontal(max(width, lipgloss.Width(block)), lipgloss.Center, block)
}
