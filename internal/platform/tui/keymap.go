package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// steerHold is how many ticks a steering key stays held after a press.
// Terminal auto-repeat usually refreshes it within ~30-50ms.
const steerHold = 8

// MenuAction is a menu command derived from a key.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
	MenuActionEasier
	MenuActionHarder
)

// Bindings keyed by tea.KeyMsg.String().
var (
	gameKeys = map[string]core.Action{
		"ctrl+c": core.ActionQuit,
		"q":      core.ActionQuit,
		"a":      core.ActionLeft,
		"left":   core.ActionLeft,
		"h":      core.ActionLeft,
		"d":      core.ActionRight,
		"right":  core.ActionRight,
		"l":      core.ActionRight,
		"w":      core.ActionUp,
		"up":     core.ActionUp,
		"s":      core.ActionDown,
		"down":   core.ActionDown,
		" ":      core.ActionFire,
		"enter":  core.ActionConfirm,
		"b":      core.ActionBack,
		"esc":    core.ActionBack,
		"p":      core.ActionPause,
		"r":      core.ActionRestart,
		"ctrl+s": core.ActionScreenshot,
	}

	menuKeys = map[string]MenuAction{
		"ctrl+c": MenuActionQuit,
		"q":      MenuActionQuit,
		"w":      MenuActionUp,
		"up":     MenuActionUp,
		"k":      MenuActionUp,
		"s":      MenuActionDown,
		"down":   MenuActionDown,
		"j":      MenuActionDown,
		"enter":  MenuActionSelect,
		" ":      MenuActionSelect,
		"b":      MenuActionBack,
		"esc":    MenuActionBack,
		"tab":    MenuActionScoreboard,
		"left":   MenuActionEasier,
		"a":      MenuActionEasier,
		"right":  MenuActionHarder,
		"d":      MenuActionHarder,
	}
)

// KeyMapper translates Bubble Tea key messages to game and menu actions.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: gameKeys, menu: menuKeys}
}

// MapKey translates a key message to a game action. Unbound keys give
// ActionNone; isQuit reports a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action = km.game[msg.String()]
	return action, action == core.ActionQuit
}

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}

// Steering reports whether an action is held rather than triggered.
func Steering(a core.Action) bool {
	return a == core.ActionLeft || a == core.ActionRight
}
