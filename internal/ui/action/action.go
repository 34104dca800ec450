// Package action defines how view components report actions to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a component asks the app to do. ActionType names it
// in logs.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the component that emitted it.
type Msg struct {
	Source string // Component name, e.g. "lyrics"
	Action Action
}

var _ tea.Msg = Msg{}
