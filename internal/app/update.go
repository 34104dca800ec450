package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/ui/action"
	"github.com/llehouerou/lyricsync/internal/ui/helpbindings"
	lyricsui "github.com/llehouerou/lyricsync/internal/ui/lyrics"
)

// tickInterval is short enough for word-level highlighting to look smooth.
const tickInterval = 50 * time.Millisecond

// TickMsg advances the lyrics view to the player position.
type TickMsg time.Time

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		w, h := m.lyricsSize()
		m.Lyrics.SetSize(w, h)
		if m.keyHelp != nil {
			m.keyHelp.SetSize(w, h)
		}
		return m, nil

	case TickMsg:
		if m.Player.Finished() {
			m.Player.Pause()
		}
		m.syncPosition()
		return m, TickCmd()

	case tea.KeyMsg:
		if m.keyHelp != nil {
			if m.keys.Resolve(msg.String()) == keymap.ActionQuit {
				return m, tea.Quit
			}
			_, cmd := m.keyHelp.Update(msg)
			return m, cmd
		}
		_, cmd := m.Lyrics.Update(msg)
		return m, cmd

	case lyricsui.FetchedMsg:
		_, cmd := m.Lyrics.Update(msg)
		return m, cmd

	case action.Msg:
		return m, m.handleAction(msg)
	}
	return m, nil
}

func (m *Model) handleAction(msg action.Msg) tea.Cmd {
	switch a := msg.Action.(type) {
	case lyricsui.Close:
		return tea.Quit
	case lyricsui.Passthrough:
		return m.handleKey(a.Key)
	case helpbindings.Close:
		m.keyHelp = nil
	}
	return nil
}
