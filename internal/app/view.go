package app

import (
	"fmt"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/ui/popup"
	"github.com/llehouerou/lyricsync/internal/ui/render"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

const statusHeight = 1

// lyricsSize returns the content size of the bordered lyrics box.
func (m *Model) lyricsSize() (width, height int) {
	return popup.ContentSize(m.Width, m.Height-statusHeight, popup.SizeLarge)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	content := m.Lyrics.View()
	if m.keyHelp != nil {
		content = m.keyHelp.View()
	}
	box := popup.RenderBordered(content, m.Width, m.Height-statusHeight, popup.SizeLarge)
	return box + m.statusLine()
}

// statusLine renders the playback state and playback key help.
func (m *Model) statusLine() string {
	t := styles.T()

	var left string
	switch m.Player.State() {
	case player.Playing:
		left = t.S().Playing.Render(" ▶ playing")
	case player.Paused:
		left = t.S().Muted.Render(" ⏸ paused")
	case player.Stopped:
		left = t.S().Muted.Render(" ■ stopped")
	}
	if speed := m.Player.Speed(); speed != 1 {
		left += t.S().Subtle.Render(fmt.Sprintf("  %.2gx", speed))
	}

	right := m.help.ShortHelpView(keymap.ShortHelp("playback")) + " "
	return render.Row(left, right, m.Width)
}
