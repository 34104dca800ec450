package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup defines the contract for components rendered inside a box.
type Popup interface {
	// Init returns any initial command.
	Init() tea.Cmd

	// Update handles messages and returns updated popup + command.
	Update(msg tea.Msg) (Popup, tea.Cmd)

	// View renders the content (without outer border/centering).
	View() string

	// SetSize sets the available dimensions for the content.
	SetSize(width, height int)
}
