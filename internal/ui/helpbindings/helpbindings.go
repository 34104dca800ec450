// Package helpbindings provides a scrollable popup listing every key binding.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/ui"
	"github.com/llehouerou/lyricsync/internal/ui/popup"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// categoryOrder is the display order of binding contexts.
var categoryOrder = []string{"global", "playback", "lyrics"}

var categoryLabels = map[string]string{
	"global":   "Global",
	"playback": "Playback",
	"lyrics":   "Lyrics",
}

// chromeHeight is the number of rows taken by the title and footer.
const chromeHeight = 4

type entry struct {
	keys string
	desc string
}

type section struct {
	label   string
	entries []entry
}

// Model holds the state for the help popup.
type Model struct {
	ui.Base
	sections     []section
	scrollOffset int
}

// New creates a new help popup.
func New() Model {
	return Model{}
}

// SetContexts sets which binding contexts to list. Contexts are shown in
// a fixed order whatever the order given.
func (m *Model) SetContexts(contexts []string) {
	var ordered []string
	for _, ctx := range categoryOrder {
		if slices.Contains(contexts, ctx) {
			ordered = append(ordered, ctx)
		}
	}

	m.sections = m.sections[:0]
	for i, column := range keymap.FullHelp(ordered...) {
		s := section{label: categoryLabels[ordered[i]]}
		for _, b := range column {
			s.entries = append(s.entries, entry{
				keys: keyLabel(b.Keys()),
				desc: b.Help().Desc,
			})
		}
		m.sections = append(m.sections, s)
	}
	m.scrollOffset = 0
}

func keyLabel(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		labels[i] = k
	}
	return strings.Join(labels, ", ")
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case "g":
		m.scrollOffset = 0
	case "G":
		m.scrollOffset = m.maxScroll()
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	lines := m.contentLines()
	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))

	t := styles.T()
	var sb strings.Builder
	sb.WriteString(t.S().Title.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(lines[start:end], "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(t.S().Subtle.Render(m.footer()))
	return sb.String()
}

func (m *Model) contentLines() []string {
	t := styles.T()
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)

	keyWidth := 0
	for _, s := range m.sections {
		for _, e := range s.entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.keys))
		}
	}

	var lines []string
	for i, s := range m.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			headerStyle.Render(s.label),
			t.S().Subtle.Render(strings.Repeat("─", keyWidth+24)),
		)
		for _, e := range s.entries {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.keys))
			lines = append(lines, keyStyle.Render(e.keys)+pad+"  "+t.S().Base.Render(e.desc))
		}
	}
	return lines
}

func (m *Model) footer() string {
	if m.maxScroll() == 0 {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m *Model) visibleHeight() int {
	return max(m.Height()-chromeHeight, 1)
}

func (m *Model) maxScroll() int {
	return max(len(m.contentLines())-m.visibleHeight(), 0)
}
