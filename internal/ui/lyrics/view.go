package lyrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui/render"
	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

const (
	currentPrefix = "▶ "
	linePrefix    = "  "
)

// cell is one span laid out on the text and ruby rows. Text and ruby are
// centered in a common width so the ruby stays above its base text.
type cell struct {
	text  string
	ruby  string
	width int
}

func layoutSpans(spans []lyrics.Span) []cell {
	cells := make([]cell, len(spans))
	for i := range spans {
		text := render.Sanitize(spans[i].Text)
		c := cell{text: text, width: runewidth.StringWidth(text)}
		if r := spans[i].Ruby; r != nil {
			c.ruby = render.Sanitize(*r)
			c.width = max(c.width, runewidth.StringWidth(c.ruby))
		}
		cells[i] = c
	}
	return cells
}

// center pads styled to width, given the display width of its plain text.
func center(styled string, plainWidth, width int) string {
	if plainWidth >= width {
		return styled
	}
	left := (width - plainWidth) / 2
	return strings.Repeat(" ", left) + styled + strings.Repeat(" ", width-plainWidth-left)
}

func (m *Model) hasRuby() bool {
	if m.lyrics == nil {
		return false
	}
	for i := range m.lyrics.Lines {
		for j := range m.lyrics.Lines[i].Spans {
			if m.lyrics.Lines[i].Spans[j].Ruby != nil {
				return true
			}
		}
	}
	return false
}

// rowsPerLine returns how many rows each lyric line takes. Every line uses
// the same count so scrolling stays line based.
func (m *Model) rowsPerLine() int {
	rows := 1
	if m.showRuby && m.hasRuby() {
		rows++
	}
	if m.showTranslation && m.lyrics != nil && m.lyrics.HasTranslation() {
		rows++
	}
	return rows
}

func (m *Model) render() string {
	t := styles.T()
	titleStyle := t.S().Title
	footerStyle := t.S().Subtle

	var content string
	switch m.state {
	case StateLoading:
		content = m.renderLoading()
	case StateNotFound:
		content = m.renderNotFound()
	case StateError:
		content = m.renderError()
	case StateLoaded:
		content = m.renderLyrics()
	}

	title := titleStyle.Render("Lyrics")
	if info := m.trackInfo(); info != "" {
		title += t.S().Subtle.Render(" · " + render.Sanitize(info))
	}

	var result strings.Builder
	result.WriteString(title)
	result.WriteString("\n\n")
	result.WriteString(content)
	result.WriteString("\n\n")
	result.WriteString(footerStyle.Render(m.buildFooter()))

	return result.String()
}

func (m *Model) trackInfo() string {
	info := m.track.Title
	if m.track.Artist != "" {
		if info != "" {
			info += " - "
		}
		info += m.track.Artist
	}
	return info
}

func (m *Model) renderLoading() string {
	t := styles.T()
	subtle := t.S().Subtle
	loadingMsg := "Loading lyrics..."
	trackInfo := m.trackInfo()

	// If we have previous dimensions, pad to maintain view size
	if m.prevLineCount > 0 && m.prevMaxWidth > 0 {
		lines := make([]string, m.prevLineCount)
		centerLine := m.prevLineCount / 2
		for i := range lines {
			switch i {
			case centerLine:
				lines[i] = center(subtle.Render(loadingMsg), lipgloss.Width(loadingMsg), m.prevMaxWidth)
			case centerLine + 1:
				lines[i] = center(subtle.Render(trackInfo), lipgloss.Width(trackInfo), m.prevMaxWidth)
			default:
				lines[i] = strings.Repeat(" ", m.prevMaxWidth)
			}
		}
		return strings.Join(lines, "\n")
	}

	var sb strings.Builder
	sb.WriteString(subtle.Render(loadingMsg))
	sb.WriteString("\n\n")
	sb.WriteString(subtle.Render(trackInfo))
	return sb.String()
}

func (m *Model) renderNotFound() string {
	subtle := styles.T().S().Subtle

	var sb strings.Builder
	sb.WriteString(subtle.Render("No lyrics found"))
	sb.WriteString("\n\n")
	sb.WriteString(subtle.Render(m.trackInfo()))
	return sb.String()
}

func (m *Model) renderError() string {
	t := styles.T()

	var sb strings.Builder
	sb.WriteString(t.S().Error.Render("Error loading lyrics"))
	sb.WriteString("\n\n")
	sb.WriteString(t.S().Subtle.Render(m.errorMsg))
	return sb.String()
}

func (m *Model) renderLyrics() string {
	if m.lyrics == nil || len(m.lyrics.Lines) == 0 {
		return m.renderNotFound()
	}

	start := min(m.scrollOffset, len(m.lyrics.Lines))
	end := min(start+m.visibleLines(), len(m.lyrics.Lines))
	maxWidth := m.calculateMaxWidth()
	limit := m.Width()

	var rows []string
	for i := start; i < end; i++ {
		for _, row := range m.lineRows(i) {
			// Pad rows to max width for consistent sizing
			if w := lipgloss.Width(row); w < maxWidth {
				row += strings.Repeat(" ", maxWidth-w)
			}
			if limit > 0 && lipgloss.Width(row) > limit {
				row = ansi.Truncate(row, limit, "…")
			}
			rows = append(rows, row)
		}
	}
	return strings.Join(rows, "\n")
}

// lineRows renders line idx as rowsPerLine rows: ruby, text, translation.
func (m *Model) lineRows(idx int) []string {
	t := styles.T()
	line := &m.lyrics.Lines[idx]
	showRuby := m.showRuby && m.hasRuby()
	showTranslation := m.showTranslation && m.lyrics.HasTranslation()

	var rubyRow, transRow string
	var textRow string

	if line.IsRaw() {
		textRow = linePrefix + t.S().Muted.Render(render.Sanitize(line.Text()))
	} else {
		current := idx == m.currentLine
		sung := 0
		if current {
			sung = lyrics.ActiveSpans(line, m.position)
		}

		plain := t.S().Subtle
		if !m.lyrics.IsSynced() {
			plain = t.S().Base
		}

		prefix := linePrefix
		if current {
			prefix = currentPrefix
		}

		var text, ruby strings.Builder
		text.WriteString(prefix)
		ruby.WriteString(linePrefix)
		for i, c := range layoutSpans(line.Spans) {
			var styled string
			switch {
			case i < sung:
				styled = styles.ApplyBoldGradient(c.text, t.Primary, t.Secondary)
			case current:
				styled = t.S().Title.Render(c.text)
			default:
				styled = plain.Render(c.text)
			}
			text.WriteString(center(styled, runewidth.StringWidth(c.text), c.width))

			if c.ruby != "" {
				ruby.WriteString(center(t.S().Ruby.Render(c.ruby), runewidth.StringWidth(c.ruby), c.width))
			} else {
				ruby.WriteString(strings.Repeat(" ", c.width))
			}
		}
		textRow = text.String()
		rubyRow = ruby.String()

		if line.Translation != nil {
			transRow = linePrefix + t.S().Translation.Render(render.Sanitize(*line.Translation))
		}
	}

	rows := make([]string, 0, 3)
	if showRuby {
		rows = append(rows, rubyRow)
	}
	rows = append(rows, textRow)
	if showTranslation {
		rows = append(rows, transRow)
	}
	return rows
}

// calculateMaxWidth returns the maximum display width of the lyrics rows.
func (m *Model) calculateMaxWidth() int {
	if m.lyrics == nil {
		return 0
	}
	maxW := 0
	for i := range m.lyrics.Lines {
		line := &m.lyrics.Lines[i]
		w := runewidth.StringWidth(render.Sanitize(line.Text()))
		if !line.IsRaw() {
			w = 0
			for _, c := range layoutSpans(line.Spans) {
				w += c.width
			}
		}
		if line.Translation != nil && m.showTranslation {
			w = max(w, runewidth.StringWidth(render.Sanitize(*line.Translation)))
		}
		// Account for the prefix ("▶ " or "  ")
		maxW = max(maxW, w+2)
	}
	return maxW
}

func (m *Model) buildFooter() string {
	var parts []string

	if m.state == StateLoading {
		parts = append(parts, "loading...")
	}

	if m.track.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%s / %s",
			formatDuration(m.position),
			formatDuration(m.track.Duration)))
	} else if m.state == StateLoaded {
		parts = append(parts, formatDuration(m.position))
	}

	if m.state == StateLoaded && m.lyrics != nil {
		parts = append(parts, m.renderSyncIndicator())
		if m.origin != "" {
			parts = append(parts, m.origin)
		}
	}

	if m.offset != 0 {
		parts = append(parts, styles.T().S().Warning.Render(fmt.Sprintf("offset %+.2fs", m.offset.Seconds())))
	}

	parts = append(parts, m.help.ShortHelpView(m.helpBindings()))

	return strings.Join(parts, " · ")
}

// helpBindings returns the short help, with scrolling only listed when
// there is something to scroll.
func (m *Model) helpBindings() []key.Binding {
	bindings := keymap.ShortHelp("lyrics", "global")
	scrollable := m.state == StateLoaded && m.maxScroll() > 0
	for i := range bindings {
		if bindings[i].Help().Desc == "scroll" {
			bindings[i].SetEnabled(scrollable)
		}
	}
	return bindings
}

// renderSyncIndicator returns the styled sync/unsync indicator.
func (m *Model) renderSyncIndicator() string {
	t := styles.T()
	if !m.lyrics.IsSynced() {
		return t.S().Error.Render("unsynced")
	}
	if m.autoScroll {
		return styles.ApplyGradient("synced", t.Primary, t.Secondary)
	}
	return lipgloss.NewStyle().Foreground(t.Primary).Render("c sync")
}

// formatDuration formats a duration as m:ss.
func formatDuration(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
