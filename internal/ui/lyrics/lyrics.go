// Package lyrics provides a synchronized lyrics view with karaoke
// highlighting of the current line.
package lyrics

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/ui"
	"github.com/llehouerou/lyricsync/internal/ui/action"
	"github.com/llehouerou/lyricsync/internal/ui/popup"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

const fetchTimeout = 10 * time.Second

// State represents the current state of the lyrics view.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateNotFound
	StateError
)

// Source resolves lyrics for a track.
type Source interface {
	Fetch(ctx context.Context, track lyrics.TrackInfo) lyrics.FetchResult
}

// Model holds the state for the lyrics view.
type Model struct {
	ui.Base
	source       Source
	keys         *keymap.Resolver
	help         help.Model
	lyrics       *lyrics.Lyrics
	tracker      *lyrics.Tracker
	state        State
	errorMsg     string
	origin       string
	currentLine  int
	scrollOffset int
	autoScroll   bool

	showRuby        bool
	showTranslation bool

	track    lyrics.TrackInfo
	position time.Duration
	offset   time.Duration

	// Previous dimensions for stable loading display
	prevLineCount int
	prevMaxWidth  int
}

// New creates a new lyrics view model.
func New(source Source) *Model {
	return &Model{
		source:          source,
		keys:            keymap.ForContexts("global", "lyrics"),
		help:            help.New(),
		tracker:         lyrics.NewTracker(nil),
		state:           StateLoading,
		currentLine:     -1,
		autoScroll:      true,
		showRuby:        true,
		showTranslation: true,
	}
}

// SetTrack sets the track to display lyrics for and triggers fetch.
func (m *Model) SetTrack(track lyrics.TrackInfo) tea.Cmd {
	m.rememberDimensions()

	m.track = track
	m.lyrics = nil
	m.tracker = lyrics.NewTracker(nil)
	m.origin = ""
	m.currentLine = -1
	m.scrollOffset = 0
	m.state = StateLoading
	m.autoScroll = true

	return m.fetchLyricsCmd()
}

// SetTrackInfo sets the track shown in the title and footer without
// fetching lyrics.
func (m *Model) SetTrackInfo(track lyrics.TrackInfo) {
	m.track = track
}

// SetLyrics displays an already parsed document. origin names where it
// came from and is shown in the footer.
func (m *Model) SetLyrics(doc *lyrics.Lyrics, origin string) {
	m.prevLineCount = 0
	m.prevMaxWidth = 0
	if doc == nil {
		m.lyrics = nil
		m.tracker = lyrics.NewTracker(nil)
		m.state = StateNotFound
		return
	}
	m.lyrics = doc
	m.tracker = lyrics.NewTracker(doc)
	m.origin = origin
	m.state = StateLoaded
	m.scrollOffset = 0
	m.currentLine = m.tracker.Seek(m.position)
	m.centerCurrentLine()
}

// SetPosition updates the current playback position.
func (m *Model) SetPosition(pos time.Duration) {
	m.position = pos
	if m.lyrics == nil {
		return
	}
	newLine := m.tracker.Seek(pos)
	if newLine != m.currentLine {
		m.currentLine = newLine
		if m.autoScroll {
			m.centerCurrentLine()
		}
	}
}

// SetOffset sets the sync offset shown in the footer. The caller applies it
// to the positions it passes to SetPosition.
func (m *Model) SetOffset(offset time.Duration) {
	m.offset = offset
}

// Lyrics returns the displayed document, or nil.
func (m *Model) Lyrics() *lyrics.Lyrics {
	return m.lyrics
}

// State returns the view state.
func (m *Model) State() State {
	return m.state
}

// CurrentLine returns the index of the highlighted line, or -1.
func (m *Model) CurrentLine() int {
	return m.currentLine
}

func (m *Model) rememberDimensions() {
	if m.lyrics != nil && len(m.lyrics.Lines) > 0 {
		// Use actual displayed row count, not max visible height
		m.prevLineCount = min(len(m.lyrics.Lines)*m.rowsPerLine(), m.visibleHeight())
		m.prevMaxWidth = m.calculateMaxWidth()
	}
}

// centerCurrentLine adjusts scroll to center the current line.
func (m *Model) centerCurrentLine() {
	if m.currentLine < 0 || m.lyrics == nil {
		return
	}
	m.scrollOffset = m.currentLine - m.visibleLines()/2
	m.scrollOffset = max(0, min(m.scrollOffset, m.maxScroll()))
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case FetchedMsg:
		return m.handleFetched(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (popup.Popup, tea.Cmd) {
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionClose:
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case keymap.ActionScrollDown:
		m.autoScroll = false
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case keymap.ActionScrollUp:
		m.autoScroll = false
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case keymap.ActionScrollTop:
		m.autoScroll = false
		m.scrollOffset = 0
	case keymap.ActionScrollBottom:
		m.autoScroll = false
		m.scrollOffset = m.maxScroll()
	case keymap.ActionFollow:
		m.autoScroll = true
		m.centerCurrentLine()
	case keymap.ActionTranslation:
		m.showTranslation = !m.showTranslation
		m.clampScroll()
	case keymap.ActionRuby:
		m.showRuby = !m.showRuby
		m.clampScroll()
	default:
		// Pass unhandled keys to main handler for playback controls
		return m, func() tea.Msg { return ActionMsg(Passthrough{Key: msg}) }
	}
	return m, nil
}

// clampScroll keeps the scroll offset valid after the row layout changed.
func (m *Model) clampScroll() {
	if m.autoScroll {
		m.centerCurrentLine()
		return
	}
	m.scrollOffset = min(m.scrollOffset, m.maxScroll())
}

func (m *Model) handleFetched(msg FetchedMsg) (popup.Popup, tea.Cmd) {
	// Ignore stale results from previous track
	if msg.TrackPath != m.track.FilePath {
		return m, nil
	}

	switch {
	case msg.Result.Lyrics != nil:
		// Includes documents that failed to parse, which explain the error
		m.SetLyrics(msg.Result.Lyrics, msg.Result.Source)
	case msg.Err != nil:
		m.state = StateError
		m.errorMsg = msg.Err.Error()
		m.prevLineCount = 0
		m.prevMaxWidth = 0
	default:
		m.state = StateNotFound
		m.prevLineCount = 0
		m.prevMaxWidth = 0
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	return m.render()
}

// visibleHeight returns the rows available for lyrics.
func (m *Model) visibleHeight() int {
	// Leave room for popup chrome (title, footer, borders, margins)
	return max(m.Height()-10, 5)
}

// visibleLines returns how many lyric lines fit in the visible rows.
func (m *Model) visibleLines() int {
	return max(m.visibleHeight()/m.rowsPerLine(), 1)
}

func (m *Model) maxScroll() int {
	if m.lyrics == nil {
		return 0
	}
	total := len(m.lyrics.Lines)
	visible := m.visibleLines()
	if total <= visible {
		return 0
	}
	return total - visible
}

func (m *Model) fetchLyricsCmd() tea.Cmd {
	track := m.track
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result := source.Fetch(ctx, track)
		if result.Err != nil {
			logging.Warn("lyrics fetch failed", "path", track.FilePath, "source", result.Source, "error", result.Err)
		}
		return FetchedMsg{TrackPath: track.FilePath, Result: result, Err: result.Err}
	}
}

// ActionMsg creates an action.Msg for a lyrics action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "lyrics", Action: a}
}
