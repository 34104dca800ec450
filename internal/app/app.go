// Package app provides the root model of the lyrics player.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricsync/internal/keymap"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/player"
	"github.com/llehouerou/lyricsync/internal/ui/helpbindings"
	lyricsui "github.com/llehouerou/lyricsync/internal/ui/lyrics"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 30 * time.Second
	offsetStep   = 100 * time.Millisecond
)

// OffsetStore persists the lyrics offset of each track.
type OffsetStore interface {
	GetOffset(path string) (time.Duration, error)
	SaveOffset(path string, offset time.Duration)
}

// Options configures a Model.
type Options struct {
	Track lyrics.TrackInfo

	// Doc is displayed as is when set. Otherwise lyrics are fetched from
	// Source for Track.
	Doc    *lyrics.Lyrics
	Origin string
	Source lyricsui.Source

	Offsets OffsetStore // may be nil
	Offset  time.Duration
	Speed   float64
	Start   time.Duration
}

// Model is the root application model.
type Model struct {
	Lyrics  *lyricsui.Model
	Player  *player.Player
	keys    *keymap.Resolver
	help    help.Model
	keyHelp *helpbindings.Model // non-nil while the help popup is open
	offsets OffsetStore
	track   string
	offset  time.Duration
	start   time.Duration
	initCmd tea.Cmd
	Width   int
	Height  int
}

// New creates the root model. Playback starts with Init.
func New(opts Options, playerOpts ...player.Option) *Model {
	playerOpts = append([]player.Option{player.WithSpeed(opts.Speed)}, playerOpts...)
	m := &Model{
		Lyrics:  lyricsui.New(opts.Source),
		Player:  player.New(opts.Track.Duration, playerOpts...),
		keys:    keymap.ForContexts("global", "playback"),
		help:    help.New(),
		offsets: opts.Offsets,
		track:   opts.Track.FilePath,
		offset:  opts.Offset,
		start:   opts.Start,
	}

	if m.offsets != nil && m.track != "" {
		stored, err := m.offsets.GetOffset(m.track)
		if err != nil {
			logging.Warn("could not load lyrics offset", "path", m.track, "error", err)
		} else if stored != 0 {
			m.offset = stored
		}
	}
	m.Lyrics.SetOffset(m.offset)

	if opts.Doc != nil {
		m.Lyrics.SetTrackInfo(opts.Track)
		m.Lyrics.SetLyrics(opts.Doc, opts.Origin)
	} else {
		m.initCmd = m.Lyrics.SetTrack(opts.Track)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.Player.Play(m.start)
	m.syncPosition()
	return tea.Batch(m.initCmd, TickCmd())
}

// Offset returns the current lyrics offset. Positive values show lyrics
// later.
func (m *Model) Offset() time.Duration {
	return m.offset
}

// syncPosition feeds the player position, shifted by the offset, to the
// lyrics view.
func (m *Model) syncPosition() {
	m.Lyrics.SetPosition(m.Player.Position() - m.offset)
}

func (m *Model) setOffset(offset time.Duration) {
	m.offset = offset
	m.Lyrics.SetOffset(offset)
	if m.offsets != nil && m.track != "" {
		m.offsets.SaveOffset(m.track, offset)
	}
	m.syncPosition()
}

// handleKey handles playback keys the lyrics view passed through.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit, keymap.ActionClose:
		return tea.Quit
	case keymap.ActionPlayPause:
		if m.atEnd() {
			m.Player.Play(0)
		} else {
			m.Player.Toggle()
		}
	case keymap.ActionSeekForward:
		m.Player.Seek(seekStep)
	case keymap.ActionSeekBack:
		m.Player.Seek(-seekStep)
	case keymap.ActionSeekForwardLong:
		m.Player.Seek(seekStepLong)
	case keymap.ActionSeekBackLong:
		m.Player.Seek(-seekStepLong)
	case keymap.ActionRestart:
		m.Player.SeekTo(0)
	case keymap.ActionOffsetLater:
		m.setOffset(m.offset + offsetStep)
	case keymap.ActionOffsetEarlier:
		m.setOffset(m.offset - offsetStep)
	case keymap.ActionOffsetReset:
		m.setOffset(0)
	case keymap.ActionHelp:
		m.openHelp()
	}
	m.syncPosition()
	return nil
}

// atEnd reports whether a track of known duration was played to the end.
func (m *Model) atEnd() bool {
	d := m.Player.Duration()
	return d > 0 && m.Player.Position() >= d
}

func (m *Model) openHelp() {
	h := helpbindings.New()
	h.SetContexts([]string{"global", "playback", "lyrics"})
	h.SetSize(m.lyricsSize())
	m.keyHelp = &h
}
