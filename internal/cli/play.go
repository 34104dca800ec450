package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/lyricsync/internal/app"
	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/tags"
)

// trailingTime is how long a lyrics file without a known track length
// keeps playing after its last line.
const trailingTime = 5 * time.Second

// originFile labels lyrics read from the file given to play.
const originFile = "file"

// PlayCmd plays lyrics in the terminal against a simulated clock.
type PlayCmd struct {
	Target string `arg:"" help:"Lyrics file, or audio file whose lyrics are looked up" type:"existingfile"`
	TrackFlags `embed:""`

	Speed float64  `short:"s" help:"Playback speed (default from config, 1.0)"`
	Start Position `help:"Start position"`
}

func (c *PlayCmd) Run(env *Env) error {
	playerCfg := env.Config.GetPlayerConfig()
	opts := app.Options{
		Speed:  playerCfg.Speed,
		Offset: env.Config.PlayerOffset(),
		Start:  c.Start.Duration(),
	}
	if c.Speed > 0 {
		opts.Speed = c.Speed
	}

	cache := env.openCache()
	defer closeCache(cache)
	if cache != nil {
		opts.Offsets = cache
	}

	if tags.IsMusicFile(c.Target) {
		track, err := readTrack(c.Target)
		if err != nil {
			return err
		}
		track.FilePath = absPath(c.Target)
		opts.Track = track
		opts.Source = env.source(cache)
	} else {
		text, err := env.readText(c.Target)
		if err != nil {
			return failed(errmsg.OpLyricsLoad, c.Target, err)
		}
		opts.Doc = parseOrFailed(c.Target, text)
		opts.Origin = originFile
		opts.Track = lyrics.TrackInfo{
			FilePath: absPath(c.Target),
			Title:    strings.TrimSuffix(filepath.Base(c.Target), filepath.Ext(c.Target)),
			Duration: documentLength(opts.Doc),
		}
	}
	c.apply(&opts.Track)

	if err := env.RunProgram(app.New(opts)); err != nil {
		return failed(errmsg.OpPlayerRun, "", err)
	}
	return nil
}

// documentLength estimates the length of a track from its lyrics, or
// returns 0 for unsynced documents.
func documentLength(doc *lyrics.Lyrics) time.Duration {
	var last time.Duration
	synced := false
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.Start == nil {
			continue
		}
		synced = true
		last = max(last, *line.Start)
		for j := range line.Spans {
			if s := line.Spans[j].Start; s != nil {
				last = max(last, *s)
			}
		}
	}
	if !synced {
		return 0
	}
	return last + trailingTime
}

// absPath keys stored offsets by absolute path.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
