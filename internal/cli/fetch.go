package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/state"
	"github.com/llehouerou/lyricsync/internal/tags"
	"github.com/llehouerou/lyricsync/internal/ui/render"
)

// TrackFlags identify a track on the command line. They override the tags
// read from an audio file.
type TrackFlags struct {
	Artist   string   `short:"a" help:"Track artist"`
	Title    string   `short:"t" help:"Track title"`
	Album    string   `help:"Album name, narrows lrclib lookups"`
	Duration Position `short:"d" help:"Track duration"`
}

func (f *TrackFlags) apply(track *lyrics.TrackInfo) {
	if f.Artist != "" {
		track.Artist = f.Artist
	}
	if f.Title != "" {
		track.Title = f.Title
	}
	if f.Album != "" {
		track.Album = f.Album
	}
	if f.Duration > 0 {
		track.Duration = f.Duration.Duration()
	}
}

// readTrack reads the metadata and embedded lyrics of an audio file.
func readTrack(path string) (lyrics.TrackInfo, error) {
	t, err := tags.Read(path)
	if err != nil {
		return lyrics.TrackInfo{}, failed(errmsg.OpTagsRead, path, err)
	}
	return lyrics.TrackInfo{
		FilePath: path,
		Artist:   t.Artist,
		Title:    t.Title,
		Album:    t.Album,
		Duration: t.Duration,
		Embedded: t.Lyrics,
	}, nil
}

// FetchCmd resolves lyrics through the source chain and prints them.
type FetchCmd struct {
	Audio string `arg:"" optional:"" help:"Audio file; its sidecar .lrc and tags are used" type:"existingfile"`
	TrackFlags `embed:""`

	Raw     bool `help:"Print the source text instead of the canonical form"`
	NoCache bool `name:"no-cache" help:"Neither read nor fill the lyrics cache"`
}

func (c *FetchCmd) Run(env *Env) error {
	var track lyrics.TrackInfo
	if c.Audio != "" {
		var err error
		if track, err = readTrack(c.Audio); err != nil {
			return err
		}
	}
	c.apply(&track)
	if c.Audio == "" && (track.Artist == "" || track.Title == "") {
		return errors.New("--artist and --title are required without an audio file")
	}

	var cache state.Interface
	if !c.NoCache {
		cache = env.openCache()
		defer closeCache(cache)
	}

	res := env.source(cache).Fetch(context.Background(), track)
	name := describeTrack(track)
	switch {
	case res.Err != nil && !res.Found():
		return failed(errmsg.OpLyricsFetch, name, res.Err)
	case res.Err != nil && !c.Raw:
		return failed(errmsg.OpLyricsParse, res.Source, res.Err)
	case !res.Found():
		return fmt.Errorf("%w for %s", ErrNoLyrics, name)
	}
	logging.Info("lyrics found", "track", name, "source", res.Source)

	out := res.Text
	if !c.Raw {
		out = lyrics.Serialize(res.Lyrics)
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := fmt.Fprint(env.Stdout, out)
	return err
}

func describeTrack(track lyrics.TrackInfo) string {
	switch {
	case track.Artist != "" && track.Title != "":
		return track.Artist + " - " + track.Title
	case track.Title != "":
		return track.Title
	}
	return track.FilePath
}

// SearchCmd lists lrclib records matching a query.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms"`
	Limit int      `short:"n" default:"20" help:"Maximum number of results"`
}

// Column widths of the search table.
const (
	colID     = 9
	colArtist = 24
	colTitle  = 30
	colAlbum  = 24
	colLength = 7
)

func (c *SearchCmd) Run(env *Env) error {
	query := strings.Join(c.Query, " ")
	results, err := env.Lrclib.Search(context.Background(), query)
	if err != nil {
		return failed(errmsg.OpLyricsSearch, query, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("%w for %q", ErrNoLyrics, query)
	}
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	fmt.Fprintln(env.Stdout, searchRow("ID", "ARTIST", "TITLE", "ALBUM", "LENGTH", "LYRICS"))
	for i := range results {
		r := &results[i]
		fmt.Fprintln(env.Stdout, searchRow(
			fmt.Sprint(r.ID),
			r.ArtistName,
			r.TrackName,
			r.AlbumName,
			formatLength(time.Duration(r.Duration*float64(time.Second))),
			lyricsKind(r),
		))
	}
	return nil
}

func searchRow(id, artist, title, album, length, kind string) string {
	return render.TruncateAndPad(id, colID) +
		render.TruncateAndPad(artist, colArtist) + " " +
		render.TruncateAndPad(title, colTitle) + " " +
		render.TruncateAndPad(album, colAlbum) + " " +
		render.Pad(length, colLength) +
		kind
}

func lyricsKind(r *lrclib.LyricsResult) string {
	switch {
	case r.Instrumental:
		return "instrumental"
	case r.HasSyncedLyrics():
		return "synced"
	case r.HasPlainLyrics():
		return "plain"
	}
	return "none"
}

// formatLength formats a track length as m:ss.
func formatLength(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	return fmt.Sprintf("%d:%02d", d/time.Minute, (d%time.Minute)/time.Second)
}
