package lyrics

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lrclib"
	"github.com/llehouerou/lyricsync/internal/state"
	"github.com/llehouerou/lyricsync/internal/tags"
)

// Source names reported in FetchResult.
const (
	SourceLocal    = "local"
	SourceEmbedded = "embedded"
	SourceCache    = "cache"
	SourceAPI      = "api"
	SourceNotFound = "not_found"
)

// cacheSourceLrclib marks cache entries fetched from lrclib.
const cacheSourceLrclib = "lrclib"

// Cache stores fetched lyrics text by artist and title.
type Cache interface {
	Lookup(artist, title string) (*state.CachedLyrics, error)
	Store(entry state.CachedLyrics) error
}

// Fetcher retrieves lyrics from a remote service.
type Fetcher interface {
	Get(ctx context.Context, artist, title, album string, duration time.Duration) (*lrclib.LyricsResult, error)
}

// Source provides lyrics from local files, embedded tags, the cache, or
// the lrclib API.
type Source struct {
	client Fetcher
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithFetcher replaces the default lrclib client.
func WithFetcher(f Fetcher) SourceOption {
	return func(s *Source) {
		s.client = f
	}
}

// WithCache enables the lyrics cache. Entries older than ttl are
// refetched; a zero ttl keeps entries forever.
func WithCache(c Cache, ttl time.Duration) SourceOption {
	return func(s *Source) {
		s.cache = c
		s.ttl = ttl
	}
}

// NewSource creates a new lyrics source.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		client: lrclib.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackInfo contains the information needed to fetch lyrics.
type TrackInfo struct {
	FilePath string // Path to audio file (for local .lrc lookup)
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
	Embedded string // lyrics embedded in the audio file tags
}

// FetchResult contains the result of a lyrics fetch.
type FetchResult struct {
	Lyrics *Lyrics
	Text   string // source text Lyrics was parsed from
	Source string // one of the Source* constants
	Err    error
}

// Found reports whether lyrics were resolved.
func (r FetchResult) Found() bool {
	return r.Lyrics != nil
}

// Fetch retrieves lyrics for a track using the priority order:
// 1. Local .lrc file (same directory as audio file)
// 2. Lyrics embedded in the audio file
// 3. Cache entry younger than the TTL
// 4. lrclib API (and cache the result)
//
// A document that fails to parse is replaced by Failed(err) and the
// error is reported in Err.
func (s *Source) Fetch(ctx context.Context, track TrackInfo) FetchResult {
	// 1. Try local file
	if track.FilePath != "" {
		if text, err := readSidecar(track.FilePath); err == nil {
			logging.LyricsLookup(SourceLocal, track.Artist, track.Title, true)
			return s.result(text, SourceLocal)
		}
	}

	// 2. Try embedded lyrics
	if strings.TrimSpace(track.Embedded) != "" {
		logging.LyricsLookup(SourceEmbedded, track.Artist, track.Title, true)
		return s.result(track.Embedded, SourceEmbedded)
	}

	// Need artist and title for cache/API lookup
	if track.Artist == "" || track.Title == "" {
		return FetchResult{Source: SourceNotFound}
	}

	// 3. Try cache
	cached := s.lookupCache(track)
	if cached != nil && s.fresh(cached) {
		return s.result(cached.Content, SourceCache)
	}

	// 4. Try API
	res := s.fetchFromAPI(ctx, track)
	if res.Source == SourceNotFound && res.Err != nil && cached != nil {
		// Stale lyrics beat none when lrclib is unreachable
		logging.Warn("using stale cached lyrics", "artist", track.Artist, "title", track.Title, "error", res.Err)
		return s.result(cached.Content, SourceCache)
	}
	return res
}

func readSidecar(path string) (string, error) {
	data, err := os.ReadFile(tags.SidecarPath(path))
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

func (s *Source) lookupCache(track TrackInfo) *state.CachedLyrics {
	if s.cache == nil {
		return nil
	}
	entry, err := s.cache.Lookup(track.Artist, track.Title)
	if err != nil {
		logging.Warn("lyrics cache lookup failed", "error", err)
		return nil
	}
	logging.LyricsLookup(SourceCache, track.Artist, track.Title, entry != nil)
	return entry
}

func (s *Source) fresh(entry *state.CachedLyrics) bool {
	return s.ttl <= 0 || s.now().Sub(entry.FetchedAt) < s.ttl
}

// fetchFromAPI fetches lyrics from the lrclib API.
func (s *Source) fetchFromAPI(ctx context.Context, track TrackInfo) FetchResult {
	result, err := s.client.Get(ctx, track.Artist, track.Title, track.Album, track.Duration)
	if err != nil {
		// ErrNotFound is not a real error, just means no lyrics available
		if errors.Is(err, lrclib.ErrNotFound) {
			logging.LyricsLookup(SourceAPI, track.Artist, track.Title, false)
			return FetchResult{Source: SourceNotFound}
		}
		return FetchResult{Source: SourceNotFound, Err: err}
	}

	text := result.Text()
	logging.LyricsLookup(SourceAPI, track.Artist, track.Title, text != "", "id", result.ID, "synced", result.HasSyncedLyrics())
	if text == "" {
		// Instrumental or empty record
		return FetchResult{Source: SourceNotFound}
	}

	res := s.result(text, SourceAPI)
	if res.Err == nil && s.cache != nil {
		err := s.cache.Store(state.CachedLyrics{
			Artist:    track.Artist,
			Title:     track.Title,
			Album:     track.Album,
			Source:    cacheSourceLrclib,
			Content:   text,
			Synced:    result.HasSyncedLyrics(),
			FetchedAt: s.now(),
		})
		if err != nil {
			logging.Warn(errmsg.Format(errmsg.OpCacheSave, err))
		}
	}
	return res
}

// result parses text into a FetchResult from the named source.
func (s *Source) result(text, source string) FetchResult {
	doc, err := Parse(text)
	if err != nil {
		return FetchResult{Lyrics: Failed(err), Text: text, Source: source, Err: err}
	}
	return FetchResult{Lyrics: doc, Text: text, Source: source}
}

// Failed returns a one-line document showing why lyrics could not be
// parsed.
func Failed(err error) *Lyrics {
	msg := errmsg.Format(errmsg.OpLyricsParse, err)
	return &Lyrics{
		Lines: []Line{{
			Spans: []Span{{Text: msg}},
		}},
	}
}
