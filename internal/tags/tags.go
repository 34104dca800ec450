// Package tags reads track metadata and embedded lyrics from music files
// and writes lyrics back into them. It handles MP3, FLAC, Opus/Ogg and
// M4A formats.
package tags

import (
	"path/filepath"
	"strings"
	"time"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Vorbis comment keys used for embedded lyrics. LYRICS is what most
// taggers write, UNSYNCEDLYRICS is the foobar2000 convention.
const (
	vorbisLyrics         = "LYRICS"
	vorbisUnsyncedLyrics = "UNSYNCEDLYRICS"
)

// Tag is the metadata needed to look up and display lyrics for a track.
type Tag struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Lyrics   string        // embedded lyrics text, if any
	Duration time.Duration // zero when it could not be determined
}

// HasLyrics reports whether the file carries embedded lyrics.
func (t *Tag) HasLyrics() bool {
	return strings.TrimSpace(t.Lyrics) != ""
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch ext(path) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		return true
	}
	return false
}

// SidecarPath returns the .lrc file next to a music file.
func SidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".lrc"
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
