package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read reads title, artist, album, duration and embedded lyrics from a
// music file. A missing title falls back to the file name.
func Read(path string) (*Tag, error) {
	if !IsMusicFile(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext(path))
	}

	t, err := readCommon(path)
	if err != nil {
		// dhowden/tag fails on some UTF-16 ID3 frames and ffmpeg-created files
		t, err = readFallback(path)
		if err != nil {
			return nil, err
		}
	}

	if t.Title == "" {
		t.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if !t.HasLyrics() {
		t.Lyrics = readLyrics(path)
	}

	if d, err := ReadDuration(path); err == nil {
		t.Duration = d
	}

	return t, nil
}

// readCommon reads the common fields with dhowden/tag.
func readCommon(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	return &Tag{
		Path:   path,
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Lyrics: m.Lyrics(),
	}, nil
}

// readFallback reads the common fields with a format-specific library.
func readFallback(path string) (*Tag, error) {
	if ext(path) == ExtMP3 {
		return readMP3WithID3v2(path)
	}
	return readWithTaglib(path)
}

// readLyrics looks for lyrics in the format-specific frames dhowden/tag
// does not expose.
func readLyrics(path string) string {
	switch ext(path) {
	case ExtMP3:
		return readMP3Lyrics(path)
	case ExtFLAC:
		if s := readFLACLyrics(path); s != "" {
			return s
		}
	}
	return readTaglibLyrics(path)
}

// readWithTaglib reads the common fields using TagLib.
func readWithTaglib(path string) (*Tag, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	return &Tag{
		Path:   path,
		Title:  strings.TrimSpace(tags.get(taglib.Title)),
		Artist: strings.TrimSpace(tags.get(taglib.Artist, taglib.AlbumArtist)),
		Album:  strings.TrimSpace(tags.get(taglib.Album)),
		Lyrics: tags.get(taglib.Lyrics, vorbisUnsyncedLyrics),
	}, nil
}

// readTaglibLyrics returns the lyrics property TagLib maps for the
// container, or empty string.
func readTaglibLyrics(path string) string {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return ""
	}
	return taglibTags(rawTags).get(taglib.Lyrics, vorbisUnsyncedLyrics)
}
