package tags

import (
	"fmt"
	"os"

	"go.senan.xyz/taglib"
)

// WriteLyrics embeds lyrics in a music file, replacing any lyrics already
// present. Other tags are left untouched. An empty text removes the
// lyrics. lang is the document language and only matters for MP3.
func WriteLyrics(path, lyrics, lang string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	switch ext(path) {
	case ExtMP3:
		return writeMP3Lyrics(path, lyrics, lang)
	case ExtFLAC:
		return writeFLACLyrics(path, lyrics)
	case ExtM4A, ExtMP4:
		return writeM4ALyrics(path, lyrics)
	case ExtOPUS, ExtOGG, ExtOGA:
		return writeTaglibLyrics(path, lyrics)
	}
	return fmt.Errorf("unsupported file format: %s", ext(path))
}

// writeTaglibLyrics sets the LYRICS property through TagLib. Removing
// lyrics rewrites the full tag set without the key.
func writeTaglibLyrics(path, lyrics string) error {
	if lyrics != "" {
		if err := taglib.WriteTags(path, map[string][]string{taglib.Lyrics: {lyrics}}, 0); err != nil {
			return fmt.Errorf("write tags: %w", err)
		}
		return nil
	}

	existing, err := taglib.ReadTags(path)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}
	delete(existing, taglib.Lyrics)
	delete(existing, vorbisUnsyncedLyrics)
	if err := taglib.WriteTags(path, existing, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
