package tags

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// readFLACLyrics returns the LYRICS (or UNSYNCEDLYRICS) Vorbis comment.
func readFLACLyrics(path string) string {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return ""
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return ""
		}
		for _, key := range []string{vorbisLyrics, vorbisUnsyncedLyrics} {
			if v := vorbisValue(cmts.Comments, key); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}

// writeFLACLyrics replaces the lyrics comments of a FLAC file, keeping
// every other comment.
func writeFLACLyrics(path, lyrics string) error {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	cmtIdx := -1
	cmts := flacvorbis.New()
	for i, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			cmtIdx = i
			cmts, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("parse vorbis comments: %w", err)
			}
			break
		}
	}

	kept := cmts.Comments[:0]
	for _, c := range cmts.Comments {
		key, _, _ := strings.Cut(c, "=")
		if strings.EqualFold(key, vorbisLyrics) || strings.EqualFold(key, vorbisUnsyncedLyrics) {
			continue
		}
		kept = append(kept, c)
	}
	cmts.Comments = kept

	if lyrics != "" {
		if err := cmts.Add(vorbisLyrics, lyrics); err != nil {
			return fmt.Errorf("add lyrics: %w", err)
		}
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// vorbisValue returns the first value for key, compared case-insensitively.
func vorbisValue(comments []string, key string) string {
	for _, c := range comments {
		k, v, ok := strings.Cut(c, "=")
		if ok && strings.EqualFold(k, key) && v != "" {
			return v
		}
	}
	return ""
}
