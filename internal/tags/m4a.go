package tags

import (
	"fmt"

	"github.com/Sorrow446/go-mp4tag"
)

// writeM4ALyrics sets the ©lyr atom of an MP4/M4A file. Atoms left empty
// in the written set are kept as they are, so removal goes through TagLib.
func writeM4ALyrics(path, lyrics string) error {
	if lyrics == "" {
		return writeTaglibLyrics(path, "")
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	if err := mp4.Write(&mp4tag.MP4Tags{Lyrics: lyrics}, nil); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
