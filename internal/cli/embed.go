package cli

import (
	"fmt"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/lyrics"
	"github.com/llehouerou/lyricsync/internal/tags"
)

// EmbedCmd writes a lyrics file into the tags of an audio file.
type EmbedCmd struct {
	Audio  string `arg:"" help:"Audio file to tag" type:"existingfile"`
	Lyrics string `arg:"" optional:"" help:"Lyrics file (default: the .lrc next to the audio file), or - for stdin"`

	Normalize bool   `help:"Embed the canonical form instead of the file as is"`
	Lang      string `help:"Lyrics language for ID3 tags (default: the [lang:] header)"`
	Remove    bool   `help:"Remove embedded lyrics instead"`
}

func (c *EmbedCmd) Run(env *Env) error {
	if !tags.IsMusicFile(c.Audio) {
		return fmt.Errorf("%s is not a supported audio file", c.Audio)
	}

	if c.Remove {
		if err := tags.WriteLyrics(c.Audio, "", ""); err != nil {
			return failed(errmsg.OpTagsWrite, c.Audio, err)
		}
		fmt.Fprintf(env.Stdout, "removed lyrics from %s\n", c.Audio)
		return nil
	}

	path := c.Lyrics
	if path == "" {
		path = tags.SidecarPath(c.Audio)
	}
	// Broken documents are never embedded
	doc, text, err := env.loadDocument(path)
	if err != nil {
		return err
	}
	if c.Normalize {
		text = lyrics.Serialize(doc)
	}
	lang := c.Lang
	if lang == "" {
		lang = doc.Lang
	}

	if err := tags.WriteLyrics(c.Audio, text, lang); err != nil {
		return failed(errmsg.OpTagsWrite, c.Audio, err)
	}
	fmt.Fprintf(env.Stdout, "embedded %d lines in %s\n", len(doc.Lines), c.Audio)
	return nil
}
