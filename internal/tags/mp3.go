package tags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// usltID is the common name of the ID3v2 USLT frame.
const usltID = "Unsynchronised lyrics/text transcription"

// readMP3WithID3v2 reads MP3 metadata using only the id3v2 library.
func readMP3WithID3v2(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	return &Tag{
		Path:   path,
		Title:  strings.TrimSpace(id3tag.Title()),
		Artist: strings.TrimSpace(id3tag.Artist()),
		Album:  strings.TrimSpace(id3tag.Album()),
		Lyrics: usltLyrics(id3tag),
	}, nil
}

// readMP3Lyrics returns the first non-empty USLT frame of an MP3 file.
func readMP3Lyrics(path string) string {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer id3tag.Close()
	return usltLyrics(id3tag)
}

func usltLyrics(id3tag *id3v2.Tag) string {
	for _, frame := range id3tag.GetFrames(id3tag.CommonID(usltID)) {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok && uslt.Lyrics != "" {
			return uslt.Lyrics
		}
	}
	return ""
}

// writeMP3Lyrics replaces the USLT frames of an MP3 file. Other frames
// are kept.
func writeMP3Lyrics(path, lyrics, lang string) error {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and retry
		if stripErr := stripID3v2Tag(path); stripErr != nil {
			return fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		id3tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer id3tag.Close()

	id3tag.SetVersion(4)
	id3tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	id3tag.DeleteFrames(id3tag.CommonID(usltID))

	if lyrics != "" {
		id3tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          id3Language(lang),
			ContentDescriptor: "",
			Lyrics:            lyrics,
		})
	}

	if err := id3tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// id3Language maps a document language to the three-letter code USLT
// requires. Unknown or short codes become "xxx".
func id3Language(lang string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if code, ok := iso639[lang]; ok {
		return code
	}
	if len(lang) == 3 {
		return lang
	}
	return "xxx"
}

var iso639 = map[string]string{
	"en": "eng",
	"ja": "jpn",
	"zh": "zho",
	"ko": "kor",
	"fr": "fra",
	"de": "deu",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"ru": "rus",
}

// stripID3v2Tag removes an ID3v2 tag from the start of a file.
func stripID3v2Tag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	size := id3v2Size(data)
	if size == 0 {
		return nil
	}
	if int64(len(data)) <= size {
		return errors.New("file too small to strip ID3v2 header")
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data[size:], info.Mode().Perm())
}

// id3v2Size returns the total size of a leading ID3v2 tag, or 0.
func id3v2Size(header []byte) int64 {
	if len(header) < 10 || string(header[0:3]) != id3Magic {
		return 0
	}
	// Size is stored in bytes 6-9 as syncsafe integer (7 bits per byte)
	return 10 + (int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f))
}
