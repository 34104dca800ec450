package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/logging"
	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// opError is a failed operation with a user-facing message.
type opError struct {
	msg string
	err error
}

func (e *opError) Error() string { return e.msg }

func (e *opError) Unwrap() error { return e.err }

func failed(op errmsg.Op, context string, err error) error {
	return &opError{msg: errmsg.FormatWith(op, context, err), err: err}
}

// loadDocument reads and parses a lyrics file, or stdin for "-".
func (e *Env) loadDocument(path string) (*lyrics.Lyrics, string, error) {
	text, err := e.readText(path)
	if err != nil {
		return nil, "", failed(errmsg.OpLyricsLoad, path, err)
	}
	doc, err := lyrics.Parse(text)
	if err != nil {
		return nil, text, failed(errmsg.OpLyricsParse, path, err)
	}
	return doc, text, nil
}

// parseOrFailed parses text, replacing a document that fails to parse by
// one showing the error.
func parseOrFailed(name, text string) *lyrics.Lyrics {
	doc, err := lyrics.Parse(text)
	if err != nil {
		logging.Warn(errmsg.FormatWith(errmsg.OpLyricsParse, name, err))
		return lyrics.Failed(err)
	}
	return doc
}

// ParseCmd prints a document as JSON.
type ParseCmd struct {
	File   string `arg:"" help:"Lyrics file, or - for stdin"`
	Indent bool   `short:"i" help:"Indent the JSON output"`
}

func (c *ParseCmd) Run(env *Env) error {
	doc, _, err := env.loadDocument(c.File)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetEscapeHTML(false)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(newJSONDocument(doc))
}

// FmtCmd prints a document in canonical form.
type FmtCmd struct {
	File  string `arg:"" help:"Lyrics file, or - for stdin"`
	Write bool   `short:"w" help:"Write the result back to the file"`
}

func (c *FmtCmd) Run(env *Env) error {
	doc, text, err := env.loadDocument(c.File)
	if err != nil {
		return err
	}
	out := lyrics.Serialize(doc)

	if !c.Write {
		_, err := fmt.Fprint(env.Stdout, out)
		return err
	}

	if c.File == "-" {
		return errors.New("cannot write back to stdin")
	}
	if out == text {
		return nil
	}
	info, err := os.Stat(c.File)
	if err != nil {
		return failed(errmsg.OpLyricsWrite, c.File, err)
	}
	if err := os.WriteFile(c.File, []byte(out), info.Mode().Perm()); err != nil {
		return failed(errmsg.OpLyricsWrite, c.File, err)
	}
	logging.Info("formatted lyrics file", "path", c.File, "lines", len(doc.Lines))
	return nil
}

// AtCmd prints the line active at each position.
type AtCmd struct {
	File  string     `arg:"" help:"Lyrics file, or - for stdin"`
	Times []Position `arg:"" name:"time" help:"Playback positions (mm:ss.xx, 1m30s or seconds)"`
}

func (c *AtCmd) Run(env *Env) error {
	doc, _, err := env.loadDocument(c.File)
	if err != nil {
		return err
	}

	tracker := lyrics.NewTracker(doc)
	for _, t := range c.Times {
		idx := tracker.Seek(t.Duration())
		if idx < 0 {
			fmt.Fprintf(env.Stdout, "%s\t-\n", t)
			continue
		}
		line := &doc.Lines[idx]
		fmt.Fprintf(env.Stdout, "%s\t%d\t%s\n", t, idx, line.Text())
	}
	return nil
}

// jsonDocument is the JSON form of a document printed by parse.
type jsonDocument struct {
	Lang            string     `json:"lang,omitempty"`
	TranslationLang string     `json:"translation_lang,omitempty"`
	BPM             *float64   `json:"bpm,omitempty"`
	Synced          bool       `json:"synced"`
	Lines           []jsonLine `json:"lines"`
}

type jsonLine struct {
	StartMS     *int64     `json:"start_ms,omitempty"`
	Time        string     `json:"time,omitempty"`
	Text        string     `json:"text"`
	Spans       []jsonSpan `json:"spans,omitempty"`
	Translation *string    `json:"translation,omitempty"`
	Raw         bool       `json:"raw,omitempty"`
}

type jsonSpan struct {
	Text    string  `json:"text"`
	Ruby    *string `json:"ruby,omitempty"`
	StartMS *int64  `json:"start_ms,omitempty"`
	Tag     string  `json:"tag,omitempty"`
}

func newJSONDocument(doc *lyrics.Lyrics) jsonDocument {
	out := jsonDocument{
		Lang:            doc.Lang,
		TranslationLang: doc.TranslationLang,
		BPM:             doc.BPM,
		Synced:          doc.IsSynced(),
		Lines:           make([]jsonLine, len(doc.Lines)),
	}
	for i := range doc.Lines {
		line := &doc.Lines[i]
		jl := jsonLine{
			Text:        line.Text(),
			Translation: line.Translation,
			Raw:         line.IsRaw(),
		}
		if line.Start != nil {
			jl.StartMS = millis(*line.Start)
			jl.Time = lyrics.FormatTime(*line.Start)
		}
		for j := range line.Spans {
			s := &line.Spans[j]
			js := jsonSpan{Text: s.Text, Ruby: s.Ruby}
			if s.Start != nil {
				js.StartMS = millis(*s.Start)
			}
			if s.Tag != nil {
				js.Tag = lyrics.FormatTimestamp(*s.Tag)
			}
			jl.Spans = append(jl.Spans, js)
		}
		out.Lines[i] = jl
	}
	return out
}

func millis(d time.Duration) *int64 {
	ms := d.Milliseconds()
	return &ms
}
