// Package lyrics parses, serializes and plays back synchronized lyrics.
//
// The format is line oriented. Time tags such as [01:02.500] or [b1/2]
// precede the text they time, [text]{ruby} attaches a phonetic annotation,
// and a line starting with "/" right after a lyric line is its translation.
// Document metadata is declared with [lang:ja/en], [bpm:120] and
// [offset:-250] tags.
package lyrics

import "time"

// Beat records the notation of a beat-relative timestamp.
type Beat struct {
	Count   float64
	Divisor int
}

// Timestamp is an explicit time tag. An empty tag ("[]") is present but
// unresolved and carries no time.
type Timestamp struct {
	Resolved bool
	Time     time.Duration
	Beat     *Beat
}

// Span is a run of lyric text within a line.
type Span struct {
	Text string
	Ruby *string

	// Start is the playback time at which the span becomes active, or nil
	// when no time is known yet on its line.
	Start *time.Duration

	// Tag is the time tag written directly before the span, if any.
	Tag *Timestamp
}

// Line is either a structured lyric line or a raw line kept verbatim
// because it could not be parsed.
type Line struct {
	// Start is the time of the first resolved tag on the line.
	Start *time.Duration

	// Order is the sort key: Start when set, otherwise the document clock
	// at the end of the line.
	Order time.Duration

	Spans       []Span
	Translation *string

	// Raw holds the source text of an unparseable line. Raw lines have no spans.
	Raw *string
}

// IsRaw reports whether the line is an unparsed source line.
func (l *Line) IsRaw() bool {
	return l.Raw != nil
}

// Text returns the line's text with ruby annotations dropped.
func (l *Line) Text() string {
	if l.Raw != nil {
		return *l.Raw
	}
	var n int
	for i := range l.Spans {
		n += len(l.Spans[i].Text)
	}
	b := make([]byte, 0, n)
	for i := range l.Spans {
		b = append(b, l.Spans[i].Text...)
	}
	return string(b)
}

// Lyrics is a parsed document.
type Lyrics struct {
	Lines           []Line
	Lang            string
	TranslationLang string
	BPM             *float64
}

// IsSynced returns true if any line carries a start time.
func (l *Lyrics) IsSynced() bool {
	for i := range l.Lines {
		if l.Lines[i].Start != nil {
			return true
		}
	}
	return false
}

// HasTranslation returns true if any line carries a translation.
func (l *Lyrics) HasTranslation() bool {
	for i := range l.Lines {
		if l.Lines[i].Translation != nil {
			return true
		}
	}
	return false
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func stringPtr(s string) *string {
	return &s
}
