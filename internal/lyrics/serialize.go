package lyrics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Serialize converts a document back to lyrics source.
//
// Absolute times are written as [mm:ss.fff]. Beat timestamps keep their
// notation, which is resolved again against the clock at its new position
// when reparsed.
func Serialize(l *Lyrics) string {
	var sb strings.Builder
	headersPending := l.Lang != "" || l.BPM != nil
	// Set while a following "/" line would be read as a translation
	takesTranslation := false

	for i := range l.Lines {
		line := &l.Lines[i]
		if line.Raw != nil {
			sb.WriteString(*line.Raw)
			sb.WriteByte('\n')
			takesTranslation = false
			continue
		}

		if headersPending {
			headersPending = false
			writeHeaders(&sb, l)
		}

		if takesTranslation && startsWithSlash(line) {
			sb.WriteByte('\n')
		}
		takesTranslation = len(line.Spans) > 0 && line.Translation == nil

		for j := range line.Spans {
			writeSpan(&sb, &line.Spans[j])
		}
		sb.WriteByte('\n')

		if line.Translation != nil {
			sb.WriteByte('/')
			sb.WriteString(*line.Translation)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// startsWithSlash reports whether the serialized line begins with '/'.
func startsWithSlash(line *Line) bool {
	for i := range line.Spans {
		s := &line.Spans[i]
		if s.Tag != nil || s.Ruby != nil {
			return false
		}
		if s.Text != "" {
			return s.Text[0] == '/'
		}
	}
	return false
}

// WriteTo writes the serialized document to w.
func (l *Lyrics) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Serialize(l))
	return int64(n), err
}

func writeHeaders(sb *strings.Builder, l *Lyrics) {
	if l.Lang != "" {
		sb.WriteString("[lang:")
		sb.WriteString(l.Lang)
		if l.TranslationLang != "" {
			sb.WriteByte('/')
			sb.WriteString(l.TranslationLang)
		}
		sb.WriteString("]\n")
	}
	if l.BPM != nil {
		sb.WriteString("[bpm:")
		sb.WriteString(strconv.FormatFloat(*l.BPM, 'f', -1, 64))
		sb.WriteString("]\n")
	}
	sb.WriteByte('\n')
}

func writeSpan(sb *strings.Builder, s *Span) {
	if s.Tag != nil {
		sb.WriteString(FormatTimestamp(*s.Tag))
	}
	if s.Ruby != nil {
		sb.WriteByte('[')
		sb.WriteString(s.Text)
		sb.WriteString("]{")
		sb.WriteString(*s.Ruby)
		sb.WriteByte('}')
		return
	}
	sb.WriteString(s.Text)
}

// FormatTimestamp returns the tag form of ts, brackets included.
func FormatTimestamp(ts Timestamp) string {
	switch {
	case ts.Beat != nil:
		var sb strings.Builder
		sb.WriteString("[b")
		if ts.Beat.Count != 1 {
			sb.WriteString(strconv.FormatFloat(ts.Beat.Count, 'f', -1, 64))
		}
		if ts.Beat.Divisor != 1 {
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(ts.Beat.Divisor))
		}
		sb.WriteByte(']')
		return sb.String()
	case !ts.Resolved:
		return "[]"
	default:
		return "[" + FormatTime(ts.Time) + "]"
	}
}

// FormatTime formats d as mm:ss.fff, rounded to the millisecond.
func FormatTime(d time.Duration) string {
	d = d.Round(time.Millisecond)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}
