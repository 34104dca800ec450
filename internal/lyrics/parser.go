package lyrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Offsets at or beyond this many milliseconds do not fit a time.Duration
const maxOffsetMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// Matches the value of a lang tag: "ja" or "ja/en"
var langRe = regexp.MustCompile(`^([\w-]+)(?:/([\w-]+))?$`)

// Parse parses lyrics source into a document.
//
// A line starting with an unknown tag is kept as a raw line. Any other
// malformed tag aborts the parse with a *ParseError.
func Parse(text string) (*Lyrics, error) {
	p := &parser{src: text, tokens: newTokenBuffer(text)}
	return p.parse()
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (*Lyrics, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// parser holds the state threaded across lines.
type parser struct {
	src    string
	tokens *tokenBuffer
	lines  []Line

	clock  time.Duration
	offset time.Duration
	bpm    *float64
	lang   string
	tlang  string
}

// lineState is the per-line parsing state.
type lineState struct {
	begin       int
	start       *time.Duration
	cur         *time.Duration
	pending     *Timestamp
	spans       []Span
	extra       []Timestamp
	translation *string
}

func (p *parser) parse() (*Lyrics, error) {
	p.skipLineBreaks()
	for p.tokens.peek(0).Kind != TokenEOF {
		before := p.tokens.consumed
		if err := p.parseLine(); err != nil {
			return nil, err
		}
		p.skipLineBreaks()
		if p.tokens.consumed == before {
			tok := p.tokens.peek(0)
			return nil, newParseError(p.src, tok.Pos, ErrNoProgress, "no progress at "+tok.String())
		}
	}

	sort.SliceStable(p.lines, func(i, j int) bool {
		return p.lines[i].Order < p.lines[j].Order
	})

	return &Lyrics{
		Lines:           p.lines,
		Lang:            p.lang,
		TranslationLang: p.tlang,
		BPM:             p.bpm,
	}, nil
}

func (p *parser) parseLine() error {
	b := p.tokens
	ls := &lineState{begin: b.peek(0).Pos}

loop:
	for {
		tok := b.peek(0)
		switch tok.Kind {
		case TokenTagOpen:
			raw, err := p.parseTag(ls)
			if err != nil {
				return err
			}
			if raw {
				return nil
			}
		case TokenText:
			b.consume()
			ls.addSpan(Span{Text: tok.Text})
		case TokenLineBreak:
			b.consume()
			if len(ls.spans) > 0 {
				if next := b.peek(0); next.Kind == TokenText && strings.HasPrefix(next.Text, "/") {
					b.consume()
					ls.translation = stringPtr(next.Text[1:])
				}
			}
			break loop
		case TokenEOF:
			break loop
		case TokenTagClose, TokenBraceOpen, TokenBraceClose:
			// Stray delimiter: drop the rest of the line
			p.skipLine()
			break loop
		}
	}

	p.finishLine(ls)
	return nil
}

// parseTag parses a construct starting with '['. It returns true when the
// line was recorded as a raw line and fully consumed.
func (p *parser) parseTag(ls *lineState) (bool, error) {
	b := p.tokens
	b.consume()

	if b.is(TokenTagClose) {
		b.consume()
		ls.addTimestamp(Timestamp{})
		return false, nil
	}

	textTok := b.peek(0)
	if textTok.Kind != TokenText {
		return false, p.unexpected(textTok, "tag text")
	}
	b.consume()
	text := textTok.Text

	ts, err := p.parseTimestamp(text, ls.reference(p.clock))
	if err != nil {
		return false, newParseError(p.src, textTok.Pos, err, fmt.Sprintf("cannot resolve [%s]: %v", text, err))
	}
	if ts != nil {
		if err := p.expect(TokenTagClose); err != nil {
			return false, err
		}
		ls.addTimestamp(*ts)
		return false, nil
	}

	switch {
	case b.is(TokenTagClose, TokenBraceOpen):
		b.consume()
		b.consume()
		rubyTok := b.peek(0)
		if rubyTok.Kind != TokenText {
			return false, p.unexpected(rubyTok, "ruby text")
		}
		b.consume()
		if err := p.expect(TokenBraceClose); err != nil {
			return false, err
		}
		ls.addSpan(Span{Text: text, Ruby: stringPtr(rubyTok.Text)})
		return false, nil

	case strings.HasPrefix(text, "bpm:"):
		// The first declaration wins for the whole document
		if v, err := strconv.ParseFloat(strings.TrimSpace(text[4:]), 64); err == nil && v > 0 && p.bpm == nil {
			p.bpm = &v
		}
		return false, p.expect(TokenTagClose)

	case strings.HasPrefix(text, "offset:"):
		if ms, err := strconv.ParseFloat(strings.TrimSpace(text[7:]), 64); err == nil && math.Abs(ms) < maxOffsetMillis {
			p.offset = time.Duration(math.Round(ms * float64(time.Millisecond)))
		}
		return false, p.expect(TokenTagClose)

	case strings.HasPrefix(text, "lang:"):
		if m := langRe.FindStringSubmatch(text[5:]); m != nil {
			p.lang = m[1]
			p.tlang = m[2]
		}
		return false, p.expect(TokenTagClose)
	}

	if len(ls.spans) == 0 {
		// Unknown tag at the start of the line: keep the line verbatim
		end := p.skipLine()
		p.addRawLine(ls, end)
		return true, nil
	}

	ls.addSpan(Span{Text: "[" + text + "]"})
	if b.is(TokenTagClose) {
		b.consume()
	}
	return false, nil
}

// finishLine records the line and its duplicates.
func (p *parser) finishLine(ls *lineState) {
	if ls.pending != nil {
		ls.spans = append(ls.spans, Span{Start: copyDuration(ls.cur), Tag: ls.pending})
		ls.pending = nil
	}
	if ls.start == nil && len(ls.spans) == 0 {
		return
	}
	if ls.cur != nil {
		p.clock = *ls.cur
	}

	line := Line{
		Start:       ls.start,
		Order:       p.clock,
		Spans:       ls.spans,
		Translation: ls.translation,
	}
	if ls.start != nil {
		line.Order = *ls.start
	}
	p.lines = append(p.lines, line)

	for _, ts := range ls.extra {
		p.lines = append(p.lines, line.repeatAt(ts))
	}
}

func (p *parser) addRawLine(ls *lineState, end int) {
	raw := strings.TrimSuffix(p.src[ls.begin:end], "\r")
	order := p.clock
	if ls.start != nil {
		order = *ls.start
	}
	p.lines = append(p.lines, Line{Order: order, Raw: &raw})
}

// skipLine consumes tokens through the end of the current line and returns
// the byte offset where the line ends.
func (p *parser) skipLine() int {
	b := p.tokens
	for !b.is(TokenLineBreak) && !b.is(TokenEOF) {
		b.consume()
	}
	return b.consume().Pos
}

func (p *parser) skipLineBreaks() {
	for p.tokens.is(TokenLineBreak) {
		p.tokens.consume()
	}
}

func (p *parser) expect(kind TokenKind) error {
	tok := p.tokens.peek(0)
	if tok.Kind != kind {
		return p.unexpected(tok, kind.String())
	}
	p.tokens.consume()
	return nil
}

func (p *parser) unexpected(tok Token, want string) error {
	return newParseError(p.src, tok.Pos, ErrUnexpectedToken,
		fmt.Sprintf("expected %s, got %s", want, tok))
}

// reference returns the base time for beat timestamps: the line's running
// time once known, otherwise the document clock.
func (ls *lineState) reference(clock time.Duration) time.Duration {
	if ls.cur != nil {
		return *ls.cur
	}
	return clock
}

// addTimestamp handles a resolved or empty time tag. A tag that follows the
// line's first tag before any span is a duplicate trigger.
func (ls *lineState) addTimestamp(ts Timestamp) {
	if len(ls.spans) == 0 && ls.start != nil {
		ls.extra = append(ls.extra, ts)
		return
	}
	if ls.pending != nil {
		ls.spans = append(ls.spans, Span{Start: copyDuration(ls.cur), Tag: ls.pending})
	}
	ls.pending = &ts
	if ts.Resolved {
		ls.cur = durationPtr(ts.Time)
		if ls.start == nil {
			ls.start = durationPtr(ts.Time)
		}
	}
}

// addSpan appends s, giving it the pending tag and the running time.
func (ls *lineState) addSpan(s Span) {
	s.Start = copyDuration(ls.cur)
	s.Tag = ls.pending
	ls.pending = nil
	ls.spans = append(ls.spans, s)
}

// repeatAt returns a copy of l moved to the time of ts. An unresolved ts
// yields a copy with no times at all, sorted where l was.
func (l Line) repeatAt(ts Timestamp) Line {
	out := Line{Order: l.Order, Translation: copyString(l.Translation)}
	timed := ts.Resolved && l.Start != nil

	var delta time.Duration
	if timed {
		delta = ts.Time - *l.Start
		out.Start = durationPtr(ts.Time)
		out.Order = ts.Time
	}

	out.Spans = make([]Span, len(l.Spans))
	for i, s := range l.Spans {
		c := Span{Text: s.Text, Ruby: copyString(s.Ruby)}
		if s.Start != nil && timed {
			c.Start = durationPtr(*s.Start + delta)
		}
		if s.Tag != nil {
			tag := Timestamp{}
			if timed {
				tag = *s.Tag
				if tag.Resolved {
					tag.Time += delta
				}
				if tag.Beat != nil {
					beat := *tag.Beat
					tag.Beat = &beat
				}
			}
			c.Tag = &tag
		}
		out.Spans[i] = c
	}
	return out
}

func copyDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	return durationPtr(*d)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(*s)
}

// IsParseError reports whether err is a fatal parse failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
