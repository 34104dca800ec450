package lyrics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedToken is returned when a tag or ruby annotation is malformed.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrNoBPM is returned for a beat timestamp that appears before any bpm tag.
	ErrNoBPM = errors.New("beat timestamp without bpm")

	// ErrNoProgress indicates a parser bug: a line was parsed without consuming input.
	ErrNoProgress = errors.New("parser made no progress")
)

// ParseError describes a fatal parse failure. Line and Col are 1-based; Col
// counts bytes.
type ParseError struct {
	Pos  int
	Line int
	Col  int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(src string, pos int, err error, msg string) *ParseError {
	pos = min(max(pos, 0), len(src))
	before := src[:pos]
	line := strings.Count(before, "\n") + 1
	col := pos - strings.LastIndexByte(before, '\n')
	return &ParseError{Pos: pos, Line: line, Col: col, Msg: msg, Err: err}
}
