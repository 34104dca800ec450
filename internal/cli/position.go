package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/lyricsync/internal/lyrics"
)

// Position is a playback position given on the command line as mm:ss.xx,
// as a Go duration ("1m30s") or as seconds ("90.5").
type Position time.Duration

var errBadPosition = errors.New("expected mm:ss.xx, a duration or seconds")

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	d, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = Position(d)
	return nil
}

// Duration returns p as a time.Duration.
func (p Position) Duration() time.Duration {
	return time.Duration(p)
}

func (p Position) String() string {
	return lyrics.FormatTime(time.Duration(p))
}

// ParsePosition parses a playback position.
func ParsePosition(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty position: %w", errBadPosition)
	}

	if minutes, seconds, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.ParseUint(minutes, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("position %q: %w", s, errBadPosition)
		}
		sec, err := strconv.ParseFloat(seconds, 64)
		if err != nil || math.IsNaN(sec) || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("position %q: %w", s, errBadPosition)
		}
		return time.Duration(m)*time.Minute + secondsDuration(sec), nil
	}

	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(sec) || math.IsInf(sec, 0) {
			return 0, fmt.Errorf("position %q: %w", s, errBadPosition)
		}
		if sec < 0 {
			return 0, fmt.Errorf("position %q is negative", s)
		}
		return secondsDuration(sec), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", s, errBadPosition)
	}
	if d < 0 {
		return 0, fmt.Errorf("position %q is negative", s)
	}
	return d, nil
}

// secondsDuration converts seconds to a duration rounded to the millisecond.
func secondsDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec*1000)) * time.Millisecond
}
