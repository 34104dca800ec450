package lyrics

import "time"

// LineAt returns the index of the line active at pos, or -1 if no timed
// line has started yet. Lines without a start time are skipped.
//
// hint is the index returned by a previous call, or -1. When the hinted line
// has already started, the search scans forward from it, which makes
// per-frame lookups during forward playback amortized O(1). Any other hint
// falls back to a full scan. Both paths return the same index.
func LineAt(lines []Line, pos time.Duration, hint int) int {
	if hint >= 0 && hint < len(lines) {
		if start := lines[hint].Start; start != nil && *start <= pos {
			idx := hint
			for i := hint + 1; i < len(lines); i++ {
				s := lines[i].Start
				if s == nil {
					continue
				}
				if *s > pos {
					break
				}
				idx = i
			}
			return idx
		}
	}

	idx := -1
	for i := range lines {
		if s := lines[i].Start; s != nil && *s <= pos {
			idx = i
		}
	}
	return idx
}

// LineAt returns the index of the lyric line at the given playback position.
// Returns -1 if no line is active yet or if lyrics are unsynced.
func (l *Lyrics) LineAt(pos time.Duration) int {
	return LineAt(l.Lines, pos, -1)
}

// ActiveSpans returns how many leading spans of line have started at pos.
func ActiveSpans(line *Line, pos time.Duration) int {
	n := 0
	for i := range line.Spans {
		if s := line.Spans[i].Start; s != nil && *s <= pos {
			n = i + 1
		}
	}
	return n
}

// Tracker follows playback through a document, feeding each result back as
// the hint for the next lookup.
type Tracker struct {
	lines   []Line
	current int
}

// NewTracker creates a tracker positioned before the first line.
func NewTracker(l *Lyrics) *Tracker {
	t := &Tracker{current: -1}
	if l != nil {
		t.lines = l.Lines
	}
	return t
}

// Seek returns the index of the line active at pos and remembers it.
func (t *Tracker) Seek(pos time.Duration) int {
	t.current = LineAt(t.lines, pos, t.current)
	return t.current
}

// Current returns the index of the line found by the last Seek, or -1.
func (t *Tracker) Current() int {
	return t.current
}

// Reset forgets the last position.
func (t *Tracker) Reset() {
	t.current = -1
}
