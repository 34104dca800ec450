package lyrics

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var (
	// Matches absolute times like 01:02.345, 62.345 or 62
	absoluteRe = regexp.MustCompile(`^(?:(\d+):)?(\d+)(?:\.(\d+))?$`)

	// Matches beat times like b, b2, b1/2 or b1.5/4
	beatRe = regexp.MustCompile(`^b([\d.]+)?(?:/(\d+))?$`)
)

// parseTimestamp resolves the body of a time tag. It returns nil without an
// error when text is not a timestamp. Beat times are resolved relative to
// ref.
func (p *parser) parseTimestamp(text string, ref time.Duration) (*Timestamp, error) {
	if m := absoluteRe.FindStringSubmatch(text); m != nil {
		d, ok := absoluteTime(m[1], m[2], m[3])
		if !ok {
			return nil, nil
		}
		if p.offset > 0 && d > time.Duration(math.MaxInt64)-p.offset {
			return nil, nil
		}
		d = max(d+p.offset, 0)
		return &Timestamp{Resolved: true, Time: d}, nil
	}

	if m := beatRe.FindStringSubmatch(text); m != nil {
		beat := Beat{Count: 1, Divisor: 1}
		if m[1] != "" {
			count, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, nil
			}
			beat.Count = count
		}
		if m[2] != "" {
			div, err := strconv.Atoi(m[2])
			if err != nil || div == 0 {
				return nil, nil
			}
			beat.Divisor = div
		}
		if p.bpm == nil {
			return nil, ErrNoBPM
		}
		secs := 60 / *p.bpm * beat.Count / float64(beat.Divisor)
		d := ref + time.Duration(math.Round(secs*float64(time.Second)))
		return &Timestamp{Resolved: true, Time: d, Beat: &beat}, nil
	}

	return nil, nil
}

// absoluteTime converts the captured minute, second and fraction digits.
// The fraction is converted digit by digit so that no precision is lost
// below the nanosecond.
func absoluteTime(minutes, seconds, fraction string) (time.Duration, bool) {
	// Leave room for the fraction
	const limit = time.Duration(math.MaxInt64) - time.Second

	var d time.Duration
	if minutes != "" {
		m, err := strconv.ParseInt(minutes, 10, 64)
		if err != nil || m > int64(limit/time.Minute) {
			return 0, false
		}
		d = time.Duration(m) * time.Minute
	}

	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil || s > int64((limit-d)/time.Second) {
		return 0, false
	}
	d += time.Duration(s) * time.Second

	scale := time.Second
	for i := 0; i < len(fraction) && scale > 1; i++ {
		scale /= 10
		d += time.Duration(fraction[i]-'0') * scale
	}
	return d, true
}
