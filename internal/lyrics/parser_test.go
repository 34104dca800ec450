package lyrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func startOf(t *testing.T, d *time.Duration) time.Duration {
	t.Helper()
	require.NotNil(t, d, "expected a start time")
	return *d
}

func TestParse_Basic(t *testing.T) {
	doc, err := Parse("[00:12.34]First line\n[00:15.67]Second line\n[00:20]Third line")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 3)

	expected := []struct {
		start time.Duration
		text  string
	}{
		{ms(12340), "First line"},
		{ms(15670), "Second line"},
		{20 * time.Second, "Third line"},
	}
	for i, exp := range expected {
		line := doc.Lines[i]
		assert.Equal(t, exp.start, startOf(t, line.Start), "line %d", i)
		assert.Equal(t, exp.start, line.Order, "line %d", i)
		assert.Equal(t, exp.text, line.Text(), "line %d", i)
	}
	assert.True(t, doc.IsSynced())
	assert.False(t, doc.HasTranslation())
}

func TestParse_Ordering(t *testing.T) {
	// Lines are sorted by start time, ties keep source order
	doc, err := Parse("[00:03.00]c\n[00:01.00]a\n[00:02.00]b1\n[00:02.00]b2")
	require.NoError(t, err)

	var texts []string
	for i := range doc.Lines {
		texts = append(texts, doc.Lines[i].Text())
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, texts)
}

func TestParse_UntimedLinesFollowClock(t *testing.T) {
	doc, err := Parse("intro\n[00:05.00]timed\nafter\n[00:02.00]early")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 4)

	// "intro" finishes at clock 0, "after" at the clock left by "timed"
	assert.Equal(t, "intro", doc.Lines[0].Text())
	assert.Nil(t, doc.Lines[0].Start)
	assert.Equal(t, "early", doc.Lines[1].Text())
	assert.Equal(t, "timed", doc.Lines[2].Text())
	assert.Equal(t, "after", doc.Lines[3].Text())
	assert.Nil(t, doc.Lines[3].Start)
	assert.Equal(t, 5*time.Second, doc.Lines[3].Order)
}

func TestParse_AbsoluteTimestamps(t *testing.T) {
	tests := []struct {
		tag  string
		want time.Duration
	}{
		{"00:01", time.Second},
		{"1:02.5", time.Minute + ms(2500)},
		{"01:02.345", time.Minute + ms(2345)},
		{"62.345", ms(62345)},
		{"7", 7 * time.Second},
		{"00:00.000000001", 1},
		{"10:00.1234567891", 10*time.Minute + 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			doc, err := Parse("[" + tt.tag + "]x")
			require.NoError(t, err)
			require.Len(t, doc.Lines, 1)
			assert.Equal(t, tt.want, startOf(t, doc.Lines[0].Start))

			tag := doc.Lines[0].Spans[0].Tag
			require.NotNil(t, tag)
			assert.True(t, tag.Resolved)
			assert.Nil(t, tag.Beat)
		})
	}
}

func TestParse_AbsoluteTimestampOutOfRange(t *testing.T) {
	// The largest time that still fits
	doc, err := Parse("[153722867:15.999]x")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, 153722867*time.Minute+ms(15999), startOf(t, doc.Lines[0].Start))

	// Anything larger is not a timestamp
	for _, src := range []string{
		"[200000000:00.00]x",
		"[153722867:16]x",
		"[99999999999999999999]x",
	} {
		t.Run(src, func(t *testing.T) {
			doc, err := Parse(src)
			require.NoError(t, err)
			require.Len(t, doc.Lines, 1)
			require.True(t, doc.Lines[0].IsRaw())
			assert.Equal(t, src, *doc.Lines[0].Raw)
			assert.Nil(t, doc.Lines[0].Start)
		})
	}

	doc, err = Parse("[00:01.00]a [200000000:00]b")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "a [200000000:00]b", doc.Lines[0].Text())
}

func TestParse_OffsetOutOfRange(t *testing.T) {
	doc, err := Parse("[offset:9e300]\n[00:01.00]a\n[offset:NaN]\n[00:02.00]b")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	// Unusable offsets are ignored
	assert.Equal(t, time.Second, startOf(t, doc.Lines[0].Start))
	assert.Equal(t, 2*time.Second, startOf(t, doc.Lines[1].Start))

	doc, err = Parse("[offset:9223372036000]\n[153722867:00]a")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	// The shifted time would not fit, so the tag is not a timestamp
	assert.True(t, doc.Lines[0].IsRaw())
}

func TestParse_Offset(t *testing.T) {
	doc, err := Parse("[offset:500]\n[00:01.00]a\n[offset:-2000]\n[00:01.50]b\n[00:05.00]c")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 3)

	// Negative results clamp to zero
	assert.Equal(t, "b", doc.Lines[0].Text())
	assert.Equal(t, time.Duration(0), startOf(t, doc.Lines[0].Start))
	assert.Equal(t, ms(1500), startOf(t, doc.Lines[1].Start))
	assert.Equal(t, 3*time.Second, startOf(t, doc.Lines[2].Start))
}

func TestParse_BeatTimestamps(t *testing.T) {
	doc, err := Parse("[bpm:120]\n[00:10.00]a[b]b[b1/2]c[b3]d\n[b2]e")
	require.NoError(t, err)
	require.NotNil(t, doc.BPM)
	assert.InDelta(t, 120.0, *doc.BPM, 1e-9)
	require.Len(t, doc.Lines, 2)

	spans := doc.Lines[0].Spans
	require.Len(t, spans, 4)
	// One beat at 120bpm is 500ms, relative to the running time of the line
	assert.Equal(t, 10*time.Second, startOf(t, spans[0].Start))
	assert.Equal(t, ms(10500), startOf(t, spans[1].Start))
	assert.Equal(t, ms(10750), startOf(t, spans[2].Start))
	assert.Equal(t, ms(12250), startOf(t, spans[3].Start))

	assert.Equal(t, &Beat{Count: 1, Divisor: 1}, spans[1].Tag.Beat)
	assert.Equal(t, &Beat{Count: 1, Divisor: 2}, spans[2].Tag.Beat)
	assert.Equal(t, &Beat{Count: 3, Divisor: 1}, spans[3].Tag.Beat)

	// A line opening with a beat tag counts from the document clock
	assert.Equal(t, ms(13250), startOf(t, doc.Lines[1].Start))
}

func TestParse_BPMFirstDeclarationWins(t *testing.T) {
	doc, err := Parse("[bpm:60]\n[bpm:240]\n[00:00.00]a[b]b")
	require.NoError(t, err)
	require.NotNil(t, doc.BPM)
	assert.InDelta(t, 60.0, *doc.BPM, 1e-9)
	assert.Equal(t, time.Second, startOf(t, doc.Lines[0].Spans[1].Start))
}

func TestParse_InvalidMetadataIgnored(t *testing.T) {
	doc, err := Parse("[bpm:fast]\n[bpm:-3]\n[offset:soon]\n[lang:!!]\n[00:01.00]a")
	require.NoError(t, err)
	assert.Nil(t, doc.BPM)
	assert.Empty(t, doc.Lang)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, time.Second, startOf(t, doc.Lines[0].Start))
}

func TestParse_BeatWithoutBPM(t *testing.T) {
	_, err := Parse("[00:01.00]a\n[b1/2]b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBPM))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 2, pe.Col)
}

func TestParse_Ruby(t *testing.T) {
	doc, err := Parse("[00:01.00][漢字]{かんじ}です[00:02.00][東京]{とうきょう}")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	spans := doc.Lines[0].Spans
	require.Len(t, spans, 3)

	assert.Equal(t, "漢字", spans[0].Text)
	require.NotNil(t, spans[0].Ruby)
	assert.Equal(t, "かんじ", *spans[0].Ruby)
	assert.Equal(t, time.Second, startOf(t, spans[0].Start))
	require.NotNil(t, spans[0].Tag)

	assert.Equal(t, "です", spans[1].Text)
	assert.Nil(t, spans[1].Ruby)
	assert.Nil(t, spans[1].Tag)
	assert.Equal(t, time.Second, startOf(t, spans[1].Start))

	assert.Equal(t, "東京", spans[2].Text)
	assert.Equal(t, "とうきょう", *spans[2].Ruby)
	assert.Equal(t, 2*time.Second, startOf(t, spans[2].Start))

	assert.Equal(t, "漢字です東京", doc.Lines[0].Text())
}

func TestParse_DuplicateLeadingTimestamps(t *testing.T) {
	doc, err := Parse("[00:30.00][01:30.00][02:30.00]Chorus [00:31.00]line\n/Translation")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 3)

	for i, want := range []time.Duration{30 * time.Second, 90 * time.Second, 150 * time.Second} {
		line := doc.Lines[i]
		assert.Equal(t, want, startOf(t, line.Start), "line %d", i)
		assert.Equal(t, "Chorus line", line.Text())
		require.NotNil(t, line.Translation)
		assert.Equal(t, "Translation", *line.Translation)

		// Span times keep their distance from the line start
		require.Len(t, line.Spans, 2)
		assert.Equal(t, want, startOf(t, line.Spans[0].Start))
		assert.Equal(t, want+time.Second, startOf(t, line.Spans[1].Start))
		assert.Equal(t, want+time.Second, line.Spans[1].Tag.Time)
	}

	// Copies do not share state
	*doc.Lines[1].Translation = "changed"
	assert.Equal(t, "Translation", *doc.Lines[0].Translation)
	assert.NotSame(t, doc.Lines[0].Spans[1].Tag, doc.Lines[1].Spans[1].Tag)
}

func TestParse_DuplicateEmptyTag(t *testing.T) {
	doc, err := Parse("[00:10.00][]again")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	assert.Equal(t, 10*time.Second, startOf(t, doc.Lines[0].Start))
	// The unresolved copy is untimed and sorted by the original order
	assert.Nil(t, doc.Lines[1].Start)
	assert.Equal(t, 10*time.Second, doc.Lines[1].Order)
	assert.Nil(t, doc.Lines[1].Spans[0].Start)
	assert.Equal(t, "again", doc.Lines[1].Text())
}

func TestParse_EmptyTag(t *testing.T) {
	doc, err := Parse("[00:01.00]a[]b")
	require.NoError(t, err)
	spans := doc.Lines[0].Spans
	require.Len(t, spans, 2)

	require.NotNil(t, spans[1].Tag)
	assert.False(t, spans[1].Tag.Resolved)
	// Unresolved tags keep the running time
	assert.Equal(t, time.Second, startOf(t, spans[1].Start))
}

func TestParse_TagWithoutText(t *testing.T) {
	doc, err := Parse("[00:01.00]a[00:02.00]\n[00:03.00]")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	// A trailing tag becomes an empty span
	spans := doc.Lines[0].Spans
	require.Len(t, spans, 2)
	assert.Empty(t, spans[1].Text)
	assert.Equal(t, 2*time.Second, startOf(t, spans[1].Start))

	assert.Equal(t, 3*time.Second, startOf(t, doc.Lines[1].Start))
	require.Len(t, doc.Lines[1].Spans, 1)
	assert.Empty(t, doc.Lines[1].Text())
}

func TestParse_UnknownTagAtLineStart(t *testing.T) {
	src := "[ar:Artist]\r\n[00:01.00]a\n[ti:Title] more [text\n[00:02.00]b"
	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Lines, 4)

	require.True(t, doc.Lines[0].IsRaw())
	assert.Equal(t, "[ar:Artist]", *doc.Lines[0].Raw)
	assert.Nil(t, doc.Lines[0].Start)
	assert.Empty(t, doc.Lines[0].Spans)

	assert.Equal(t, "a", doc.Lines[1].Text())

	// Raw lines are ordered at the clock when they were read
	require.True(t, doc.Lines[2].IsRaw())
	assert.Equal(t, "[ti:Title] more [text", *doc.Lines[2].Raw)
	assert.Equal(t, time.Second, doc.Lines[2].Order)

	assert.Equal(t, "b", doc.Lines[3].Text())
}

func TestParse_UnknownTagMidLine(t *testing.T) {
	doc, err := Parse("[00:01.00]Hello [world] and [more")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.False(t, doc.Lines[0].IsRaw())
	assert.Equal(t, "Hello [world] and [more]", doc.Lines[0].Text())
}

func TestParse_Translation(t *testing.T) {
	doc, err := Parse("[lang:ja/en]\n[00:01.00]こんにちは\n/Hello\n/not a translation\n[00:02.00]b")
	require.NoError(t, err)
	assert.Equal(t, "ja", doc.Lang)
	assert.Equal(t, "en", doc.TranslationLang)

	require.Len(t, doc.Lines, 3)
	require.NotNil(t, doc.Lines[0].Translation)
	assert.Equal(t, "Hello", *doc.Lines[0].Translation)

	// Only the line right after a lyric line is a translation
	assert.Equal(t, "/not a translation", doc.Lines[1].Text())
	assert.Nil(t, doc.Lines[1].Translation)
	assert.True(t, doc.HasTranslation())
}

func TestParse_TranslationNeedsSpans(t *testing.T) {
	doc, err := Parse("[lang:en]\n/orphan")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "/orphan", doc.Lines[0].Text())
	assert.Nil(t, doc.Lines[0].Translation)
}

func TestParse_StrayDelimiter(t *testing.T) {
	doc, err := Parse("[00:01.00]keep } dropped [x]\n[00:02.00]next")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "keep ", doc.Lines[0].Text())
	assert.Equal(t, "next", doc.Lines[1].Text())
}

func TestParse_MetadataOnlyLinesDropped(t *testing.T) {
	doc, err := Parse("\n\n[lang:en]\n\n[bpm:90]\n")
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
	assert.Equal(t, "en", doc.Lang)
	assert.False(t, doc.IsSynced())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		col     int
		message string
	}{
		{"unclosed timestamp", "x\n[00:01", 2, 7, "expected tag close, got end of input"},
		{"bracket at end", "[", 1, 2, "expected tag text, got end of input"},
		{"empty ruby", "[a]{}", 1, 5, "expected ruby text, got brace close"},
		{"unclosed ruby", "[a]{b\nc", 1, 6, "expected brace close, got line break"},
		{"tag open then close brace", "[}", 1, 2, "expected tag text, got brace close"},
		{"unclosed bpm", "[bpm:120\n", 1, 9, "expected tag close, got line break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, IsParseError(err))
			assert.True(t, errors.Is(err, ErrUnexpectedToken))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.col, pe.Col)
			assert.Equal(t, tt.message, pe.Msg)
		})
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("[00:01.00]a"))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
}

func TestParse_IndependentDocuments(t *testing.T) {
	src := "[bpm:100]\n[offset:10]\n[00:01.00]a"
	a, err := Parse(src)
	require.NoError(t, err)
	b, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, a.BPM, b.BPM)
}
