//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpLyricsParse,
			err:      nil,
			expected: "",
		},
		{
			name:     "parse error",
			op:       OpLyricsParse,
			err:      errors.New("line 3, col 7: expected tag close, got end of input"),
			expected: "Failed to parse lyrics: line 3, col 7: expected tag close, got end of input",
		},
		{
			name:     "fetch operation",
			op:       OpLyricsFetch,
			err:      errors.New("network error"),
			expected: "Failed to fetch lyrics: network error",
		},
		{
			name:     "cache operation",
			op:       OpCacheOpen,
			err:      errors.New("disk full"),
			expected: "Failed to open lyrics cache: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpLyricsLoad,
			context:  "song.lrc",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpLyricsLoad,
			context:  "song.lrc",
			err:      errors.New("permission denied"),
			expected: "Failed to load lyrics file 'song.lrc': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpLyricsWrite,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to write lyrics file: permission denied",
		},
		{
			name:     "tags with filename context",
			op:       OpTagsRead,
			context:  "album.flac",
			err:      errors.New("unsupported format"),
			expected: "Failed to read file tags 'album.flac': unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpLyricsParse, OpLyricsLoad, OpLyricsWrite, OpLyricsFetch, OpLyricsSearch,
		OpCacheOpen, OpCacheSave, OpCacheList, OpCacheDelete, OpCachePrune,
		OpTagsRead, OpTagsWrite,
		OpConfigLoad, OpPlayerRun,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
