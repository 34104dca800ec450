// Package popup renders bordered, centered boxes.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/lyricsync/internal/ui/styles"
)

// Chrome is the space RenderBordered adds around content: a border and a
// padding of one row and two columns on each side.
const (
	ChromeWidth  = 6
	ChromeHeight = 4
)

// SizeConfig defines how a box should be sized.
type SizeConfig struct {
	WidthPct  int // Percentage of screen width (0 = auto-fit)
	HeightPct int // Percentage of screen height (0 = auto-fit)
	MaxWidth  int // Maximum width in columns (0 = no limit)
}

// Common size configurations.
var (
	SizeLarge = SizeConfig{WidthPct: 80, HeightPct: 70} // Lyrics
	SizeAuto  = SizeConfig{}                            // Messages
)

// ContentSize returns the space left for content inside a box of the given
// size, or zero for auto-fit sizes.
func ContentSize(screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct == 0 {
		return 0, 0
	}
	w, h := calculateDimensions("", screenW, screenH, size)
	return max(w-ChromeWidth, 0), max(h-ChromeHeight, 0)
}

// RenderBordered wraps content in a rounded border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := calculateDimensions(content, screenW, screenH, size)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border).
		Width(width-2). // Account for border
		Height(height-2).
		Padding(1, 2)

	box := boxStyle.Render(content)
	return Center(box, screenW, screenH)
}

// Center centers pre-rendered content in the screen. Every line, including
// the last, ends with a newline.
func Center(content string, screenW, screenH int) string {
	lines := strings.Split(content, "\n")
	boxWidth := maxLineWidth(content)

	padTop := max((screenH-len(lines))/2, 0)
	padLeft := max((screenW-boxWidth)/2, 0)

	var result strings.Builder
	for range padTop {
		result.WriteString(strings.Repeat(" ", screenW) + "\n")
	}
	for _, line := range lines {
		result.WriteString(strings.Repeat(" ", padLeft))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

func maxLineWidth(s string) int {
	maxW := 0
	for line := range strings.SplitSeq(s, "\n") {
		maxW = max(maxW, lipgloss.Width(line))
	}
	return maxW
}

func calculateDimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		w := screenW * size.WidthPct / 100
		h := screenH * size.HeightPct / 100
		if size.MaxWidth > 0 {
			w = min(w, size.MaxWidth)
		}
		return w, h
	}
	// Auto-fit: calculate from content
	contentWidth := maxLineWidth(content) + ChromeWidth
	if size.MaxWidth > 0 {
		contentWidth = min(contentWidth, size.MaxWidth)
	}
	contentWidth = min(contentWidth, screenW-4)

	contentHeight := strings.Count(content, "\n") + 1 + ChromeHeight
	contentHeight = min(contentHeight, screenH-4)

	return contentWidth, contentHeight
}
