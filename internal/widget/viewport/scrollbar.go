package viewport

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// gutter draws a one-column scrollbar beside the viewport.
type gutter struct {
	thumb, track           string
	thumbStyle, trackStyle lipgloss.Style
}

func newGutter(options map[string]any) gutter {
	g := gutter{
		thumb:      "┃",
		track:      "│",
		thumbStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("57")),
		trackStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	if s, ok := options["scrollbarThumb"].(string); ok && s != "" {
		g.thumb = s
	}
	if s, ok := options["scrollbarTrack"].(string); ok && s != "" {
		g.track = s
	}
	return g
}

// thumbSpan returns the first row and the row count of the thumb for a
// window of height rows at offset over total lines. Content that fits
// yields a full-height thumb.
func thumbSpan(total, height, offset int) (top, size int) {
	if height <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, height
	}
	size = max(1, min(height, height*height/total))
	maxOffset := total - height
	offset = max(0, min(offset, maxOffset))
	if free := height - size; free > 0 {
		top = offset * free / maxOffset
	}
	return top, size
}

// render returns exactly height rows.
func (g gutter) render(total, height, offset int) string {
	top, size := thumbSpan(total, height, offset)
	rows := make([]string, height)
	for i := range rows {
		if i >= top && i < top+size {
			rows[i] = g.thumbStyle.Render(g.thumb)
		} else {
			rows[i] = g.trackStyle.Render(g.track)
		}
	}
	return strings.Join(rows, "\n")
}
