package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/riverfjs/regexhl-go/internal/types"
)

// Terminal 用 ANSI 前景色渲染捕获片段
type Terminal struct {
	Palette Palette
	// Multiline 为 false 时换行符输出为 \n 转义，结果保持单行
	Multiline bool

	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// NewTerminal creates a renderer whose colour profile is detected from w.
func NewTerminal(w io.Writer, p Palette) *Terminal {
	return &Terminal{
		Palette:  p,
		renderer: lipgloss.NewRenderer(w),
		styles:   make(map[string]lipgloss.Style),
	}
}

// SetColorProfile overrides the detected profile; termenv.Ascii disables colour.
func (t *Terminal) SetColorProfile(p termenv.Profile) {
	t.renderer.SetColorProfile(p)
}

// Render returns text with every tagged segment coloured by its group.
func (t *Terminal) Render(text string, segs []types.Segment) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, s := range segs {
		part := text[s.Range.Start:s.Range.End]
		if !t.Multiline {
			part = strings.ReplaceAll(part, "\n", `\n`)
		}
		if !s.Tagged() {
			b.WriteString(part)
			continue
		}
		style := t.style(s.Group)
		// lipgloss pads multi-line blocks to a rectangle, so style line by line.
		for i, line := range strings.Split(part, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

func (t *Terminal) style(group int) lipgloss.Style {
	hex := t.Palette.Hex(group)
	if st, ok := t.styles[hex]; ok {
		return st
	}
	st := t.renderer.NewStyle().
		Foreground(lipgloss.Color(hex)).
		TabWidth(lipgloss.NoTabConversion)
	t.styles[hex] = st
	return st
}
