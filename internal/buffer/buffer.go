package buffer

import (
	"image/color"
	"strings"
)

// Run 一段同色文本
type Run struct {
	Text  string
	Color color.Color
}

// Lines accumulates coloured text and lays it out as lines of runs.
// Text is split on '\n', tabs are expanded and lines wrap at Columns.
type Lines struct {
	columns  int
	tabWidth int
	lines    [][]Run
	col      int
	width    int
}

// New creates a layout buffer. columns <= 0 disables wrapping.
func New(columns, tabWidth int) *Lines {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	return &Lines{
		columns:  columns,
		tabWidth: tabWidth,
		lines:    make([][]Run, 1),
	}
}

// Write appends text drawn in c.
func (b *Lines) Write(text string, c color.Color) {
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		last := len(b.lines) - 1
		b.lines[last] = append(b.lines[last], Run{Text: run.String(), Color: c})
		run.Reset()
	}
	put := func(r rune) {
		if b.columns > 0 && b.col >= b.columns {
			flush()
			b.newline()
		}
		run.WriteRune(r)
		b.col++
		if b.col > b.width {
			b.width = b.col
		}
	}

	for _, r := range text {
		switch r {
		case '\n':
			flush()
			b.newline()
		case '\r':
		case '\t':
			for n := b.tabWidth - b.col%b.tabWidth; n > 0; n-- {
				put(' ')
			}
		default:
			put(r)
		}
	}
	flush()
}

func (b *Lines) newline() {
	b.lines = append(b.lines, nil)
	b.col = 0
}

// Lines returns the laid out lines. There is always at least one.
func (b *Lines) Lines() [][]Run {
	return b.lines
}

// Width returns the widest line in columns.
func (b *Lines) Width() int {
	return b.width
}

// Reset clears the buffer.
func (b *Lines) Reset() {
	b.lines = b.lines[:1]
	b.lines[0] = nil
	b.col = 0
	b.width = 0
}
