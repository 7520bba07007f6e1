package regexhl

import (
	"unicode/utf8"

	"github.com/riverfjs/regexhl-go/internal/types"
)

// Span 以 UTF-16 code unit 度量的片段，供 JavaScript 等前端使用
type Span struct {
	Occurrence int    `json:"occurrence"`
	Group      int    `json:"group"`
	Offset     int    `json:"offset"`
	Length     int    `json:"length"`
	Color      string `json:"color,omitempty"`
}

// Tagged reports whether the span is covered by a capture group.
func (s Span) Tagged() bool {
	return s.Group != types.NoGroup
}

// UTF16Len returns the length of text measured in UTF-16 code units.
//
// Characters outside the BMP (codepoint > 0xFFFF) take 2 UTF-16 code
// units (a surrogate pair); all others, including invalid bytes decoded
// as U+FFFD, take 1.
func UTF16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// buildUTF16OffsetTable builds a cumulative UTF-16 offset table for each byte position.
// Returns a slice where result[i] is the UTF-16 offset at byte position i.
// Bytes inside a multi-byte character map to the offset of that character.
func buildUTF16OffsetTable(text string) []int {
	offsets := make([]int, len(text)+1)
	cum := 0
	for bytePos := 0; bytePos < len(text); {
		r, size := utf8.DecodeRuneInString(text[bytePos:])
		for i := 0; i < size; i++ {
			offsets[bytePos+i] = cum
		}
		if r > 0xFFFF {
			cum += 2
		} else {
			cum++
		}
		bytePos += size
	}
	offsets[len(text)] = cum
	return offsets
}

// UTF16Spans converts byte segments of text into UTF-16 spans. Tagged
// spans carry their group colour from config; nil means DefaultConfig.
func UTF16Spans(text string, segs []Segment, config *RenderConfig) []Span {
	if config == nil {
		config = DefaultConfig()
	}
	palette := config.palette()
	offsets := buildUTF16OffsetTable(text)
	spans := make([]Span, 0, len(segs))
	for _, s := range segs {
		start, end := offsets[s.Range.Start], offsets[s.Range.End]
		span := Span{
			Occurrence: s.Occurrence,
			Group:      s.Group,
			Offset:     start,
			Length:     end - start,
		}
		if s.Tagged() {
			span.Color = palette.Hex(s.Group)
		}
		spans = append(spans, span)
	}
	return spans
}
