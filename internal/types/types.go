package types

import (
	"errors"
	"fmt"
)

// NoGroup 表示未被任何捕获组覆盖的片段
const NoGroup = -1

var (
	// ErrMalformedNesting: 输入区间不构成合法的区间森林（交叉或越过上一个匹配）。
	ErrMalformedNesting = errors.New("malformed nesting")
	// ErrInvalidRange: 捕获记录的区间无效（负数、start > end 或超出文本长度）。
	ErrInvalidRange = errors.New("invalid range")
)

// Range 半开字节区间 [Start, End)
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether r covers no bytes.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// InputCapture 一个匹配（occurrence）中一个捕获组的字节区间
//
// Group 在每个 occurrence 内从 0 重新编号，0 为整个匹配。
type InputCapture struct {
	Occurrence int   `json:"occurrence"`
	Group      int   `json:"group"`
	Range      Range `json:"range"`
}

// NewInputCapture 构造并校验一条捕获记录
func NewInputCapture(occurrence, group, start, end, textLen int) (InputCapture, error) {
	c := InputCapture{
		Occurrence: occurrence,
		Group:      group,
		Range:      Range{Start: start, End: end},
	}
	if err := c.Validate(textLen); err != nil {
		return InputCapture{}, err
	}
	return c, nil
}

// Validate checks that c fits inside a text of textLen bytes.
func (c InputCapture) Validate(textLen int) error {
	switch {
	case c.Occurrence < 0 || c.Group < 0:
		return fmt.Errorf("%w: occurrence %d group %d: negative index", ErrInvalidRange, c.Occurrence, c.Group)
	case c.Range.Start < 0 || c.Range.Start > c.Range.End:
		return fmt.Errorf("%w: occurrence %d group %d: %v", ErrInvalidRange, c.Occurrence, c.Group, c.Range)
	case c.Range.End > textLen:
		return fmt.Errorf("%w: occurrence %d group %d: %v exceeds text length %d", ErrInvalidRange, c.Occurrence, c.Group, c.Range, textLen)
	}
	return nil
}

// Segment 扁平化输出的一个片段
//
// Group 为覆盖该片段的最内层捕获组的局部编号，未覆盖时为 NoGroup。
// Occurrence 标识该组所属的匹配，未覆盖时同样为 NoGroup。
type Segment struct {
	Occurrence int   `json:"occurrence"`
	Group      int   `json:"group"`
	Range      Range `json:"range"`
}

// Untagged returns a segment not covered by any capture.
func Untagged(start, end int) Segment {
	return Segment{Occurrence: NoGroup, Group: NoGroup, Range: Range{Start: start, End: end}}
}

// Tagged reports whether the segment is covered by a capture group.
func (s Segment) Tagged() bool {
	return s.Group != NoGroup
}

func (s Segment) String() string {
	if !s.Tagged() {
		return s.Range.String() + "None"
	}
	return fmt.Sprintf("%vg%d", s.Range, s.Group)
}

// NestingError 描述扫描过程中发现的嵌套违例
type NestingError struct {
	Occurrence int
	Group      int
	// Open 为当时栈顶的组，栈为空时为 NoGroup
	Open   int
	Pos    int
	Reason string
}

func (e *NestingError) Error() string {
	if e.Open == NoGroup {
		return fmt.Sprintf("malformed nesting at %d: occurrence %d group %d: %s", e.Pos, e.Occurrence, e.Group, e.Reason)
	}
	return fmt.Sprintf("malformed nesting at %d: occurrence %d group %d, open group %d: %s", e.Pos, e.Occurrence, e.Group, e.Open, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedNesting) true.
func (e *NestingError) Is(target error) bool {
	return target == ErrMalformedNesting
}
