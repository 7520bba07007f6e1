// Package regexhl 正则表达式测试器的核心：把捕获组区间扁平化为着色片段
//
// 一次匹配（occurrence）会产生若干嵌套的捕获组区间。本包把所有
// occurrence 的区间合并为覆盖整段文本、互不重叠的片段序列，每个片段
// 标记覆盖它的最内层捕获组，供渲染器按组号着色。
//
// 核心功能：
//   - 扫描线扁平化，校验区间嵌套（交叉区间报告 ErrMalformedNesting）
//   - 两种正则引擎：标准库 RE2 与 regexp2（支持环视、反向引用）
//   - 终端 ANSI 着色与 PNG 渲染
//   - 以 Markdown 编写的批量测试会话
//
// 示例：
//
//	res, err := regexhl.Highlight(`(\w+)\s`, "Three words panic")
//	if err != nil {
//	    // 正则无效
//	}
//	for _, seg := range res.Segments {
//	    fmt.Println(seg.Range, seg.Group)
//	}
package regexhl

import (
	"github.com/riverfjs/regexhl-go/internal/flatten"
	"github.com/riverfjs/regexhl-go/internal/match"
	"github.com/riverfjs/regexhl-go/internal/types"
)

// 导出类型别名
type (
	Range        = types.Range
	InputCapture = types.InputCapture
	Segment      = types.Segment
	NestingError = types.NestingError
	Iterator     = flatten.Iterator
	Source       = match.Source
	Engine       = match.Engine
)

const (
	NoGroup       = types.NoGroup
	EngineRE2     = match.EngineRE2
	EngineRegexp2 = match.EngineRegexp2
)

var (
	ErrMalformedNesting = types.ErrMalformedNesting
	ErrInvalidRange     = types.ErrInvalidRange
	ErrEmptyPattern     = match.ErrEmptyPattern
	ErrUnknownEngine    = match.ErrUnknownEngine
)

// NewInputCapture builds a validated capture record.
func NewInputCapture(occurrence, group, start, end, textLen int) (InputCapture, error) {
	return types.NewInputCapture(occurrence, group, start, end, textLen)
}

// Flatten partitions [0, textLen) into segments tagged with the innermost
// capture covering them. On failure it returns no segments.
func Flatten(records []InputCapture, textLen int) ([]Segment, error) {
	return flatten.Flatten(records, textLen)
}

// NewIterator is the lazy form of Flatten.
func NewIterator(records []InputCapture, textLen int) *Iterator {
	return flatten.New(records, textLen)
}

// Collect runs src over text and returns its capture records.
func Collect(src Source, text string) ([]InputCapture, error) {
	return match.Collect(src, text)
}

// Compile compiles pattern with the engine, limit and timeout from opts.
func Compile(pattern string, opts ...Option) (Source, error) {
	options := applyOptions(opts...)
	return compileWith(pattern, options)
}

func compileWith(pattern string, options *HighlightOptions) (Source, error) {
	engine := options.Engine
	if engine == "" {
		engine = Engine(options.Config.Engine)
	}
	limit := options.Limit
	if limit == 0 {
		limit = options.Config.Limit
	}
	return match.Compile(engine, pattern, match.Options{
		Limit:   limit,
		Timeout: options.Config.MatchTimeout,
	})
}

// Plain returns the segmentation of an unhighlighted text.
func Plain(textLen int) []Segment {
	if textLen <= 0 {
		return []Segment{}
	}
	return []Segment{types.Untagged(0, textLen)}
}
