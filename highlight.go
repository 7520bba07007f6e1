package regexhl

import (
	"github.com/riverfjs/regexhl-go/internal/flatten"
	"github.com/riverfjs/regexhl-go/internal/match"
)

// Result 一次高亮的结果
type Result struct {
	Text     string
	Pattern  string
	Records  []InputCapture
	Segments []Segment
	// Err 为匹配或扁平化失败的原因；此时 Segments 退回为未着色的整段文本
	Err error
}

// Fallback reports whether the result is unhighlighted because of Err.
func (r *Result) Fallback() bool {
	return r.Err != nil
}

// Highlight compiles pattern and flattens its captures over text.
//
// Only an invalid pattern is returned as an error. A failure while
// matching or flattening leaves the text unhighlighted, see Result.Err.
func Highlight(pattern, text string, opts ...Option) (*Result, error) {
	src, err := Compile(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return HighlightSource(src, text), nil
}

// HighlightSource runs an already compiled source over text.
func HighlightSource(src Source, text string) *Result {
	res := &Result{Text: text, Pattern: src.String()}
	records, err := match.Collect(src, text)
	if err == nil {
		res.Records = records
		res.Segments, err = flatten.Flatten(records, len(text))
	}
	if err != nil {
		Logger.Printf("highlight %q: %v", res.Pattern, err)
		res.Err = err
		res.Segments = Plain(len(text))
	}
	return res
}
