package regexhl

import "sync"

// Snapshot 测试器某一时刻的状态
type Snapshot struct {
	// Generation 每次修改正则或文本加一
	Generation uint64
	Pattern    string
	Text       string
	// PatternErr 正则编译错误；为空正则时为 nil 且 Result 为 nil
	PatternErr error
	Result     *Result
}

// Segments returns the segments to paint: the highlight result, or the
// whole text unstyled when there is no usable pattern.
func (s Snapshot) Segments() []Segment {
	if s.Result == nil {
		return Plain(len(s.Text))
	}
	return s.Result.Segments
}

// Tester holds the state of an interactive session: the current pattern,
// the current text and the latest highlight. It is safe for concurrent
// use. Work for an update runs outside the lock; when a newer update was
// made in the meantime the older result is discarded.
type Tester struct {
	opts []Option

	mu         sync.Mutex
	gen        uint64
	pattern    string
	text       string
	src        Source
	srcPattern string
	snap       Snapshot

	// beforeStore 仅供测试：在结果写回之前调用
	beforeStore func()
}

// NewTester creates a Tester with an empty pattern and text.
func NewTester(opts ...Option) *Tester {
	return &Tester{opts: opts}
}

// SetPattern replaces the pattern and recomputes the highlight. It
// reports whether its result became the current snapshot.
func (t *Tester) SetPattern(pattern string) bool {
	return t.update(func() { t.pattern = pattern })
}

// SetText replaces the text and recomputes the highlight.
func (t *Tester) SetText(text string) bool {
	return t.update(func() { t.text = text })
}

// Snapshot returns the latest stored state.
func (t *Tester) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

func (t *Tester) update(mutate func()) bool {
	t.mu.Lock()
	mutate()
	t.gen++
	gen, pattern, text := t.gen, t.pattern, t.text
	src := t.src
	if t.srcPattern != pattern {
		src = nil
	}
	t.mu.Unlock()

	snap := Snapshot{Generation: gen, Pattern: pattern, Text: text}
	if pattern != "" {
		if src == nil {
			src, snap.PatternErr = Compile(pattern, t.opts...)
		}
		if snap.PatternErr == nil {
			snap.Result = HighlightSource(src, text)
		}
	}

	if t.beforeStore != nil {
		t.beforeStore()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.snap = snap
	if snap.PatternErr == nil {
		t.src, t.srcPattern = src, pattern
	}
	return true
}
