// Package match runs a regular expression over a text and turns its
// occurrences into capture records.
package match

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/riverfjs/regexhl-go/internal/types"
)

// Engine 正则引擎名称
type Engine string

const (
	// EngineRE2 uses the standard library (linear time, no backreferences).
	EngineRE2 Engine = "re2"
	// EngineRegexp2 uses a backtracking engine with lookaround and backreferences.
	EngineRegexp2 Engine = "regexp2"
)

var (
	// ErrEmptyPattern: 空正则不做匹配
	ErrEmptyPattern  = errors.New("empty pattern")
	ErrUnknownEngine = errors.New("unknown regex engine")
)

// Source 产生匹配结果的正则
//
// Submatches 返回每个 occurrence 的扁平字节偏移 [s0,e0,s1,e1,...]，
// 未参与匹配的组为 -1。occurrence 从左到右、互不重叠。
type Source interface {
	Submatches(text string) ([][]int, error)
	NumGroups() int
	String() string
}

// Options 编译选项
type Options struct {
	// Limit 最多收集的 occurrence 数，0 表示不限
	Limit int
	// Timeout 单次匹配超时，仅 regexp2 生效
	Timeout time.Duration
}

// Compile builds a Source for pattern on the given engine.
func Compile(engine Engine, pattern string, opts Options) (Source, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	switch engine {
	case EngineRE2, "":
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return &re2Source{re: re, limit: opts.Limit}, nil
	case EngineRegexp2:
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return nil, err
		}
		if opts.Timeout > 0 {
			re.MatchTimeout = opts.Timeout
		}
		return &regexp2Source{re: re, limit: opts.Limit}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// Collect runs src over text to exhaustion and returns one record per
// matched group. Unmatched groups are omitted.
func Collect(src Source, text string) ([]types.InputCapture, error) {
	matches, err := src.Submatches(text)
	if err != nil {
		return nil, err
	}
	records := make([]types.InputCapture, 0, len(matches)*src.NumGroups())
	for occ, locs := range matches {
		for g := 0; 2*g+1 < len(locs); g++ {
			start, end := locs[2*g], locs[2*g+1]
			if start < 0 {
				continue
			}
			c, err := types.NewInputCapture(occ, g, start, end, len(text))
			if err != nil {
				return nil, fmt.Errorf("collect: %w", err)
			}
			records = append(records, c)
		}
	}
	return records, nil
}

type re2Source struct {
	re    *regexp.Regexp
	limit int
}

func (s *re2Source) Submatches(text string) ([][]int, error) {
	n := -1
	if s.limit > 0 {
		n = s.limit
	}
	return s.re.FindAllStringSubmatchIndex(text, n), nil
}

func (s *re2Source) NumGroups() int {
	return s.re.NumSubexp() + 1
}

func (s *re2Source) String() string {
	return s.re.String()
}

type regexp2Source struct {
	re    *regexp2.Regexp
	limit int
}

// regexp2 以 rune 为单位报告位置，这里换算回字节偏移
func (s *regexp2Source) Submatches(text string) ([][]int, error) {
	offsets := runeOffsets(text)
	var out [][]int
	m, err := s.re.FindStringMatch(text)
	for err == nil && m != nil {
		groups := m.Groups()
		locs := make([]int, 2*len(groups))
		for i, g := range groups {
			if len(g.Captures) == 0 {
				locs[2*i], locs[2*i+1] = -1, -1
				continue
			}
			locs[2*i] = offsets[g.Index]
			locs[2*i+1] = offsets[g.Index+g.Length]
		}
		out = append(out, locs)
		if s.limit > 0 && len(out) >= s.limit {
			break
		}
		m, err = s.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *regexp2Source) NumGroups() int {
	return len(s.re.GetGroupNumbers())
}

func (s *regexp2Source) String() string {
	return s.re.String()
}

// runeOffsets maps rune index i to its byte offset; the extra last entry
// is len(text). Invalid bytes count as one rune each, as in []rune(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
