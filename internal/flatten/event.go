package flatten

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/riverfjs/regexhl-go/internal/types"
)

type eventKind uint8

const (
	kindOpen eventKind = iota
	kindClose
)

func (k eventKind) String() string {
	if k == kindOpen {
		return "Open"
	}
	return "Close"
}

// event 一个捕获区间的端点
//
// empty 标记零长度记录：它的 Open/Close 总是相邻处理，不影响其他组的栈顺序。
type event struct {
	occurrence int
	group      int
	pos        int
	kind       eventKind
	empty      bool
}

func (e event) String() string {
	return fmt.Sprintf("%s(occ%d,g%d)@%d", e.kind, e.occurrence, e.group, e.pos)
}

// 同一 occurrence、同一位置上的事件分类：
// 先关闭在此结束的非空组，再处理零长度组，最后打开在此开始的非空组。
const (
	classClose = iota
	classEmpty
	classOpen
)

func (e event) class() int {
	switch {
	case e.empty:
		return classEmpty
	case e.kind == kindClose:
		return classClose
	default:
		return classOpen
	}
}

// compareEvents orders events by occurrence, then position, then class.
// Closes run innermost first (group descending), opens outermost first
// (group ascending). Zero-length records are ordered by group with their
// Open immediately followed by their Close.
func compareEvents(a, b event) int {
	if c := cmp.Compare(a.occurrence, b.occurrence); c != 0 {
		return c
	}
	if c := cmp.Compare(a.pos, b.pos); c != 0 {
		return c
	}
	ca, cb := a.class(), b.class()
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch ca {
	case classClose:
		return cmp.Compare(b.group, a.group)
	case classEmpty:
		if c := cmp.Compare(a.group, b.group); c != 0 {
			return c
		}
		return cmp.Compare(a.kind, b.kind)
	default:
		return cmp.Compare(a.group, b.group)
	}
}

// buildEvents 为每条记录生成一个 Open 和一个 Close 事件并排序
func buildEvents(records []types.InputCapture) []event {
	events := make([]event, 0, 2*len(records))
	for _, r := range records {
		empty := r.Range.Empty()
		events = append(events,
			event{occurrence: r.Occurrence, group: r.Group, pos: r.Range.Start, kind: kindOpen, empty: empty},
			event{occurrence: r.Occurrence, group: r.Group, pos: r.Range.End, kind: kindClose, empty: empty},
		)
	}
	slices.SortFunc(events, compareEvents)
	return events
}
