// Package flatten turns nested, per-occurrence capture ranges into one
// ordered partition of the text, each piece tagged with the innermost
// capture group covering it.
package flatten

import (
	"fmt"
	"iter"

	"github.com/riverfjs/regexhl-go/internal/types"
)

// frame 栈中的一个打开组
type frame struct {
	occurrence int
	group      int
}

// Iterator 按顺序惰性产出扁平化片段
//
// 只能向前遍历一次。出错后 Next 返回 false，Err 返回原因，
// 此前产出的片段应整体丢弃。
type Iterator struct {
	events  []event
	next    int
	textLen int
	last    int
	open    stack[frame]

	pending    types.Segment
	hasPending bool

	done bool
	err  error
}

// New prepares a flattening pass over records for a text of textLen bytes.
// Invalid records are reported by the first call to Next.
func New(records []types.InputCapture, textLen int) *Iterator {
	it := &Iterator{textLen: textLen}
	if textLen < 0 {
		it.err = fmt.Errorf("%w: negative text length %d", types.ErrInvalidRange, textLen)
		return it
	}
	for _, r := range records {
		if err := r.Validate(textLen); err != nil {
			it.err = err
			return it
		}
	}
	it.events = buildEvents(records)
	it.open = newStack[frame](len(records))
	return it
}

// Next returns the next segment. Consecutive pieces of the same capture
// record are merged before being returned.
func (it *Iterator) Next() (types.Segment, bool) {
	for {
		piece, ok := it.step()
		if !ok {
			if it.err != nil || !it.hasPending {
				it.hasPending = false
				return types.Segment{}, false
			}
			it.hasPending = false
			return it.pending, true
		}
		if !it.hasPending {
			it.pending, it.hasPending = piece, true
			continue
		}
		if sameRecord(it.pending, piece) {
			it.pending.Range.End = piece.Range.End
			continue
		}
		out := it.pending
		it.pending = piece
		return out, true
	}
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// All adapts the iterator to a range-over-func sequence. A failure is
// yielded last, paired with a zero Segment.
func (it *Iterator) All() iter.Seq2[types.Segment, error] {
	return func(yield func(types.Segment, error) bool) {
		for {
			seg, ok := it.Next()
			if !ok {
				break
			}
			if !yield(seg, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(types.Segment{}, err)
		}
	}
}

// Flatten runs a whole pass eagerly. On failure no segments are returned.
func Flatten(records []types.InputCapture, textLen int) ([]types.Segment, error) {
	it := New(records, textLen)
	segs := make([]types.Segment, 0, 2*len(records)+1)
	for {
		seg, ok := it.Next()
		if !ok {
			break
		}
		segs = append(segs, seg)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}

// step 处理事件直到产生一个非零长度片段
func (it *Iterator) step() (types.Segment, bool) {
	if it.err != nil || it.done {
		return types.Segment{}, false
	}
	for it.next < len(it.events) {
		ev := it.events[it.next]
		it.next++

		top, hasTop := it.open.peek()
		if ev.pos < it.last {
			it.fail(ev, top, hasTop, "boundary precedes the previous one")
			return types.Segment{}, false
		}
		switch ev.kind {
		case kindOpen:
			it.open.push(frame{occurrence: ev.occurrence, group: ev.group})
		case kindClose:
			if !hasTop {
				it.fail(ev, top, hasTop, "close without an open group")
				return types.Segment{}, false
			}
			if top != (frame{occurrence: ev.occurrence, group: ev.group}) {
				it.fail(ev, top, hasTop, "close does not match the innermost open group")
				return types.Segment{}, false
			}
			it.open.pop()
		}

		if ev.pos == it.last {
			continue
		}
		seg := types.Untagged(it.last, ev.pos)
		if hasTop {
			seg.Occurrence, seg.Group = top.occurrence, top.group
		}
		it.last = ev.pos
		return seg, true
	}

	it.done = true
	if it.last < it.textLen {
		seg := types.Untagged(it.last, it.textLen)
		it.last = it.textLen
		return seg, true
	}
	return types.Segment{}, false
}

func (it *Iterator) fail(ev event, top frame, hasTop bool, reason string) {
	open := types.NoGroup
	if hasTop {
		open = top.group
	}
	it.err = &types.NestingError{
		Occurrence: ev.occurrence,
		Group:      ev.group,
		Open:       open,
		Pos:        ev.pos,
		Reason:     reason,
	}
}

func sameRecord(a, b types.Segment) bool {
	return a.Occurrence == b.Occurrence && a.Group == b.Group
}
