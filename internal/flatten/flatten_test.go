package flatten

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/riverfjs/regexhl-go/internal/types"
)

func rec(occ, group, start, end int) types.InputCapture {
	return types.InputCapture{Occurrence: occ, Group: group, Range: types.Range{Start: start, End: end}}
}

func seg(occ, group, start, end int) types.Segment {
	return types.Segment{Occurrence: occ, Group: group, Range: types.Range{Start: start, End: end}}
}

func none(start, end int) types.Segment {
	return types.Untagged(start, end)
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name    string
		records []types.InputCapture
		textLen int
		want    []types.Segment
	}{
		{
			// sa(u)er(k)raut
			name: "disjoint children",
			records: []types.InputCapture{
				rec(0, 0, 4, 14),
				rec(0, 1, 6, 7),
				rec(0, 2, 9, 10),
			},
			textLen: 20,
			want: []types.Segment{
				none(0, 4), seg(0, 0, 4, 6), seg(0, 1, 6, 7), seg(0, 0, 7, 9),
				seg(0, 2, 9, 10), seg(0, 0, 10, 14), none(14, 20),
			},
		},
		{
			// ((s)au)er(k)ra(u(t))
			name: "shared boundaries",
			records: []types.InputCapture{
				rec(0, 0, 4, 14),
				rec(0, 1, 4, 7),
				rec(0, 2, 4, 5),
				rec(0, 3, 9, 10),
				rec(0, 4, 12, 14),
				rec(0, 5, 13, 14),
			},
			textLen: 20,
			want: []types.Segment{
				none(0, 4), seg(0, 2, 4, 5), seg(0, 1, 5, 7), seg(0, 0, 7, 9),
				seg(0, 3, 9, 10), seg(0, 0, 10, 12), seg(0, 4, 12, 13),
				seg(0, 5, 13, 14), none(14, 20),
			},
		},
		{
			name:    "no records",
			textLen: 20,
			want:    []types.Segment{none(0, 20)},
		},
		{
			name: "adjacent occurrences",
			records: []types.InputCapture{
				rec(0, 0, 0, 6),
				rec(0, 1, 0, 5),
				rec(1, 0, 6, 12),
				rec(1, 1, 6, 11),
			},
			textLen: 15,
			want: []types.Segment{
				seg(0, 1, 0, 5), seg(0, 0, 5, 6), seg(1, 1, 6, 11),
				seg(1, 0, 11, 12), none(12, 15),
			},
		},
		{
			name: "adjacent occurrences keep their own segments",
			records: []types.InputCapture{
				rec(0, 0, 0, 3),
				rec(1, 0, 3, 6),
			},
			textLen: 6,
			want:    []types.Segment{seg(0, 0, 0, 3), seg(1, 0, 3, 6)},
		},
		{
			name:    "zero-length record inside a group",
			records: []types.InputCapture{rec(0, 0, 0, 6), rec(0, 1, 3, 3)},
			textLen: 6,
			want:    []types.Segment{seg(0, 0, 0, 6)},
		},
		{
			name:    "zero-length occurrence between untagged text",
			records: []types.InputCapture{rec(0, 0, 2, 2), rec(0, 1, 2, 2)},
			textLen: 4,
			want:    []types.Segment{none(0, 4)},
		},
		{
			name: "zero-length sibling before a group opening at the same offset",
			records: []types.InputCapture{
				rec(0, 0, 0, 8),
				rec(0, 1, 5, 5),
				rec(0, 2, 5, 8),
			},
			textLen: 8,
			want:    []types.Segment{seg(0, 0, 0, 5), seg(0, 2, 5, 8)},
		},
		{
			name: "identical ranges",
			records: []types.InputCapture{
				rec(0, 0, 1, 3),
				rec(0, 1, 1, 3),
				rec(0, 2, 1, 3),
			},
			textLen: 3,
			want:    []types.Segment{none(0, 1), seg(0, 2, 1, 3)},
		},
		{
			name:    "record spans whole text",
			records: []types.InputCapture{rec(0, 0, 0, 5)},
			textLen: 5,
			want:    []types.Segment{seg(0, 0, 0, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Flatten(tt.records, tt.textLen)
			if err != nil {
				t.Fatalf("Flatten() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten_Empty(t *testing.T) {
	got, err := Flatten(nil, 0)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Flatten(nil, 0) = %v, want no segments", got)
	}
}

func TestFlatten_MalformedNesting(t *testing.T) {
	tests := []struct {
		name    string
		records []types.InputCapture
		textLen int
	}{
		{
			name:    "crossing groups",
			records: []types.InputCapture{rec(0, 0, 0, 10), rec(0, 1, 2, 6), rec(0, 2, 4, 8)},
			textLen: 10,
		},
		{
			name:    "child escapes parent",
			records: []types.InputCapture{rec(0, 0, 2, 6), rec(0, 1, 4, 9)},
			textLen: 10,
		},
		{
			name:    "overlapping occurrences",
			records: []types.InputCapture{rec(0, 0, 0, 6), rec(1, 0, 4, 8)},
			textLen: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Flatten(tt.records, tt.textLen)
			if !errors.Is(err, types.ErrMalformedNesting) {
				t.Fatalf("Flatten() error = %v, want ErrMalformedNesting", err)
			}
			if got != nil {
				t.Errorf("Flatten() returned partial output %v", got)
			}
			var nerr *types.NestingError
			if !errors.As(err, &nerr) {
				t.Fatalf("Flatten() error %T is not a *NestingError", err)
			}
		})
	}
}

func TestFlatten_MalformedNestingIsDeterministic(t *testing.T) {
	records := []types.InputCapture{rec(0, 0, 0, 10), rec(0, 1, 2, 6), rec(0, 2, 4, 8)}
	_, first := Flatten(records, 10)
	for i := 0; i < 10; i++ {
		r := rand.New(rand.NewPCG(uint64(i), 7))
		shuffled := append([]types.InputCapture(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		_, err := Flatten(shuffled, 10)
		if err == nil || err.Error() != first.Error() {
			t.Fatalf("Flatten() error = %v, want %v", err, first)
		}
	}
}

func TestFlatten_InvalidRange(t *testing.T) {
	tests := []struct {
		name    string
		records []types.InputCapture
		textLen int
	}{
		{"past end of text", []types.InputCapture{rec(0, 0, 2, 12)}, 10},
		{"start after end", []types.InputCapture{rec(0, 0, 5, 3)}, 10},
		{"negative start", []types.InputCapture{rec(0, 0, -1, 3)}, 10},
		{"negative text length", nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.records, tt.textLen)
			if !errors.Is(err, types.ErrInvalidRange) {
				t.Errorf("Flatten() error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestIterator_Lazy(t *testing.T) {
	it := New([]types.InputCapture{rec(0, 0, 4, 14), rec(0, 1, 6, 7)}, 20)

	first, ok := it.Next()
	if !ok {
		t.Fatal("Next() = false on first call")
	}
	if diff := cmp.Diff(none(0, 4), first); diff != "" {
		t.Errorf("first segment mismatch (-want +got):\n%s", diff)
	}

	var rest []types.Segment
	for s, err := range it.All() {
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		rest = append(rest, s)
	}
	want := []types.Segment{seg(0, 0, 4, 6), seg(0, 1, 6, 7), seg(0, 0, 7, 14), none(14, 20)}
	if diff := cmp.Diff(want, rest); diff != "" {
		t.Errorf("remaining segments mismatch (-want +got):\n%s", diff)
	}

	if _, ok := it.Next(); ok {
		t.Error("Next() = true after exhaustion")
	}
}

func TestIterator_AllStopsEarly(t *testing.T) {
	it := New([]types.InputCapture{rec(0, 0, 4, 14), rec(0, 1, 6, 7)}, 20)
	n := 0
	for range it.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("visited %d segments, want 2", n)
	}
}

func TestIterator_AllYieldsError(t *testing.T) {
	it := New([]types.InputCapture{rec(0, 0, 0, 10), rec(0, 1, 2, 6), rec(0, 2, 4, 8)}, 10)
	var last error
	for _, err := range it.All() {
		last = err
	}
	if !errors.Is(last, types.ErrMalformedNesting) {
		t.Errorf("last error = %v, want ErrMalformedNesting", last)
	}
}

// genForest builds valid records: sequential occurrences, each a proper
// interval tree numbered in pre-order, with occasional zero-length groups.
func genForest(r *rand.Rand, textLen int) []types.InputCapture {
	var records []types.InputCapture
	var grow func(occ int, next *int, rg types.Range, depth int)
	grow = func(occ int, next *int, rg types.Range, depth int) {
		records = append(records, rec(occ, *next, rg.Start, rg.End))
		*next++
		if depth == 0 {
			return
		}
		cur := rg.Start
		for n := r.IntN(4); n > 0 && cur <= rg.End; n-- {
			s := cur + r.IntN(rg.End-cur+1)
			e := s + r.IntN(rg.End-s+1)
			grow(occ, next, types.Range{Start: s, End: e}, depth-1)
			cur = e
		}
	}

	pos := 0
	for occ := 0; occ < 4 && pos <= textLen; occ++ {
		s := pos + r.IntN(textLen-pos+1)
		e := s + r.IntN(textLen-s+1)
		next := 0
		grow(occ, &next, types.Range{Start: s, End: e}, 3)
		pos = e
		if e == s {
			pos++
		}
	}
	return records
}

// innermost returns the record covering off with the highest group, which
// under pre-order numbering is the deepest one.
func innermost(records []types.InputCapture, off int) (occ, group int) {
	occ, group = types.NoGroup, types.NoGroup
	for _, r := range records {
		if r.Range.Start <= off && off < r.Range.End {
			if group == types.NoGroup || r.Group > group {
				occ, group = r.Occurrence, r.Group
			}
		}
	}
	return occ, group
}

func TestFlatten_Properties(t *testing.T) {
	for i := 0; i < 500; i++ {
		r := rand.New(rand.NewPCG(uint64(i), 42))
		textLen := r.IntN(40)
		records := genForest(r, textLen)

		got, err := Flatten(records, textLen)
		if err != nil {
			t.Fatalf("case %d: Flatten(%v, %d) error = %v", i, records, textLen, err)
		}

		// Coverage, no zero-length segments.
		pos := 0
		for _, s := range got {
			if s.Range.Start != pos {
				t.Fatalf("case %d: gap or overlap at %d in %v", i, pos, got)
			}
			if s.Range.Empty() {
				t.Fatalf("case %d: zero-length segment in %v", i, got)
			}
			pos = s.Range.End
		}
		if pos != textLen {
			t.Fatalf("case %d: segments end at %d, want %d", i, pos, textLen)
		}

		// Maximal runs per record.
		for j := 1; j < len(got); j++ {
			if sameRecord(got[j-1], got[j]) {
				t.Fatalf("case %d: adjacent segments of the same record in %v", i, got)
			}
		}

		// Innermost wins.
		for _, s := range got {
			for off := s.Range.Start; off < s.Range.End; off++ {
				occ, group := innermost(records, off)
				if s.Occurrence != occ || s.Group != group {
					t.Fatalf("case %d: offset %d tagged (%d,%d), want (%d,%d); records %v",
						i, off, s.Occurrence, s.Group, occ, group, records)
				}
			}
		}

		// Order independence.
		shuffled := append([]types.InputCapture(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		again, err := Flatten(shuffled, textLen)
		if err != nil {
			t.Fatalf("case %d: shuffled Flatten() error = %v", i, err)
		}
		if diff := cmp.Diff(got, again); diff != "" {
			t.Fatalf("case %d: shuffled input changed output (-orig +shuffled):\n%s", i, diff)
		}

		// Round trip for records with no non-empty descendants.
		for _, leaf := range records {
			if leaf.Range.Empty() || hasInnerRecord(records, leaf) {
				continue
			}
			var union []types.Range
			for _, s := range got {
				if s.Occurrence == leaf.Occurrence && s.Group == leaf.Group {
					union = append(union, s.Range)
				}
			}
			if len(union) != 1 || union[0] != leaf.Range {
				t.Fatalf("case %d: record %v reconstructed as %v", i, leaf, union)
			}
		}
	}
}

func hasInnerRecord(records []types.InputCapture, parent types.InputCapture) bool {
	for _, r := range records {
		if r.Occurrence == parent.Occurrence && r.Group > parent.Group && !r.Range.Empty() &&
			parent.Range.Start <= r.Range.Start && r.Range.End <= parent.Range.End {
			return true
		}
	}
	return false
}
