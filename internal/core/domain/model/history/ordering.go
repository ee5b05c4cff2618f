package history

import (
	"cmp"
	"slices"
)

// SortChronologically orders intervals by entry time, breaking ties by
// sequence, so that intervals opened in the same clock tick keep the order in
// which the transitions were applied.
func SortChronologically(intervals []*Interval) {
	slices.SortStableFunc(intervals, func(a, b *Interval) int {
		if c := a.enteredAt.Compare(b.enteredAt); c != 0 {
			return c
		}
		return cmp.Compare(a.sequence, b.sequence)
	})
}
