package inference

import "slices"

// LineBounds returns the minimum and maximum ASCII value in a quality line.
// ok is false for an empty line, whose bounds are undefined.
func LineBounds(qual []byte) (lo, hi byte, ok bool) {
	if len(qual) == 0 {
		return 0, 0, false
	}
	lo, hi = qual[0], qual[0]
	for _, b := range qual[1:] {
		if b < lo {
			lo = b
		}
		if b > hi {
			hi = b
		}
	}
	return lo, hi, true
}

// Bounds tracks the ASCII range observed across all quality lines so far.
// The zero value is unset; Min never increases and Max never decreases
// once the first observation lands.
type Bounds struct {
	Min byte
	Max byte
	set bool
}

// Set reports whether any observation has been recorded.
func (b *Bounds) Set() bool { return b.set }

// Extend widens the bounds to cover [lo, hi] and reports whether the
// bounds actually changed.
func (b *Bounds) Extend(lo, hi byte) bool {
	if !b.set {
		b.Min, b.Max, b.set = lo, hi, true
		return true
	}
	changed := false
	if lo < b.Min {
		b.Min = lo
		changed = true
	}
	if hi > b.Max {
		b.Max = hi
		changed = true
	}
	return changed
}

// Histogram counts ASCII value occurrences within a single quality line.
type Histogram [256]uint32

// Reset clears all counts.
func (h *Histogram) Reset() {
	for i := range h {
		h[i] = 0
	}
}

// AddAll counts every byte of qual.
func (h *Histogram) AddAll(qual []byte) {
	for _, b := range qual {
		h[b]++
	}
}

// Count returns the occurrence count for an ASCII value.
func (h *Histogram) Count(v byte) uint32 { return h[v] }

// TopValues returns up to n distinct ASCII values ordered by descending
// count, ties broken by ascending value.
func (h *Histogram) TopValues(n int) []byte {
	type entry struct {
		value byte
		count uint32
	}
	var entries []entry
	for v, c := range h {
		if c > 0 {
			entries = append(entries, entry{byte(v), c})
		}
	}
	// Entries start in ascending value order, so a stable sort keeps
	// equal counts ordered by value.
	slices.SortStableFunc(entries, func(a, b entry) int {
		return int(b.count) - int(a.count)
	})
	if n > len(entries) {
		n = len(entries)
	}
	top := make([]byte, n)
	for i := 0; i < n; i++ {
		top[i] = entries[i].value
	}
	return top
}
