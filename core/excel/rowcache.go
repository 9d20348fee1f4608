package excel

import "sync/atomic"

// rowCache is a write-once publication array: one slot per row, or per
// subrow for subrow sheets. Publication is a lock-free compare-and-swap;
// concurrent first-time accesses may each construct a transient instance,
// but at most one published instance per slot survives.
type rowCache struct {
	slots []atomic.Value
}

func newRowCache(n uint32) *rowCache {
	return &rowCache{slots: make([]atomic.Value, n)}
}

// getOrPublish returns the published value for slot i, constructing and
// publishing a candidate if the slot is empty. Losing a publication race
// discards the candidate and returns the winner.
func (c *rowCache) getOrPublish(i uint32, construct func() any) any {
	slot := &c.slots[i]
	if v := slot.Load(); v != nil {
		return v
	}
	candidate := construct()
	if slot.CompareAndSwap(nil, candidate) {
		return candidate
	}
	return slot.Load()
}
