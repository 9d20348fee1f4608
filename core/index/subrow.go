package index

import (
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/page"
	"github.com/WorkingRobot/Lumina/core/resolver"
)

// SubrowIndex extends RowIndex for three-dimensional sheets, where one row
// id owns a variable-length list of subrows.
type SubrowIndex struct {
	*RowIndex
	totalSubrows uint32
}

// BuildSubrows constructs a subrow index. The per-row subrow counts come
// from each row's 6-byte header; the total is summed once here.
func BuildSubrows(name string, hdr *format.Header, lang format.Language, res resolver.Resolver, rsv page.RSVResolver) (*SubrowIndex, error) {
	base, err := Build(name, hdr, lang, res, rsv)
	if err != nil {
		return nil, err
	}

	var total uint32
	for _, slot := range base.slots {
		total += uint32(slot.SubrowCount)
	}
	return &SubrowIndex{RowIndex: base, totalSubrows: total}, nil
}

// TotalSubrowCount returns the number of subrows across all rows.
func (x *SubrowIndex) TotalSubrowCount() uint32 { return x.totalSubrows }

// SubrowCount returns the subrow count for one row id.
func (x *SubrowIndex) SubrowCount(rowID uint32) (uint16, bool) {
	slot, ok := x.Get(rowID)
	if !ok {
		return 0, false
	}
	return slot.SubrowCount, true
}

// FlatIterator walks every subrow in (rowId asc, subrowId asc) order,
// skipping rows with zero subrows. A fresh iterator starts at the first
// subrow; iteration is finite.
type FlatIterator struct {
	x   *SubrowIndex
	row int
	sub uint16
}

// Flatten returns a new iterator positioned before the first subrow.
func (x *SubrowIndex) Flatten() *FlatIterator {
	return &FlatIterator{x: x}
}

// Next returns the next (slot, subrowId) pair, or false when exhausted.
func (it *FlatIterator) Next() (RowSlot, uint16, bool) {
	for it.row < len(it.x.slots) {
		slot := it.x.slots[it.row]
		if it.sub < slot.SubrowCount {
			sub := it.sub
			it.sub++
			return slot, sub, true
		}
		it.row++
		it.sub = 0
	}
	return RowSlot{}, 0, false
}
