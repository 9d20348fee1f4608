// Package index builds the rowId-to-storage-slot mapping for one
// (sheet, language) pair. Indices are immutable after construction and
// safe to share across goroutines without synchronization.
package index

import (
	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/page"
	"github.com/WorkingRobot/Lumina/core/resolver"
)

// DenseTableThreshold caps how many unused dense-table slots an index may
// waste. Row ids whose distance from the first id exceeds the table length
// go to the overflow map instead.
const DenseTableThreshold = 65536

// RowSlot locates one row's raw bytes. Slots are immutable values, cheap
// to copy, and never own the page buffer they reference.
type RowSlot struct {
	Page  *page.Page
	RowID uint32
	// Offset of the row's data, just past the 6-byte row header.
	Offset   uint32
	Language format.Language
	// SubrowDataWidth is the fixed byte width of one subrow. Zero for
	// default-variant sheets.
	SubrowDataWidth uint16
	// SubrowCount is 1 for default-variant sheets.
	SubrowCount uint16
	// SubrowStart is this row's first position in a flattened subrow
	// ordering; used to address flat per-subrow cache arrays.
	SubrowStart uint32
}

// SubrowOffset returns the data offset of one subrow. Every subrow is
// prefixed by its own 2-byte subrow-id field.
func (s RowSlot) SubrowOffset(subrowID uint16) uint32 {
	return s.Offset + 2 + uint32(subrowID)*(uint32(s.SubrowDataWidth)+2)
}

// RowIndex maps sparse row ids to dense storage slots for one
// (sheet, language) pair.
type RowIndex struct {
	name   string
	header *format.Header
	lang   format.Language
	pages  []*page.Page

	// slots is ordered ascending by row id; ordinal access and iteration
	// rely on that ordering.
	slots []RowSlot
	minID uint32
	// dense[id-minID] holds the slot position, or -1. Its length is
	// min(span, DenseTableThreshold).
	dense []int32
	// overflow holds ids beyond the dense table's reach. Built once, never
	// mutated afterward.
	overflow map[uint32]int32
}

const denseEmpty = int32(-1)

// Build loads every page of the sheet for one language and constructs the
// row index. Pages are assumed pre-sorted by row id, both within a page's
// index block and across pages.
func Build(name string, hdr *format.Header, lang format.Language, res resolver.Resolver, rsv page.RSVResolver) (*RowIndex, error) {
	x := &RowIndex{
		name:   name,
		header: hdr,
		lang:   lang,
		slots:  make([]RowSlot, 0, hdr.RowCount),
	}

	subrows := hdr.Variant == format.VariantSubrows
	var subrowStart uint32
	for _, pr := range hdr.Pages {
		path := format.DataPath(name, pr.StartID, lang)
		data, err := res.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %s", name)
		}
		pg, offsets, err := page.Parse(path, data, lang, rsv)
		if err != nil {
			return nil, err
		}
		x.pages = append(x.pages, pg)

		for _, ro := range offsets {
			_, rowCount := pg.RowHeader(ro.Offset)
			slot := RowSlot{
				Page:        pg,
				RowID:       ro.RowID,
				Offset:      ro.Offset + page.RowHeaderSize,
				Language:    lang,
				SubrowCount: 1,
				SubrowStart: subrowStart,
			}
			if subrows {
				slot.SubrowCount = rowCount
				slot.SubrowDataWidth = hdr.DataOffset
			}
			subrowStart += uint32(slot.SubrowCount)
			x.slots = append(x.slots, slot)
		}
	}

	x.buildLookup()
	return x, nil
}

// buildLookup constructs the dense table and, when the id span would waste
// more than DenseTableThreshold slots, the overflow map.
func (x *RowIndex) buildLookup() {
	if len(x.slots) == 0 {
		return
	}

	x.minID = x.slots[0].RowID
	maxID := x.slots[len(x.slots)-1].RowID
	span := int64(maxID) - int64(x.minID) + 1
	unused := span - int64(len(x.slots))

	size := span
	if unused > DenseTableThreshold {
		size = DenseTableThreshold
	}
	x.dense = make([]int32, size)
	for i := range x.dense {
		x.dense[i] = denseEmpty
	}

	var spilled []RowSlot
	var spilledPos []int32
	for i, slot := range x.slots {
		d := int64(slot.RowID) - int64(x.minID)
		if d < size {
			x.dense[d] = int32(i)
		} else {
			spilled = append(spilled, slot)
			spilledPos = append(spilledPos, int32(i))
		}
	}
	if len(spilled) > 0 {
		x.overflow = make(map[uint32]int32, len(spilled))
		for i, slot := range spilled {
			x.overflow[slot.RowID] = spilledPos[i]
		}
	}
}

// Name returns the sheet name this index was built for.
func (x *RowIndex) Name() string { return x.name }

// Header returns the parsed sheet header.
func (x *RowIndex) Header() *format.Header { return x.header }

// Language returns the language this index was built for.
func (x *RowIndex) Language() format.Language { return x.lang }

// Count returns the number of rows actually present, which may differ from
// the header's declared count.
func (x *RowIndex) Count() int { return len(x.slots) }

// Get resolves a row id to its slot. Expected O(1) on both the dense and
// overflow paths.
func (x *RowIndex) Get(rowID uint32) (RowSlot, bool) {
	if len(x.slots) == 0 || rowID < x.minID {
		return RowSlot{}, false
	}
	d := uint64(rowID) - uint64(x.minID)
	if d < uint64(len(x.dense)) {
		if i := x.dense[d]; i != denseEmpty {
			return x.slots[i], true
		}
		return RowSlot{}, false
	}
	if i, ok := x.overflow[rowID]; ok {
		return x.slots[i], true
	}
	return RowSlot{}, false
}

// Has reports whether a row exists. A slot with zero subrows does not
// count as existing.
func (x *RowIndex) Has(rowID uint32) bool {
	slot, ok := x.Get(rowID)
	return ok && slot.SubrowCount != 0
}

// At returns the i-th slot in ascending row-id order.
func (x *RowIndex) At(i int) (RowSlot, bool) {
	if i < 0 || i >= len(x.slots) {
		return RowSlot{}, false
	}
	return x.slots[i], true
}
