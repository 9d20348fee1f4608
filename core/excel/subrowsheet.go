package excel

import (
	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/index"
)

// SubrowSheet is the typed facade over a subrow-variant sheet, where one
// row id maps to a variable-length list of subrows.
type SubrowSheet[T RowSchema[T]] struct {
	raw   *RawSheet
	cache *rowCache // flat, one slot per subrow; nil when T does not cache
}

// OpenSubrowSheet opens the typed subrow sheet for T in the module's
// default language.
func OpenSubrowSheet[T RowSchema[T]](m *Module) (*SubrowSheet[T], error) {
	return OpenSubrowSheetLang[T](m, m.opts.DefaultLanguage)
}

// OpenSubrowSheetLang opens the typed subrow sheet for T in the given
// language.
func OpenSubrowSheetLang[T RowSchema[T]](m *Module, lang format.Language) (*SubrowSheet[T], error) {
	var zero T
	raw, err := m.RawSheet(zero.SheetName(), lang)
	if err != nil {
		return nil, err
	}
	if err := validateSchema[T](raw, format.VariantSubrows); err != nil {
		return nil, err
	}

	s := &SubrowSheet[T]{raw: raw}
	if wantsCache[T]() {
		s.cache = m.rowCacheFor(raw.name, raw.lang, zero.SchemaID(), raw.TotalSubrowCount())
	}
	return s, nil
}

// Raw returns the underlying untyped facade.
func (s *SubrowSheet[T]) Raw() *RawSheet { return s.raw }

// Name returns the sheet name.
func (s *SubrowSheet[T]) Name() string { return s.raw.name }

// Language returns the language the sheet was opened for.
func (s *SubrowSheet[T]) Language() format.Language { return s.raw.lang }

// Count returns the number of rows (not subrows) present.
func (s *SubrowSheet[T]) Count() int { return s.raw.RowCount() }

// TotalSubrowCount returns the number of subrows across all rows.
func (s *SubrowSheet[T]) TotalSubrowCount() uint32 { return s.raw.TotalSubrowCount() }

// HasRow reports whether a row id exists with at least one subrow.
func (s *SubrowSheet[T]) HasRow(rowID uint32) bool { return s.raw.HasRow(rowID) }

// Get returns the subrow collection for rowID or a RowNotFound error.
func (s *SubrowSheet[T]) Get(rowID uint32) (SubrowCollection[T], error) {
	slot, ok := s.raw.idx.Get(rowID)
	if !ok || slot.SubrowCount == 0 {
		return SubrowCollection[T]{}, errors.NewRowNotFound(s.raw.name, rowID)
	}
	return SubrowCollection[T]{sheet: s, slot: slot}, nil
}

// TryGet returns the subrow collection for rowID, reporting absence as a
// boolean.
func (s *SubrowSheet[T]) TryGet(rowID uint32) (SubrowCollection[T], bool) {
	c, err := s.Get(rowID)
	return c, err == nil
}

// GetOrDefault returns the collection for rowID, or an empty collection on
// absence.
func (s *SubrowSheet[T]) GetOrDefault(rowID uint32) SubrowCollection[T] {
	c, _ := s.Get(rowID)
	return c
}

// GetAt returns the i-th subrow collection in ascending row-id order.
func (s *SubrowSheet[T]) GetAt(i int) (SubrowCollection[T], error) {
	slot, ok := s.raw.idx.At(i)
	if !ok {
		return SubrowCollection[T]{}, &errors.IndexOutOfRangeError{
			Sheet: s.raw.name, Index: i, Count: s.raw.RowCount(),
		}
	}
	return SubrowCollection[T]{sheet: s, slot: slot}, nil
}

// GetSubrow returns one subrow directly.
func (s *SubrowSheet[T]) GetSubrow(rowID uint32, subrowID uint16) (T, error) {
	c, err := s.Get(rowID)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.At(subrowID)
}

// Equal reports whether two facades wrap the same (sheet, language) pair.
func (s *SubrowSheet[T]) Equal(other *SubrowSheet[T]) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.raw.name == other.raw.name && s.raw.lang == other.raw.lang
}

// Subrows returns a fresh flattening iterator over every subrow in
// (rowId asc, subrowId asc) order, skipping rows with zero subrows.
func (s *SubrowSheet[T]) Subrows() *SubrowIterator[T] {
	return &SubrowIterator[T]{sheet: s, flat: s.raw.sub.Flatten()}
}

func (s *SubrowSheet[T]) materialize(slot index.RowSlot, subrowID uint16) T {
	raw := s.raw.subrowAt(slot, subrowID)
	if s.cache == nil {
		var zero T
		return zero.FromRawRow(raw)
	}
	v := s.cache.getOrPublish(slot.SubrowStart+uint32(subrowID), func() any {
		var zero T
		return zero.FromRawRow(raw)
	})
	return v.(T)
}

// SubrowCollection is the view over one row's subrows, with ordinal access
// 0..Count.
type SubrowCollection[T RowSchema[T]] struct {
	sheet *SubrowSheet[T]
	slot  index.RowSlot
}

// RowID returns the owning row's id. Zero-value collections return 0.
func (c SubrowCollection[T]) RowID() uint32 { return c.slot.RowID }

// Count returns the number of subrows in the collection.
func (c SubrowCollection[T]) Count() uint16 { return c.slot.SubrowCount }

// At materializes the subrow at ordinal i; the produced row's subrow id is
// overridden per index.
func (c SubrowCollection[T]) At(i uint16) (T, error) {
	if c.sheet == nil || i >= c.slot.SubrowCount {
		var zero T
		if c.sheet == nil {
			return zero, errors.ErrRowNotFound
		}
		return zero, errors.NewSubrowNotFound(c.sheet.raw.name, c.slot.RowID, i)
	}
	return c.sheet.materialize(c.slot, i), nil
}

// SubrowIterator flattens a subrow sheet into (rowId asc, subrowId asc)
// order. Create a fresh one to restart.
type SubrowIterator[T RowSchema[T]] struct {
	sheet *SubrowSheet[T]
	flat  *index.FlatIterator
}

// Next returns the next subrow, or false when exhausted.
func (it *SubrowIterator[T]) Next() (T, bool) {
	slot, sub, ok := it.flat.Next()
	if !ok {
		var zero T
		return zero, false
	}
	return it.sheet.materialize(slot, sub), true
}
