package excel

import (
	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
)

// Sheet is the typed facade over a default-variant sheet. Opening one
// validates the variant and, when the row type declares a nonzero schema
// hash, the on-disk column checksum.
type Sheet[T RowSchema[T]] struct {
	raw   *RawSheet
	cache *rowCache // nil when T does not opt into caching
}

// OpenSheet opens the typed sheet for T in the module's default language.
func OpenSheet[T RowSchema[T]](m *Module) (*Sheet[T], error) {
	return OpenSheetLang[T](m, m.opts.DefaultLanguage)
}

// OpenSheetLang opens the typed sheet for T in the given language.
func OpenSheetLang[T RowSchema[T]](m *Module, lang format.Language) (*Sheet[T], error) {
	var zero T
	raw, err := m.RawSheet(zero.SheetName(), lang)
	if err != nil {
		return nil, err
	}
	if err := validateSchema[T](raw, format.VariantDefault); err != nil {
		return nil, err
	}

	s := &Sheet[T]{raw: raw}
	if wantsCache[T]() {
		s.cache = m.rowCacheFor(raw.name, raw.lang, zero.SchemaID(), uint32(raw.RowCount()))
	}
	return s, nil
}

// validateSchema enforces the variant and schema-hash checks shared by both
// typed facades. A declared hash of zero bypasses the hash check.
func validateSchema[T RowSchema[T]](raw *RawSheet, want format.Variant) error {
	var zero T
	if raw.header.Variant != want {
		return &errors.UnsupportedVariantError{
			Sheet:   raw.name,
			Variant: uint16(raw.header.Variant),
			Want:    uint16(want),
		}
	}
	if h := zero.SchemaHash(); h != 0 && h != raw.header.ColumnsHash {
		return &errors.SchemaMismatchError{
			Sheet:    raw.name,
			Declared: h,
			OnDisk:   raw.header.ColumnsHash,
		}
	}
	return nil
}

// Raw returns the underlying untyped facade.
func (s *Sheet[T]) Raw() *RawSheet { return s.raw }

// Name returns the sheet name.
func (s *Sheet[T]) Name() string { return s.raw.name }

// Language returns the language the sheet was opened for.
func (s *Sheet[T]) Language() format.Language { return s.raw.lang }

// Count returns the number of rows present.
func (s *Sheet[T]) Count() int { return s.raw.RowCount() }

// HasRow reports whether a row id exists.
func (s *Sheet[T]) HasRow(rowID uint32) bool { return s.raw.HasRow(rowID) }

// Get returns the row for rowID or a RowNotFound error.
func (s *Sheet[T]) Get(rowID uint32) (T, error) {
	raw, err := s.raw.Row(rowID)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.materialize(raw), nil
}

// TryGet returns the row for rowID, reporting absence as a boolean.
func (s *Sheet[T]) TryGet(rowID uint32) (T, bool) {
	raw, err := s.raw.Row(rowID)
	if err != nil {
		var zero T
		return zero, false
	}
	return s.materialize(raw), true
}

// GetOrDefault returns the row for rowID, or the zero value on absence.
func (s *Sheet[T]) GetOrDefault(rowID uint32) T {
	v, _ := s.TryGet(rowID)
	return v
}

// GetAt returns the i-th row in ascending row-id order, materialized
// without an id lookup.
func (s *Sheet[T]) GetAt(i int) (T, error) {
	raw, err := s.raw.RowAt(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.materialize(raw), nil
}

// Equal reports whether two facades wrap the same (sheet, language) pair.
func (s *Sheet[T]) Equal(other *Sheet[T]) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.raw.name == other.raw.name && s.raw.lang == other.raw.lang
}

// Rows returns a fresh iterator over all rows in ascending row-id order.
func (s *Sheet[T]) Rows() *RowIterator[T] {
	return &RowIterator[T]{sheet: s}
}

// materialize builds the row object, consulting the publication cache when
// T opted in. Cache slots are addressed by ordinal, so the raw row's slot
// position is recovered through the flattened SubrowStart ordering for
// default sheets (one subrow per row, so it equals the ordinal).
func (s *Sheet[T]) materialize(raw RawRow) T {
	if s.cache == nil {
		var zero T
		return zero.FromRawRow(raw)
	}
	v := s.cache.getOrPublish(raw.slot.SubrowStart, func() any {
		var zero T
		return zero.FromRawRow(raw)
	})
	return v.(T)
}

// RowIterator yields rows in ascending row-id order. Create a fresh one to
// restart.
type RowIterator[T RowSchema[T]] struct {
	sheet *Sheet[T]
	i     int
}

// Next returns the next row, or false when exhausted.
func (it *RowIterator[T]) Next() (T, bool) {
	if it.i >= it.sheet.Count() {
		var zero T
		return zero, false
	}
	v, err := it.sheet.GetAt(it.i)
	if err != nil {
		var zero T
		return zero, false
	}
	it.i++
	return v, true
}
