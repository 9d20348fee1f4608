package excel

import (
	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/index"
)

// RawSheet is the untyped facade over one (sheet, language) index. It
// serves column introspection and schema-free row access; the typed
// facades wrap it.
type RawSheet struct {
	module *Module
	name   string
	header *format.Header
	lang   format.Language
	idx    *index.RowIndex
	sub    *index.SubrowIndex // non-nil iff the variant is subrows
}

// Name returns the canonical sheet name.
func (s *RawSheet) Name() string { return s.name }

// Language returns the language the index was built for.
func (s *RawSheet) Language() format.Language { return s.lang }

// Header returns the parsed sheet header.
func (s *RawSheet) Header() *format.Header { return s.header }

// Variant returns the sheet variant.
func (s *RawSheet) Variant() format.Variant { return s.header.Variant }

// RowCount returns the number of rows present.
func (s *RawSheet) RowCount() int { return s.idx.Count() }

// ColumnCount returns the number of declared columns.
func (s *RawSheet) ColumnCount() int { return len(s.header.Columns) }

// Column returns the i-th column definition in declaration order.
func (s *RawSheet) Column(i int) format.ColumnDef { return s.header.Columns[i] }

// HasRow reports whether a row id exists.
func (s *RawSheet) HasRow(rowID uint32) bool { return s.idx.Has(rowID) }

// Row returns the raw row for a default-variant sheet.
func (s *RawSheet) Row(rowID uint32) (RawRow, error) {
	slot, ok := s.idx.Get(rowID)
	if !ok || slot.SubrowCount == 0 {
		return RawRow{}, errors.NewRowNotFound(s.name, rowID)
	}
	return s.rowAt(slot), nil
}

// RowAt returns the i-th raw row in ascending row-id order.
func (s *RawSheet) RowAt(i int) (RawRow, error) {
	slot, ok := s.idx.At(i)
	if !ok {
		return RawRow{}, &errors.IndexOutOfRangeError{Sheet: s.name, Index: i, Count: s.idx.Count()}
	}
	return s.rowAt(slot), nil
}

// Subrow returns one subrow of a subrow-variant sheet.
func (s *RawSheet) Subrow(rowID uint32, subrowID uint16) (RawRow, error) {
	slot, ok := s.idx.Get(rowID)
	if !ok || slot.SubrowCount == 0 {
		return RawRow{}, errors.NewRowNotFound(s.name, rowID)
	}
	if subrowID >= slot.SubrowCount {
		return RawRow{}, errors.NewSubrowNotFound(s.name, rowID, subrowID)
	}
	return s.subrowAt(slot, subrowID), nil
}

// SubrowCount returns the subrow count for one row id. Rows indexed with
// zero subrows report 0 without error.
func (s *RawSheet) SubrowCount(rowID uint32) (uint16, error) {
	slot, ok := s.idx.Get(rowID)
	if !ok {
		return 0, errors.NewRowNotFound(s.name, rowID)
	}
	return slot.SubrowCount, nil
}

// TotalSubrowCount returns the number of subrows across all rows. Zero for
// default-variant sheets.
func (s *RawSheet) TotalSubrowCount() uint32 {
	if s.sub == nil {
		return 0
	}
	return s.sub.TotalSubrowCount()
}

func (s *RawSheet) rowAt(slot index.RowSlot) RawRow {
	return RawRow{sheet: s, slot: slot, offset: slot.Offset}
}

func (s *RawSheet) subrowAt(slot index.RowSlot, subrowID uint16) RawRow {
	return RawRow{sheet: s, slot: slot, offset: slot.SubrowOffset(subrowID), subrowID: subrowID}
}

// RawRow reads typed column values out of one row's (or subrow's) bytes.
// It is a value; copying it is cheap and it never owns the page buffer.
type RawRow struct {
	sheet    *RawSheet
	slot     index.RowSlot
	offset   uint32
	subrowID uint16
}

// RowID returns the row's sparse 32-bit identifier.
func (r RawRow) RowID() uint32 { return r.slot.RowID }

// SubrowID returns the subrow index within the row; zero for default rows.
func (r RawRow) SubrowID() uint16 { return r.subrowID }

// Language returns the language the row was loaded for.
func (r RawRow) Language() format.Language { return r.slot.Language }

// Sheet returns the owning raw sheet.
func (r RawRow) Sheet() *RawSheet { return r.sheet }

// Module returns the owning module, for resolving cross-sheet references.
func (r RawRow) Module() *Module { return r.sheet.module }

func (r RawRow) column(i int) format.ColumnDef {
	return r.sheet.header.Columns[i]
}

// ReadString decodes the string column at index i.
func (r RawRow) ReadString(i int) string {
	c := r.column(i)
	return r.slot.Page.String(r.offset+uint32(c.Offset), r.offset, r.sheet.header.DataOffset)
}

// ReadBool decodes the bool or packed-bool column at index i.
func (r RawRow) ReadBool(i int) bool {
	c := r.column(i)
	if c.Type.IsPackedBool() {
		return r.slot.Page.PackedBool(r.offset+uint32(c.Offset), c.Type.PackedBit())
	}
	return r.slot.Page.Bool(r.offset + uint32(c.Offset))
}

// ReadInt8 decodes the i8 column at index i.
func (r RawRow) ReadInt8(i int) int8 {
	return r.slot.Page.Int8(r.offset + uint32(r.column(i).Offset))
}

// ReadUInt8 decodes the u8 column at index i.
func (r RawRow) ReadUInt8(i int) uint8 {
	return r.slot.Page.UInt8(r.offset + uint32(r.column(i).Offset))
}

// ReadInt16 decodes the i16 column at index i.
func (r RawRow) ReadInt16(i int) int16 {
	return r.slot.Page.Int16(r.offset + uint32(r.column(i).Offset))
}

// ReadUInt16 decodes the u16 column at index i.
func (r RawRow) ReadUInt16(i int) uint16 {
	return r.slot.Page.UInt16(r.offset + uint32(r.column(i).Offset))
}

// ReadInt32 decodes the i32 column at index i.
func (r RawRow) ReadInt32(i int) int32 {
	return r.slot.Page.Int32(r.offset + uint32(r.column(i).Offset))
}

// ReadUInt32 decodes the u32 column at index i.
func (r RawRow) ReadUInt32(i int) uint32 {
	return r.slot.Page.UInt32(r.offset + uint32(r.column(i).Offset))
}

// ReadInt64 decodes the i64 column at index i.
func (r RawRow) ReadInt64(i int) int64 {
	return r.slot.Page.Int64(r.offset + uint32(r.column(i).Offset))
}

// ReadUInt64 decodes the u64 column at index i.
func (r RawRow) ReadUInt64(i int) uint64 {
	return r.slot.Page.UInt64(r.offset + uint32(r.column(i).Offset))
}

// ReadFloat32 decodes the f32 column at index i.
func (r RawRow) ReadFloat32(i int) float32 {
	return r.slot.Page.Float32(r.offset + uint32(r.column(i).Offset))
}

// ReadColumn decodes column i into its natural Go type, dispatching on the
// declared column data type. Unknown tags return nil.
func (r RawRow) ReadColumn(i int) any {
	c := r.column(i)
	switch {
	case c.Type == format.ColumnString:
		return r.ReadString(i)
	case c.Type == format.ColumnBool:
		return r.ReadBool(i)
	case c.Type == format.ColumnInt8:
		return r.ReadInt8(i)
	case c.Type == format.ColumnUInt8:
		return r.ReadUInt8(i)
	case c.Type == format.ColumnInt16:
		return r.ReadInt16(i)
	case c.Type == format.ColumnUInt16:
		return r.ReadUInt16(i)
	case c.Type == format.ColumnInt32:
		return r.ReadInt32(i)
	case c.Type == format.ColumnUInt32:
		return r.ReadUInt32(i)
	case c.Type == format.ColumnFloat32:
		return r.ReadFloat32(i)
	case c.Type == format.ColumnInt64:
		return r.ReadInt64(i)
	case c.Type == format.ColumnUInt64:
		return r.ReadUInt64(i)
	case c.Type.IsPackedBool():
		return r.ReadBool(i)
	default:
		return nil
	}
}
