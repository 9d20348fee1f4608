package format

import "fmt"

// ColumnDataType is the on-disk data type tag of one column.
type ColumnDataType uint16

const (
	ColumnString  ColumnDataType = 0x0
	ColumnBool    ColumnDataType = 0x1
	ColumnInt8    ColumnDataType = 0x2
	ColumnUInt8   ColumnDataType = 0x3
	ColumnInt16   ColumnDataType = 0x4
	ColumnUInt16  ColumnDataType = 0x5
	ColumnInt32   ColumnDataType = 0x6
	ColumnUInt32  ColumnDataType = 0x7
	ColumnFloat32 ColumnDataType = 0x9
	ColumnInt64   ColumnDataType = 0xA
	ColumnUInt64  ColumnDataType = 0xB

	// Packed booleans share one byte; the bit index is encoded in the type tag.
	ColumnPackedBool0 ColumnDataType = 0x19
	ColumnPackedBool1 ColumnDataType = 0x1A
	ColumnPackedBool2 ColumnDataType = 0x1B
	ColumnPackedBool3 ColumnDataType = 0x1C
	ColumnPackedBool4 ColumnDataType = 0x1D
	ColumnPackedBool5 ColumnDataType = 0x1E
	ColumnPackedBool6 ColumnDataType = 0x1F
	ColumnPackedBool7 ColumnDataType = 0x20
)

// IsPackedBool reports whether t is one of the packed-boolean tags.
func (t ColumnDataType) IsPackedBool() bool {
	return t >= ColumnPackedBool0 && t <= ColumnPackedBool7
}

// PackedBit returns the bit index 0-7 for a packed-boolean tag.
// The result is meaningless for other tags.
func (t ColumnDataType) PackedBit() uint8 {
	return uint8(t - ColumnPackedBool0)
}

func (t ColumnDataType) String() string {
	switch t {
	case ColumnString:
		return "string"
	case ColumnBool:
		return "bool"
	case ColumnInt8:
		return "int8"
	case ColumnUInt8:
		return "uint8"
	case ColumnInt16:
		return "int16"
	case ColumnUInt16:
		return "uint16"
	case ColumnInt32:
		return "int32"
	case ColumnUInt32:
		return "uint32"
	case ColumnFloat32:
		return "float32"
	case ColumnInt64:
		return "int64"
	case ColumnUInt64:
		return "uint64"
	}
	if t.IsPackedBool() {
		return fmt.Sprintf("packedbool%d", t.PackedBit())
	}
	return fmt.Sprintf("unknown(0x%x)", uint16(t))
}

// ColumnDef describes one column: its data type and its byte offset within
// the fixed-width part of a row. Declaration order is preserved.
type ColumnDef struct {
	Type   ColumnDataType
	Offset uint16
}

// PageRange declares which contiguous row-id span a data page nominally
// covers. It is used only to name the backing file, not to bound the index.
type PageRange struct {
	StartID  uint32
	RowCount uint32
}

// Variant distinguishes flat sheets from three-dimensional subrow sheets.
type Variant uint16

const (
	VariantUnknown Variant = iota
	VariantDefault
	VariantSubrows
)

func (v Variant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantSubrows:
		return "subrows"
	default:
		return "unknown"
	}
}
