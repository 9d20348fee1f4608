// Package sheettest builds synthetic sheet-list, header, and data files in
// memory for tests.
package sheettest

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/resolver"
)

// HeaderSpec describes a header file to build.
type HeaderSpec struct {
	Version    uint16
	DataOffset uint16 // fixed row byte width
	Variant    format.Variant
	RowCount   uint32 // declared count; advisory
	Columns    []format.ColumnDef
	Pages      []format.PageRange
	Languages  []format.Language
}

// BuildHeader serializes a header file.
func BuildHeader(spec HeaderSpec) []byte {
	buf := make([]byte, 32)
	copy(buf, format.HeaderMagic)
	binary.BigEndian.PutUint16(buf[4:6], spec.Version)
	binary.BigEndian.PutUint16(buf[6:8], spec.DataOffset)
	binary.BigEndian.PutUint16(buf[8:10], uint16(len(spec.Columns)))
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(spec.Pages)))
	binary.BigEndian.PutUint16(buf[12:14], uint16(len(spec.Languages)))
	binary.BigEndian.PutUint16(buf[16:18], uint16(spec.Variant))
	binary.BigEndian.PutUint32(buf[20:24], spec.RowCount)

	for _, c := range spec.Columns {
		buf = binary.BigEndian.AppendUint16(buf, uint16(c.Type))
		buf = binary.BigEndian.AppendUint16(buf, c.Offset)
	}
	for _, p := range spec.Pages {
		buf = binary.BigEndian.AppendUint32(buf, p.StartID)
		buf = binary.BigEndian.AppendUint32(buf, p.RowCount)
	}
	for _, l := range spec.Languages {
		buf = append(buf, byte(l), 0) // tag + empty unused string
	}
	return buf
}

// BuildList serializes a sheet-list file.
func BuildList(version int, names ...string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%d\n", format.ListMagic, version)
	for i, name := range names {
		fmt.Fprintf(&b, "%s,%d\n", name, i)
	}
	return []byte(b.String())
}

// DataRow is one row of a data file: its id and its payload, excluding the
// 6-byte row header the builder prepends.
type DataRow struct {
	ID uint32
	// SubrowCount goes into the row header's rowCount field; use 1 for
	// default-variant rows.
	SubrowCount uint16
	Payload     []byte
}

// BuildData serializes a data file with its index block and row payloads in
// the given order.
func BuildData(rows []DataRow) []byte {
	indexSize := uint32(len(rows) * 8)
	var dataSize uint32
	for _, r := range rows {
		dataSize += uint32(6 + len(r.Payload))
	}

	buf := make([]byte, 32)
	copy(buf, "EXDF")
	binary.BigEndian.PutUint16(buf[4:6], 2)
	binary.BigEndian.PutUint32(buf[8:12], indexSize)
	binary.BigEndian.PutUint32(buf[12:16], dataSize)

	offset := 32 + indexSize
	for _, r := range rows {
		buf = binary.BigEndian.AppendUint32(buf, r.ID)
		buf = binary.BigEndian.AppendUint32(buf, offset)
		offset += uint32(6 + len(r.Payload))
	}
	for _, r := range rows {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(r.Payload)))
		buf = binary.BigEndian.AppendUint16(buf, r.SubrowCount)
		buf = append(buf, r.Payload...)
	}
	return buf
}

// RowBuilder assembles one default-variant row payload: a fixed-width part
// followed by a NUL-terminated string area. String columns store the
// relative offset of their value within the string area.
type RowBuilder struct {
	fixed []byte
	strs  []byte
}

// NewRowBuilder creates a builder for a row whose fixed part is width bytes.
func NewRowBuilder(width int) *RowBuilder {
	return &RowBuilder{fixed: make([]byte, width)}
}

// PutUInt8 writes v at byte offset off.
func (b *RowBuilder) PutUInt8(off int, v uint8) *RowBuilder {
	b.fixed[off] = v
	return b
}

// PutUInt16 writes v big-endian at byte offset off.
func (b *RowBuilder) PutUInt16(off int, v uint16) *RowBuilder {
	binary.BigEndian.PutUint16(b.fixed[off:], v)
	return b
}

// PutUInt32 writes v big-endian at byte offset off.
func (b *RowBuilder) PutUInt32(off int, v uint32) *RowBuilder {
	binary.BigEndian.PutUint32(b.fixed[off:], v)
	return b
}

// PutUInt64 writes v big-endian at byte offset off.
func (b *RowBuilder) PutUInt64(off int, v uint64) *RowBuilder {
	binary.BigEndian.PutUint64(b.fixed[off:], v)
	return b
}

// PutFloat32 writes v big-endian at byte offset off.
func (b *RowBuilder) PutFloat32(off int, v float32) *RowBuilder {
	binary.BigEndian.PutUint32(b.fixed[off:], math.Float32bits(v))
	return b
}

// PutString writes the string's relative offset at off and appends the
// NUL-terminated value to the string area.
func (b *RowBuilder) PutString(off int, s string) *RowBuilder {
	binary.BigEndian.PutUint32(b.fixed[off:], uint32(len(b.strs)))
	b.strs = append(b.strs, s...)
	b.strs = append(b.strs, 0)
	return b
}

// Bytes returns the assembled payload.
func (b *RowBuilder) Bytes() []byte {
	return append(append([]byte(nil), b.fixed...), b.strs...)
}

// SubrowPayload assembles a subrow-variant row payload: each subrow is its
// 2-byte id followed by width bytes of fixed data. Subrow ids are assigned
// 0..len(subrows)-1 in order; each subrow slice must be exactly width bytes.
func SubrowPayload(width int, subrows ...[]byte) []byte {
	var buf []byte
	for i, s := range subrows {
		if len(s) != width {
			panic(fmt.Sprintf("subrow %d has %d bytes, want %d", i, len(s), width))
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(i))
		buf = append(buf, s...)
	}
	return buf
}

// Fixture bundles one sheet's synthetic triad into an in-memory resolver.
type Fixture struct {
	Files resolver.Map
}

// NewFixture creates a fixture with a list file declaring the given names.
func NewFixture(names ...string) *Fixture {
	return &Fixture{Files: resolver.Map{
		format.ListPath(): BuildList(2, names...),
	}}
}

// AddHeader adds a sheet's header file.
func (f *Fixture) AddHeader(name string, spec HeaderSpec) *Fixture {
	f.Files[format.HeaderPath(name)] = BuildHeader(spec)
	return f
}

// AddData adds one data page for a sheet.
func (f *Fixture) AddData(name string, startID uint32, lang format.Language, rows []DataRow) *Fixture {
	f.Files[format.DataPath(name, startID, lang)] = BuildData(rows)
	return f
}
