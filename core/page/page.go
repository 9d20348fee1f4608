// Package page decodes row data pages. A Page owns one immutable byte
// buffer; every offset into it is relative to the start of the backing
// file. Reads assume the caller has validated offsets against the column
// table — an out-of-range offset is a programming error and panics.
package page

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
)

// DataMagic is the 4-byte tag opening every data file.
const DataMagic = "EXDF"

const (
	dataHeaderSize = 32
	indexEntrySize = 8

	// RowHeaderSize is the per-row header prefix: dataSize u32, rowCount u16.
	RowHeaderSize = 6
)

// RSVPrefix marks string values requiring external resolution.
const RSVPrefix = "_rsv_"

// RSVResolver substitutes a resolved string for an RSV placeholder.
// Returning false leaves the raw placeholder in place.
type RSVResolver func(placeholder string) (string, bool)

// RowOffset is one entry of a data file's index block.
type RowOffset struct {
	RowID uint32
	// Offset of the row's 6-byte header, relative to file start.
	Offset uint32
}

// Page holds one data file's buffer for one language.
type Page struct {
	data []byte
	path string
	lang format.Language
	rsv  RSVResolver
}

// Parse validates a data file and returns the page plus its row index
// block. Row offsets are returned in file order.
func Parse(path string, data []byte, lang format.Language, rsv RSVResolver) (*Page, []RowOffset, error) {
	if len(data) < dataHeaderSize {
		return nil, nil, errors.NewParse("data", path, fmt.Sprintf("file too short: %d bytes", len(data)))
	}
	if string(data[0:4]) != DataMagic {
		return nil, nil, errors.NewParse("data", path, fmt.Sprintf("bad magic %q", data[0:4]))
	}

	indexSize := binary.BigEndian.Uint32(data[8:12])
	if int(dataHeaderSize+indexSize) > len(data) {
		return nil, nil, errors.NewParse("data", path, "index block exceeds file size")
	}
	if indexSize%indexEntrySize != 0 {
		return nil, nil, errors.NewParse("data", path, fmt.Sprintf("index size %d not a multiple of %d", indexSize, indexEntrySize))
	}

	offsets := make([]RowOffset, indexSize/indexEntrySize)
	pos := uint32(dataHeaderSize)
	for i := range offsets {
		offsets[i] = RowOffset{
			RowID:  binary.BigEndian.Uint32(data[pos : pos+4]),
			Offset: binary.BigEndian.Uint32(data[pos+4 : pos+8]),
		}
		pos += indexEntrySize
	}

	p := &Page{data: data, path: path, lang: lang, rsv: rsv}
	return p, offsets, nil
}

// Path returns the file path this page was loaded from.
func (p *Page) Path() string { return p.path }

// Language returns the language this page belongs to.
func (p *Page) Language() format.Language { return p.lang }

// Len returns the buffer length in bytes.
func (p *Page) Len() int { return len(p.data) }

// RowHeader reads the 6-byte row header at off. The rowCount field is only
// meaningful for subrow-variant sheets.
func (p *Page) RowHeader(off uint32) (dataSize uint32, rowCount uint16) {
	return binary.BigEndian.Uint32(p.data[off : off+4]),
		binary.BigEndian.Uint16(p.data[off+4 : off+6])
}

// UInt8 reads an unsigned byte at off.
func (p *Page) UInt8(off uint32) uint8 { return p.data[off] }

// Int8 reads a signed byte at off.
func (p *Page) Int8(off uint32) int8 { return int8(p.data[off]) }

// UInt16 reads a big-endian u16 at off.
func (p *Page) UInt16(off uint32) uint16 { return binary.BigEndian.Uint16(p.data[off : off+2]) }

// Int16 reads a big-endian i16 at off.
func (p *Page) Int16(off uint32) int16 { return int16(p.UInt16(off)) }

// UInt32 reads a big-endian u32 at off.
func (p *Page) UInt32(off uint32) uint32 { return binary.BigEndian.Uint32(p.data[off : off+4]) }

// Int32 reads a big-endian i32 at off.
func (p *Page) Int32(off uint32) int32 { return int32(p.UInt32(off)) }

// UInt64 reads a big-endian u64 at off.
func (p *Page) UInt64(off uint32) uint64 { return binary.BigEndian.Uint64(p.data[off : off+8]) }

// Int64 reads a big-endian i64 at off.
func (p *Page) Int64(off uint32) int64 { return int64(p.UInt64(off)) }

// Float32 reads a big-endian IEEE 754 single at off.
func (p *Page) Float32(off uint32) float32 {
	return math.Float32frombits(p.UInt32(off))
}

// Bool reads one byte at off; nonzero is true.
func (p *Page) Bool(off uint32) bool { return p.data[off] != 0 }

// PackedBool extracts bit 0-7 from the byte at off.
func (p *Page) PackedBool(off uint32, bit uint8) bool {
	return (p.data[off]>>bit)&1 != 0
}

// String reads the string column at off within a row whose fixed data
// begins at rowOffset. The 4 bytes at off hold an offset relative to the
// row's trailing string area, which begins dataWidth bytes past rowOffset.
// The value is the byte run up to the first NUL. RSV placeholders are
// offered to the page's resolver; on a miss the raw placeholder is
// returned unchanged.
func (p *Page) String(off, rowOffset uint32, dataWidth uint16) string {
	abs := p.UInt32(off) + rowOffset + uint32(dataWidth)
	raw := p.data[abs:]
	if end := bytes.IndexByte(raw, 0); end >= 0 {
		raw = raw[:end]
	}
	s := string(raw)
	if p.rsv != nil && len(s) >= len(RSVPrefix) && s[:len(RSVPrefix)] == RSVPrefix {
		if resolved, ok := p.rsv(s); ok {
			return resolved
		}
	}
	return s
}
