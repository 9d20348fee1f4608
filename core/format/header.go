// Package format parses the sheet-list, header, and data file formats of the
// sheet triad. All multi-byte integers are big-endian on disk. Parsed
// structures are immutable once returned.
package format

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/WorkingRobot/Lumina/core/errors"
)

// HeaderMagic is the 4-byte tag opening every header file.
const HeaderMagic = "EXHF"

const (
	headerFixedSize = 32
	columnDefSize   = 4
	pageRangeSize   = 8
)

// Header is the parsed form of one sheet's header file.
type Header struct {
	Version uint16
	// DataOffset is the byte width of the fixed part of every row.
	DataOffset    uint16
	LoadMethod    uint8  // top 2 bits of the packed load hint, not load-bearing
	CountPerChunk uint16 // low 14 bits of the packed load hint
	Variant       Variant
	// RowCount is the declared row count. It is advisory; the index trusts
	// the per-page entries instead.
	RowCount  uint32
	Columns   []ColumnDef
	Pages     []PageRange
	Languages []Language
	// ColumnsHash is the checksum of the raw serialized column definitions,
	// computed at parse time. Compiled row schemas validate against it.
	ColumnsHash uint64
}

// ParseHeader decodes a header file. The path is used only for error context.
func ParseHeader(path string, data []byte) (*Header, error) {
	if len(data) < headerFixedSize {
		return nil, errors.NewParse("header", path, fmt.Sprintf("file too short: %d bytes", len(data)))
	}
	if string(data[0:4]) != HeaderMagic {
		return nil, errors.NewParse("header", path, fmt.Sprintf("bad magic %q", data[0:4]))
	}

	h := &Header{
		Version:    binary.BigEndian.Uint16(data[4:6]),
		DataOffset: binary.BigEndian.Uint16(data[6:8]),
	}
	columnCount := int(binary.BigEndian.Uint16(data[8:10]))
	pageCount := int(binary.BigEndian.Uint16(data[10:12]))
	languageCount := int(binary.BigEndian.Uint16(data[12:14]))
	packed := binary.BigEndian.Uint16(data[14:16])
	h.LoadMethod = uint8(packed >> 14)
	h.CountPerChunk = packed & 0x3FFF
	h.Variant = Variant(binary.BigEndian.Uint16(data[16:18]))
	// data[18:20] reserved
	h.RowCount = binary.BigEndian.Uint32(data[20:24])
	// data[24:32] reserved

	pos := headerFixedSize
	end := pos + columnCount*columnDefSize
	if end > len(data) {
		return nil, errors.NewParse("header", path, "truncated column definitions")
	}
	h.ColumnsHash = ColumnsHash(data[pos:end])
	h.Columns = make([]ColumnDef, columnCount)
	for i := range h.Columns {
		h.Columns[i] = ColumnDef{
			Type:   ColumnDataType(binary.BigEndian.Uint16(data[pos : pos+2])),
			Offset: binary.BigEndian.Uint16(data[pos+2 : pos+4]),
		}
		pos += columnDefSize
	}

	end = pos + pageCount*pageRangeSize
	if end > len(data) {
		return nil, errors.NewParse("header", path, "truncated page ranges")
	}
	h.Pages = make([]PageRange, pageCount)
	for i := range h.Pages {
		h.Pages[i] = PageRange{
			StartID:  binary.BigEndian.Uint32(data[pos : pos+4]),
			RowCount: binary.BigEndian.Uint32(data[pos+4 : pos+8]),
		}
		pos += pageRangeSize
	}

	h.Languages = make([]Language, 0, languageCount)
	for i := 0; i < languageCount; i++ {
		if pos >= len(data) {
			return nil, errors.NewParse("header", path, "truncated language tags")
		}
		h.Languages = append(h.Languages, Language(data[pos]))
		pos++
		// Each tag carries an unused NUL-terminated string field.
		if idx := bytes.IndexByte(data[pos:], 0); idx >= 0 {
			pos += idx + 1
		} else {
			pos = len(data)
		}
	}

	return h, nil
}

// HasLanguage reports whether the header declares the given language.
func (h *Header) HasLanguage(lang Language) bool {
	for _, l := range h.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// ColumnsHash computes the 64-bit checksum over raw serialized column
// definition bytes, exactly as they appear in the header file. The hash is
// the first 8 bytes of the BLAKE3 digest, big-endian.
func ColumnsHash(raw []byte) uint64 {
	sum := blake3.Sum256(raw)
	return binary.BigEndian.Uint64(sum[:8])
}

// ListPath returns the path of the sheet-list file inside the container.
func ListPath() string {
	return "exd/root.exl"
}

// HeaderPath returns the path of a sheet's header file.
func HeaderPath(name string) string {
	return "exd/" + name + ".exh"
}

// DataPath returns the path of the data page starting at startID for the
// given language. Language-neutral pages carry no suffix.
func DataPath(name string, startID uint32, lang Language) string {
	if lang == LanguageNone {
		return fmt.Sprintf("exd/%s_%d.exd", name, startID)
	}
	return fmt.Sprintf("exd/%s_%d_%s.exd", name, startID, lang.Code())
}
