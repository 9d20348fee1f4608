package page_test

import (
	"testing"

	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/page"
	"github.com/WorkingRobot/Lumina/internal/sheettest"
)

func TestParseRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte("EXDF")},
		{"bad magic", make([]byte, 48)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := page.Parse("x", tt.data, format.LanguageNone, nil); err == nil {
				t.Fatal("Parse() expected error")
			}
		})
	}
}

func TestScalarReads(t *testing.T) {
	payload := sheettest.NewRowBuilder(32).
		PutUInt8(0, 0xFE).
		PutUInt16(2, 0xBEEF).
		PutUInt32(4, 0xDEADBEEF).
		PutUInt64(8, 0x0102030405060708).
		PutFloat32(16, 1.5).
		PutUInt8(20, 1).
		Bytes()

	p, off := parseOneRow(t, payload, nil)

	if got := p.UInt8(off + 0); got != 0xFE {
		t.Errorf("UInt8 = %#x", got)
	}
	if got := p.Int8(off + 0); got != -2 {
		t.Errorf("Int8 = %d", got)
	}
	if got := p.UInt16(off + 2); got != 0xBEEF {
		t.Errorf("UInt16 = %#x", got)
	}
	if got := p.Int16(off + 2); got != -16657 {
		t.Errorf("Int16 = %d", got)
	}
	if got := p.UInt32(off + 4); got != 0xDEADBEEF {
		t.Errorf("UInt32 = %#x", got)
	}
	if got := p.UInt64(off + 8); got != 0x0102030405060708 {
		t.Errorf("UInt64 = %#x", got)
	}
	if got := p.Float32(off + 16); got != 1.5 {
		t.Errorf("Float32 = %v", got)
	}
	if !p.Bool(off+20) || p.Bool(off+21) {
		t.Error("Bool reads wrong")
	}
}

func TestPackedBool(t *testing.T) {
	payload := sheettest.NewRowBuilder(4).PutUInt8(0, 0b10110010).Bytes()
	p, off := parseOneRow(t, payload, nil)

	want := [8]bool{false, true, false, false, true, true, false, true}
	for bit := uint8(0); bit < 8; bit++ {
		if got := p.PackedBool(off, bit); got != want[bit] {
			t.Errorf("PackedBool(bit %d) = %v, want %v", bit, got, want[bit])
		}
	}
}

func TestStringRead(t *testing.T) {
	const width = 8
	payload := sheettest.NewRowBuilder(width).
		PutString(0, "Copper Ore").
		PutString(4, "x").
		Bytes()
	p, off := parseOneRow(t, payload, nil)

	if got := p.String(off+0, off, width); got != "Copper Ore" {
		t.Errorf("String = %q", got)
	}
	if got := p.String(off+4, off, width); got != "x" {
		t.Errorf("String = %q", got)
	}
}

func TestStringRSVResolution(t *testing.T) {
	const width = 8
	payload := sheettest.NewRowBuilder(width).
		PutString(0, "_rsv_12_known").
		PutString(4, "_rsv_99_unknown").
		Bytes()

	resolver := func(s string) (string, bool) {
		if s == "_rsv_12_known" {
			return "Resolved Name", true
		}
		return "", false
	}
	p, off := parseOneRow(t, payload, resolver)

	if got := p.String(off+0, off, width); got != "Resolved Name" {
		t.Errorf("resolved String = %q", got)
	}
	// Resolver misses return the raw placeholder, never an error.
	if got := p.String(off+4, off, width); got != "_rsv_99_unknown" {
		t.Errorf("unresolved String = %q", got)
	}
}

func TestRowHeader(t *testing.T) {
	data := sheettest.BuildData([]sheettest.DataRow{
		{ID: 7, SubrowCount: 3, Payload: []byte{1, 2, 3, 4}},
	})
	p, offsets, err := page.Parse("x", data, format.LanguageEnglish, nil)
	if err != nil {
		t.Fatal(err)
	}

	size, count := p.RowHeader(offsets[0].Offset)
	if size != 4 || count != 3 {
		t.Errorf("RowHeader = %d, %d; want 4, 3", size, count)
	}
	if p.Language() != format.LanguageEnglish {
		t.Errorf("Language = %v", p.Language())
	}
}

func parseOneRow(t *testing.T, payload []byte, rsv page.RSVResolver) (*page.Page, uint32) {
	t.Helper()
	data := sheettest.BuildData([]sheettest.DataRow{{ID: 1, SubrowCount: 1, Payload: payload}})
	p, offsets, err := page.Parse("exd/Test_0.exd", data, format.LanguageNone, rsv)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p, offsets[0].Offset + page.RowHeaderSize
}
