package excel_test

import (
	"encoding/binary"
	"testing"

	"github.com/WorkingRobot/Lumina/core/excel"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/internal/sheettest"
)

// Fixture sheets:
//
//	Item       default variant, language-neutral, rows 1,2,3,5
//	Localized  default variant, ja+en data, row 1
//	JaOnly     default variant, ja data only, row 1
//	ItemFood   subrow variant, language-neutral, rows 0(2),1(0),2(3)
//	Secret     not declared in the list file; served ad hoc
var itemColumns = []format.ColumnDef{
	{Type: format.ColumnString, Offset: 0},
	{Type: format.ColumnUInt32, Offset: 4},
	{Type: format.ColumnBool, Offset: 8},
	{Type: format.ColumnPackedBool0, Offset: 9},
	{Type: format.ColumnPackedBool1, Offset: 9},
}

// itemColumnsHash is the on-disk checksum of itemColumns, for row types
// that validate their layout.
var itemColumnsHash = func() uint64 {
	raw := make([]byte, 0, len(itemColumns)*4)
	for _, c := range itemColumns {
		raw = binary.BigEndian.AppendUint16(raw, uint16(c.Type))
		raw = binary.BigEndian.AppendUint16(raw, c.Offset)
	}
	return format.ColumnsHash(raw)
}()

func itemRowPayload(name string, value uint32, flag bool, packed uint8) []byte {
	b := sheettest.NewRowBuilder(12).
		PutString(0, name).
		PutUInt32(4, value).
		PutUInt8(9, packed)
	if flag {
		b.PutUInt8(8, 1)
	}
	return b.Bytes()
}

func u32Payload(v uint32) []byte {
	return sheettest.NewRowBuilder(4).PutUInt32(0, v).Bytes()
}

func newTestFixture() *sheettest.Fixture {
	fx := sheettest.NewFixture("Item", "Localized", "JaOnly", "ItemFood")

	fx.AddHeader("Item", sheettest.HeaderSpec{
		Version:    3,
		DataOffset: 12,
		Variant:    format.VariantDefault,
		RowCount:   4,
		Columns:    itemColumns,
		Pages:      []format.PageRange{{StartID: 0, RowCount: 4}},
		Languages:  []format.Language{format.LanguageNone},
	})
	fx.AddData("Item", 0, format.LanguageNone, []sheettest.DataRow{
		{ID: 1, SubrowCount: 1, Payload: itemRowPayload("Copper Ore", 100, true, 0b01)},
		{ID: 2, SubrowCount: 1, Payload: itemRowPayload("Iron Ore", 200, false, 0b10)},
		{ID: 3, SubrowCount: 1, Payload: itemRowPayload("_rsv_3_name", 300, false, 0)},
		{ID: 5, SubrowCount: 1, Payload: itemRowPayload("Gold Ore", 500, true, 0b11)},
	})

	u32Header := sheettest.HeaderSpec{
		DataOffset: 4,
		Variant:    format.VariantDefault,
		RowCount:   1,
		Columns:    []format.ColumnDef{{Type: format.ColumnUInt32, Offset: 0}},
		Pages:      []format.PageRange{{StartID: 0, RowCount: 1}},
	}

	localized := u32Header
	localized.Languages = []format.Language{format.LanguageJapanese, format.LanguageEnglish}
	fx.AddHeader("Localized", localized)
	fx.AddData("Localized", 0, format.LanguageEnglish, []sheettest.DataRow{
		{ID: 1, SubrowCount: 1, Payload: u32Payload(100)},
	})
	fx.AddData("Localized", 0, format.LanguageJapanese, []sheettest.DataRow{
		{ID: 1, SubrowCount: 1, Payload: u32Payload(200)},
	})

	jaOnly := u32Header
	jaOnly.Languages = []format.Language{format.LanguageJapanese}
	fx.AddHeader("JaOnly", jaOnly)
	fx.AddData("JaOnly", 0, format.LanguageJapanese, []sheettest.DataRow{
		{ID: 1, SubrowCount: 1, Payload: u32Payload(1)},
	})

	fx.AddHeader("ItemFood", sheettest.HeaderSpec{
		DataOffset: 4,
		Variant:    format.VariantSubrows,
		RowCount:   3,
		Columns:    []format.ColumnDef{{Type: format.ColumnUInt32, Offset: 0}},
		Pages:      []format.PageRange{{StartID: 0, RowCount: 3}},
		Languages:  []format.Language{format.LanguageNone},
	})
	fx.AddData("ItemFood", 0, format.LanguageNone, []sheettest.DataRow{
		{ID: 0, SubrowCount: 2, Payload: sheettest.SubrowPayload(4, u32Payload(0), u32Payload(1))},
		{ID: 1, SubrowCount: 0, Payload: nil},
		{ID: 2, SubrowCount: 3, Payload: sheettest.SubrowPayload(4, u32Payload(200), u32Payload(201), u32Payload(202))},
	})

	// Undeclared sheet, resolvable ad hoc.
	adhoc := u32Header
	adhoc.Languages = []format.Language{format.LanguageNone}
	fx.AddHeader("Secret", adhoc)
	fx.AddData("Secret", 0, format.LanguageNone, []sheettest.DataRow{
		{ID: 9, SubrowCount: 1, Payload: u32Payload(999)},
	})

	return fx
}

func newTestModule(t *testing.T) *excel.Module {
	t.Helper()
	opts := excel.DefaultOptions()
	opts.RSVResolver = func(s string) (string, bool) {
		if s == "_rsv_3_name" {
			return "Mythril Ore", true
		}
		return "", false
	}
	m, err := excel.NewModule(newTestFixture().Files, opts)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	return m
}

// itemRow is a value-style row over the Item sheet; never cached.
type itemRow struct {
	ID    uint32
	Name  string
	Value uint32
	Flag  bool
	P0    bool
	P1    bool
}

func (itemRow) SheetName() string        { return "Item" }
func (itemRow) SchemaID() excel.SchemaID { return "Item" }
func (itemRow) SchemaHash() uint64       { return 0 }

func (itemRow) FromRawRow(r excel.RawRow) itemRow {
	return itemRow{
		ID:    r.RowID(),
		Name:  r.ReadString(0),
		Value: r.ReadUInt32(1),
		Flag:  r.ReadBool(2),
		P0:    r.ReadBool(3),
		P1:    r.ReadBool(4),
	}
}

// checkedItemRow validates its declared schema hash against the header.
type checkedItemRow struct{ itemRow }

func (checkedItemRow) SchemaID() excel.SchemaID { return "Item.checked" }
func (checkedItemRow) SchemaHash() uint64       { return itemColumnsHash }

func (checkedItemRow) FromRawRow(r excel.RawRow) checkedItemRow {
	return checkedItemRow{itemRow{}.FromRawRow(r)}
}

// staleItemRow declares a wrong schema hash.
type staleItemRow struct{ itemRow }

func (staleItemRow) SchemaID() excel.SchemaID { return "Item.stale" }
func (staleItemRow) SchemaHash() uint64       { return 0xBADBADBADBAD }

func (staleItemRow) FromRawRow(r excel.RawRow) staleItemRow {
	return staleItemRow{itemRow{}.FromRawRow(r)}
}

// cachedItemRow is a reference-style row that opts into identity caching.
type cachedItemRow struct {
	ID    uint32
	Value uint32
}

func (*cachedItemRow) SheetName() string        { return "Item" }
func (*cachedItemRow) SchemaID() excel.SchemaID { return "Item.cached" }
func (*cachedItemRow) SchemaHash() uint64       { return 0 }
func (*cachedItemRow) WantsRowCache() bool      { return true }

func (*cachedItemRow) FromRawRow(r excel.RawRow) *cachedItemRow {
	return &cachedItemRow{ID: r.RowID(), Value: r.ReadUInt32(1)}
}

// foodRow is a value-style subrow over ItemFood.
type foodRow struct {
	ID    uint32
	Sub   uint16
	Value uint32
}

func (foodRow) SheetName() string        { return "ItemFood" }
func (foodRow) SchemaID() excel.SchemaID { return "ItemFood" }
func (foodRow) SchemaHash() uint64       { return 0 }

func (foodRow) FromRawRow(r excel.RawRow) foodRow {
	return foodRow{ID: r.RowID(), Sub: r.SubrowID(), Value: r.ReadUInt32(0)}
}

// cachedFoodRow is a reference-style subrow that opts into caching.
type cachedFoodRow struct {
	ID    uint32
	Sub   uint16
	Value uint32
}

func (*cachedFoodRow) SheetName() string        { return "ItemFood" }
func (*cachedFoodRow) SchemaID() excel.SchemaID { return "ItemFood.cached" }
func (*cachedFoodRow) SchemaHash() uint64       { return 0 }
func (*cachedFoodRow) WantsRowCache() bool      { return true }

func (*cachedFoodRow) FromRawRow(r excel.RawRow) *cachedFoodRow {
	return &cachedFoodRow{ID: r.RowID(), Sub: r.SubrowID(), Value: r.ReadUInt32(0)}
}

// localizedRow reads the single u32 column of the Localized sheet.
type localizedRow struct {
	ID    uint32
	Value uint32
}

func (localizedRow) SheetName() string        { return "Localized" }
func (localizedRow) SchemaID() excel.SchemaID { return "Localized" }
func (localizedRow) SchemaHash() uint64       { return 0 }

func (localizedRow) FromRawRow(r excel.RawRow) localizedRow {
	return localizedRow{ID: r.RowID(), Value: r.ReadUInt32(0)}
}
