package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSheetNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *SheetNotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "plain",
			err:      &SheetNotFoundError{Name: "Item"},
			wantMsg:  "sheet not found: Item",
			wantBase: ErrSheetNotFound,
		},
		{
			name:     "wrapped cause keeps sentinel",
			err:      &SheetNotFoundError{Name: "Item", Err: fmt.Errorf("boom")},
			wantMsg:  "sheet not found: Item",
			wantBase: ErrSheetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.wantBase)
			}
		})
	}

	cause := fmt.Errorf("boom")
	err := &SheetNotFoundError{Name: "Item", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should remain reachable")
	}
}

func TestSchemaMismatchCarriesBothHashes(t *testing.T) {
	err := &SchemaMismatchError{Sheet: "Item", Declared: 0xdeadbeef, OnDisk: 0xcafe}
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatal("expected ErrSchemaMismatch")
	}

	var sm *SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatal("errors.As failed")
	}
	if sm.Declared != 0xdeadbeef || sm.OnDisk != 0xcafe {
		t.Errorf("hashes not preserved: %x %x", sm.Declared, sm.OnDisk)
	}
}

func TestRowAndSubrowErrors(t *testing.T) {
	rowErr := NewRowNotFound("Item", 42)
	if !errors.Is(rowErr, ErrRowNotFound) {
		t.Error("RowNotFoundError should unwrap to ErrRowNotFound")
	}
	if !IsNotFound(rowErr) {
		t.Error("IsNotFound(rowErr) = false")
	}

	subErr := NewSubrowNotFound("GilShopItem", 7, 3)
	if !errors.Is(subErr, ErrSubrowNotFound) {
		t.Error("SubrowNotFoundError should unwrap to ErrSubrowNotFound")
	}
	want := "subrow 3 not found in row 7 of sheet GilShopItem"
	if subErr.Error() != want {
		t.Errorf("Error() = %q, want %q", subErr.Error(), want)
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		wantBase error
	}{
		{
			name:     "no cause falls back to invalid input",
			err:      NewParse("header", "exd/Item.exh", "bad magic"),
			wantBase: ErrInvalidInput,
		},
		{
			name:     "explicit cause wins",
			err:      &ParseError{Format: "list", Message: "x", Err: ErrSheetNotFound},
			wantBase: ErrSheetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantBase)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	base := errors.New("base")
	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: base" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}

	formatted := Wrapf(base, "sheet %s", "Item")
	if formatted.Error() != "sheet Item: base" {
		t.Errorf("Wrapf() = %q", formatted.Error())
	}
}
