// Package errors provides standardized error types and helpers for the Lumina codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrSheetNotFound indicates a sheet name absent from the list file and
	// not resolvable ad hoc.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrRowNotFound indicates a row id absent from a sheet.
	ErrRowNotFound = errors.New("row not found")
	// ErrSubrowNotFound indicates a subrow index absent from a row.
	ErrSubrowNotFound = errors.New("subrow not found")
	// ErrUnsupportedLanguage indicates neither the requested nor the default
	// language exists for a sheet.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrUnsupportedVariant indicates a header variant this engine does not implement.
	ErrUnsupportedVariant = errors.New("unsupported sheet variant")
	// ErrSchemaMismatch indicates a compiled row schema does not match the
	// on-disk column layout.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrIndexOutOfRange indicates ordinal access beyond a sheet's row count.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidInput indicates invalid input or a validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// SheetNotFoundError reports a sheet that could not be resolved by name.
type SheetNotFoundError struct {
	Name string // Sheet name as requested
	Err  error  // Underlying error, if any
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet not found: %s", e.Name)
}

func (e *SheetNotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSheetNotFound, e.Err}
	}
	return []error{ErrSheetNotFound}
}

// RowNotFoundError reports a row id absent from a sheet.
type RowNotFoundError struct {
	Sheet string // Sheet name
	RowID uint32 // Requested row id
}

func (e *RowNotFoundError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("row %d not found in sheet %s", e.RowID, e.Sheet)
	}
	return fmt.Sprintf("row %d not found", e.RowID)
}

func (e *RowNotFoundError) Unwrap() error {
	return ErrRowNotFound
}

// SubrowNotFoundError reports a subrow index absent from an existing row.
type SubrowNotFoundError struct {
	Sheet    string // Sheet name
	RowID    uint32 // Parent row id
	SubrowID uint16 // Requested subrow index
}

func (e *SubrowNotFoundError) Error() string {
	return fmt.Sprintf("subrow %d not found in row %d of sheet %s", e.SubrowID, e.RowID, e.Sheet)
}

func (e *SubrowNotFoundError) Unwrap() error {
	return ErrSubrowNotFound
}

// UnsupportedLanguageError reports a language with no backing data.
type UnsupportedLanguageError struct {
	Sheet     string // Sheet name
	Requested string // Requested language code
	Default   string // Module default language code tried as fallback
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("sheet %s has no data for language %s (default %s)", e.Sheet, e.Requested, e.Default)
}

func (e *UnsupportedLanguageError) Unwrap() error {
	return ErrUnsupportedLanguage
}

// UnsupportedVariantError reports a header variant the engine cannot serve.
type UnsupportedVariantError struct {
	Sheet   string // Sheet name
	Variant uint16 // Raw variant tag from the header
	Want    uint16 // Variant the caller required, if any
}

func (e *UnsupportedVariantError) Error() string {
	if e.Want != 0 {
		return fmt.Sprintf("sheet %s has variant %d, want %d", e.Sheet, e.Variant, e.Want)
	}
	return fmt.Sprintf("sheet %s has unsupported variant %d", e.Sheet, e.Variant)
}

func (e *UnsupportedVariantError) Unwrap() error {
	return ErrUnsupportedVariant
}

// SchemaMismatchError reports a compiled row schema whose column checksum
// does not match the on-disk column definitions. It carries both hashes.
type SchemaMismatchError struct {
	Sheet    string // Sheet name
	Declared uint64 // Hash the row schema was generated against
	OnDisk   uint64 // Hash of the columns actually in the header file
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sheet %s schema mismatch: declared %016x, on disk %016x", e.Sheet, e.Declared, e.OnDisk)
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// IndexOutOfRangeError reports ordinal access beyond a sheet's bounds.
type IndexOutOfRangeError struct {
	Sheet string // Sheet name
	Index int    // Requested ordinal
	Count int    // Number of rows (or subrows) available
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for sheet %s with %d entries", e.Index, e.Sheet, e.Count)
}

func (e *IndexOutOfRangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

// ParseError represents a file parsing or deserialization error.
type ParseError struct {
	Format  string // Format being parsed (e.g., "list", "header", "data")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s file at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s file: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context.
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewSheetNotFound creates a SheetNotFoundError.
func NewSheetNotFound(name string) *SheetNotFoundError {
	return &SheetNotFoundError{Name: name}
}

// NewRowNotFound creates a RowNotFoundError.
func NewRowNotFound(sheet string, rowID uint32) *RowNotFoundError {
	return &RowNotFoundError{Sheet: sheet, RowID: rowID}
}

// NewSubrowNotFound creates a SubrowNotFoundError.
func NewSubrowNotFound(sheet string, rowID uint32, subrowID uint16) *SubrowNotFoundError {
	return &SubrowNotFoundError{Sheet: sheet, RowID: rowID, SubrowID: subrowID}
}

// NewParse creates a ParseError.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewIO creates an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrRowNotFound) ||
		errors.Is(err, ErrSubrowNotFound)
}
