package excel

// SchemaID is an interned identifier for one compiled row-schema type.
// Type-erased references and the row-cache store dispatch on it instead of
// runtime type objects.
type SchemaID string

// Schema is the compile-time registration contract every row-schema type
// implements. Generated row types declare their binding statically; the
// engine never discovers it by introspection.
type Schema interface {
	// SheetName returns the sheet this type was generated against.
	SheetName() string
	// SchemaID returns the type's interned identifier, unique per row type.
	SchemaID() SchemaID
	// SchemaHash returns the 64-bit checksum of the column layout the type
	// was generated against. Zero bypasses validation.
	SchemaHash() uint64
}

// RowSchema binds a row type to its factory. FromRawRow materializes one
// row (or one subrow, when the raw row carries a subrow id) from raw bytes;
// it must not retain the RawRow beyond the call.
type RowSchema[T any] interface {
	Schema
	FromRawRow(raw RawRow) T
}

// CacheableRow is the opt-in capability for identity caching. Row types
// whose representation is reference-like implement it to have at most one
// published instance per row retained; value-like row types omit it and
// are materialized on every access.
type CacheableRow interface {
	WantsRowCache() bool
}

func wantsCache[T any]() bool {
	var zero T
	c, ok := any(zero).(CacheableRow)
	return ok && c.WantsRowCache()
}
