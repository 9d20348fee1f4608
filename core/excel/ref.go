package excel

import (
	"github.com/WorkingRobot/Lumina/core/errors"
)

// Ref is a deferred reference to one row of T's sheet. Nothing is resolved
// until the ref is dereferenced, so rows in mutually referencing sheets can
// hold refs to each other without forcing an eager load order.
type Ref[T RowSchema[T]] struct {
	m     *Module
	rowID uint32
}

// NewRef creates a deferred reference.
func NewRef[T RowSchema[T]](m *Module, rowID uint32) Ref[T] {
	return Ref[T]{m: m, rowID: rowID}
}

// RowID returns the target row id without resolving.
func (r Ref[T]) RowID() uint32 { return r.rowID }

// IsValid reports whether the target row exists right now.
func (r Ref[T]) IsValid() bool {
	s, err := OpenSheet[T](r.m)
	if err != nil {
		return false
	}
	return s.HasRow(r.rowID)
}

// Value resolves the referenced row.
func (r Ref[T]) Value() (T, error) {
	s, err := OpenSheet[T](r.m)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Get(r.rowID)
}

// ValueOrDefault resolves the referenced row, or returns the zero value.
func (r Ref[T]) ValueOrDefault() T {
	v, _ := r.Value()
	return v
}

// SubrowRef is a deferred reference to one row's subrow collection in T's
// subrow sheet.
type SubrowRef[T RowSchema[T]] struct {
	m     *Module
	rowID uint32
}

// NewSubrowRef creates a deferred subrow-collection reference.
func NewSubrowRef[T RowSchema[T]](m *Module, rowID uint32) SubrowRef[T] {
	return SubrowRef[T]{m: m, rowID: rowID}
}

// RowID returns the target row id without resolving.
func (r SubrowRef[T]) RowID() uint32 { return r.rowID }

// IsValid reports whether the target row exists right now.
func (r SubrowRef[T]) IsValid() bool {
	s, err := OpenSubrowSheet[T](r.m)
	if err != nil {
		return false
	}
	return s.HasRow(r.rowID)
}

// Value resolves the referenced subrow collection.
func (r SubrowRef[T]) Value() (SubrowCollection[T], error) {
	s, err := OpenSubrowSheet[T](r.m)
	if err != nil {
		return SubrowCollection[T]{}, err
	}
	return s.Get(r.rowID)
}

// ValueOrDefault resolves the collection, or returns an empty one.
func (r SubrowRef[T]) ValueOrDefault() SubrowCollection[T] {
	v, _ := r.Value()
	return v
}

// RegisterSchema records T in the module's dispatch table so type-erased
// references can probe and resolve it by SchemaID alone.
func RegisterSchema[T RowSchema[T]](m *Module) error {
	var zero T
	return m.registerSchema(&schemaEntry{
		id:        zero.SchemaID(),
		sheetName: zero.SheetName(),
		has: func(rowID uint32) bool {
			s, err := OpenSheet[T](m)
			if err != nil {
				return false
			}
			return s.HasRow(rowID)
		},
		resolve: func(rowID uint32) (any, error) {
			s, err := OpenSheet[T](m)
			if err != nil {
				return nil, err
			}
			return s.Get(rowID)
		},
	})
}

// RegisterSubrowSchema records a subrow row type T; erased resolution
// yields its SubrowCollection.
func RegisterSubrowSchema[T RowSchema[T]](m *Module) error {
	var zero T
	return m.registerSchema(&schemaEntry{
		id:        zero.SchemaID(),
		sheetName: zero.SheetName(),
		has: func(rowID uint32) bool {
			s, err := OpenSubrowSheet[T](m)
			if err != nil {
				return false
			}
			return s.HasRow(rowID)
		},
		resolve: func(rowID uint32) (any, error) {
			s, err := OpenSubrowSheet[T](m)
			if err != nil {
				return nil, err
			}
			return s.Get(rowID)
		},
	})
}

// AnyRef is the type-erased deferred reference: a row id plus an optional
// schema tag. Untyped refs carry only the id.
type AnyRef struct {
	m      *Module
	rowID  uint32
	schema SchemaID // empty = untyped
}

// NewAnyRef creates an untyped reference.
func NewAnyRef(m *Module, rowID uint32) AnyRef {
	return AnyRef{m: m, rowID: rowID}
}

// NewTypedAnyRef creates a reference tagged with a registered schema.
func NewTypedAnyRef(m *Module, rowID uint32, schema SchemaID) AnyRef {
	return AnyRef{m: m, rowID: rowID, schema: schema}
}

// RowID returns the target row id without resolving.
func (r AnyRef) RowID() uint32 { return r.rowID }

// SchemaID returns the schema tag; empty for untyped refs.
func (r AnyRef) SchemaID() SchemaID { return r.schema }

// IsUntyped reports whether the ref carries no schema tag.
func (r AnyRef) IsUntyped() bool { return r.schema == "" }

// IsValid reports whether the tagged sheet currently contains the row.
// Untyped refs are never valid to dereference.
func (r AnyRef) IsValid() bool {
	if r.IsUntyped() {
		return false
	}
	e, ok := r.m.schema(r.schema)
	return ok && e.has(r.rowID)
}

// Value resolves the row (or subrow collection) through the registry's
// dispatch table.
func (r AnyRef) Value() (any, error) {
	if r.IsUntyped() {
		return nil, errors.Wrapf(errors.ErrRowNotFound, "untyped ref to row %d", r.rowID)
	}
	e, ok := r.m.schema(r.schema)
	if !ok {
		return nil, errors.Wrapf(errors.ErrSheetNotFound, "schema %s not registered", r.schema)
	}
	return e.resolve(r.rowID)
}

// ProbeRef probes rowID against candidate schemas in order and returns a
// ref tagged with the first one whose sheet contains the row. Lookup
// failures for individual candidates (absent sheet, wrong variant) are
// swallowed and the next candidate is tried. If none match, the returned
// ref is untyped.
func ProbeRef(m *Module, rowID uint32, candidates ...SchemaID) AnyRef {
	for _, id := range candidates {
		e, ok := m.schema(id)
		if !ok {
			continue
		}
		if e.has(rowID) {
			return AnyRef{m: m, rowID: rowID, schema: id}
		}
	}
	return AnyRef{m: m, rowID: rowID}
}
