// Package excel is the consumer-facing surface of the sheet engine: a
// registry of named sheets with typed, schema-checked row access on top of
// the raw index layer.
package excel

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/WorkingRobot/Lumina/core/cache"
	"github.com/WorkingRobot/Lumina/core/errors"
	"github.com/WorkingRobot/Lumina/core/format"
	"github.com/WorkingRobot/Lumina/core/index"
	"github.com/WorkingRobot/Lumina/core/page"
	"github.com/WorkingRobot/Lumina/core/resolver"
	"github.com/WorkingRobot/Lumina/internal/logging"
)

// Options configures a Module.
type Options struct {
	// DefaultLanguage is used when a sheet lacks the requested language.
	DefaultLanguage format.Language
	// RSVResolver substitutes resolved strings for RSV placeholders.
	// Nil leaves placeholders unresolved.
	RSVResolver page.RSVResolver
	// RowCacheSize bounds how many (sheet, language, schema) row caches are
	// retained. 0 means unlimited.
	RowCacheSize int
	// Logger receives debug events for sheet opens and cache invalidation.
	// Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the default module options.
func DefaultOptions() Options {
	return Options{
		DefaultLanguage: format.LanguageEnglish,
		RowCacheSize:    64,
	}
}

type cacheKey struct {
	sheet  string
	lang   format.Language
	schema SchemaID
}

// Module owns the set of known sheets, builds each (sheet, language) index
// at most once, and serves typed facades and cross-sheet references. It is
// safe for concurrent use after construction.
type Module struct {
	res  resolver.Resolver
	opts Options
	log  *slog.Logger
	list *format.List

	mu       sync.Mutex
	declared map[string]*sheetEntry
	adHoc    map[string]*sheetEntry
	schemas  map[SchemaID]*schemaEntry

	rowCaches *cache.Store[cacheKey, *rowCache]
}

// sheetEntry holds one sheet's lazily parsed header and its per-language
// lazily built indices.
type sheetEntry struct {
	name string

	headerOnce sync.Once
	header     *format.Header
	headerErr  error

	mu    sync.Mutex
	langs map[format.Language]*lazySheet
}

// lazySheet is a single-build slot: the first caller constructs, everyone
// else waits on the same result.
type lazySheet struct {
	once  sync.Once
	sheet *RawSheet
	err   error
}

// schemaEntry is one registered row-schema type's dispatch record.
// Type-erased references resolve through these instead of reflection.
type schemaEntry struct {
	id        SchemaID
	sheetName string
	has       func(rowID uint32) bool
	resolve   func(rowID uint32) (any, error)
}

// NewModule creates a module over the given resolver and eagerly loads the
// sheet-list file.
func NewModule(res resolver.Resolver, opts Options) (*Module, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	listPath := format.ListPath()
	data, err := res.ReadFile(listPath)
	if err != nil {
		return nil, errors.Wrap(err, "load sheet list")
	}
	list, err := format.ParseList(listPath, data)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded sheet list", "sheets", list.Len(), "version", list.Version)

	return &Module{
		res:       res,
		opts:      opts,
		log:       log,
		list:      list,
		declared:  make(map[string]*sheetEntry),
		adHoc:     make(map[string]*sheetEntry),
		schemas:   make(map[SchemaID]*schemaEntry),
		rowCaches: cache.New[cacheKey, *rowCache](opts.RowCacheSize),
	}, nil
}

// SheetNames returns the declared sheet names in list-file order.
func (m *Module) SheetNames() []string { return m.list.Names() }

// IsDeclared reports whether a name appears in the list file.
func (m *Module) IsDeclared(name string) bool { return m.list.Has(name) }

// DefaultLanguage returns the module's configured fallback language.
func (m *Module) DefaultLanguage() format.Language { return m.opts.DefaultLanguage }

// RawSheet opens the untyped facade for (name, lang). Declared names
// resolve through the list file's canonical casing; undeclared names are
// served ad hoc through the same lazy construction path, cached separately.
//
// Language resolution: a language-neutral sheet is returned regardless of
// the requested language; otherwise the requested language, then the
// module default, then an unsupported-language error.
func (m *Module) RawSheet(name string, lang format.Language) (*RawSheet, error) {
	entry, err := m.entryFor(name)
	if err != nil {
		return nil, err
	}

	entry.headerOnce.Do(func() {
		path := format.HeaderPath(entry.name)
		data, err := m.res.ReadFile(path)
		if err != nil {
			entry.headerErr = &errors.SheetNotFoundError{Name: entry.name, Err: err}
			return
		}
		entry.header, entry.headerErr = format.ParseHeader(path, data)
		if entry.headerErr == nil {
			m.log.Debug("parsed sheet header", "sheet", entry.name,
				"variant", entry.header.Variant.String(),
				"columns", len(entry.header.Columns),
				"pages", len(entry.header.Pages))
		}
	})
	if entry.headerErr != nil {
		return nil, entry.headerErr
	}
	hdr := entry.header

	if hdr.Variant != format.VariantDefault && hdr.Variant != format.VariantSubrows {
		return nil, &errors.UnsupportedVariantError{Sheet: entry.name, Variant: uint16(hdr.Variant)}
	}

	effective, ok := m.effectiveLanguage(hdr, lang)
	if !ok {
		return nil, &errors.UnsupportedLanguageError{
			Sheet:     entry.name,
			Requested: lang.String(),
			Default:   m.opts.DefaultLanguage.String(),
		}
	}

	entry.mu.Lock()
	slot, ok := entry.langs[effective]
	if !ok {
		slot = &lazySheet{}
		entry.langs[effective] = slot
	}
	entry.mu.Unlock()

	slot.once.Do(func() {
		slot.sheet, slot.err = m.buildSheet(entry.name, hdr, effective)
	})
	return slot.sheet, slot.err
}

// effectiveLanguage applies the resolution order of the registry: neutral
// wins outright, then the requested language, then the default.
func (m *Module) effectiveLanguage(hdr *format.Header, lang format.Language) (format.Language, bool) {
	if hdr.HasLanguage(format.LanguageNone) {
		return format.LanguageNone, true
	}
	if hdr.HasLanguage(lang) {
		return lang, true
	}
	if hdr.HasLanguage(m.opts.DefaultLanguage) {
		return m.opts.DefaultLanguage, true
	}
	return format.LanguageNone, false
}

func (m *Module) buildSheet(name string, hdr *format.Header, lang format.Language) (*RawSheet, error) {
	s := &RawSheet{module: m, name: name, header: hdr, lang: lang}

	if hdr.Variant == format.VariantSubrows {
		sub, err := index.BuildSubrows(name, hdr, lang, m.res, m.opts.RSVResolver)
		if err != nil {
			return nil, err
		}
		s.idx, s.sub = sub.RowIndex, sub
	} else {
		idx, err := index.Build(name, hdr, lang, m.res, m.opts.RSVResolver)
		if err != nil {
			return nil, err
		}
		s.idx = idx
	}

	m.log.Debug("built sheet index", "sheet", name, "language", lang.String(), "rows", s.idx.Count())
	return s, nil
}

// entryFor finds or creates the lazy entry for a name. Declared sheets use
// the list file's canonical casing; others are served ad hoc.
func (m *Module) entryFor(name string) (*sheetEntry, error) {
	if name == "" {
		return nil, errors.NewSheetNotFound(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if le, ok := m.list.Lookup(name); ok {
		e, ok := m.declared[le.Name]
		if !ok {
			e = newSheetEntry(le.Name)
			m.declared[le.Name] = e
		}
		return e, nil
	}

	e, ok := m.adHoc[name]
	if !ok {
		e = newSheetEntry(name)
		m.adHoc[name] = e
	}
	return e, nil
}

func newSheetEntry(name string) *sheetEntry {
	return &sheetEntry{name: name, langs: make(map[format.Language]*lazySheet)}
}

// rowCacheFor returns the published-row cache for one (sheet, language,
// schema), creating it with the given slot count on first use.
func (m *Module) rowCacheFor(sheet string, lang format.Language, schema SchemaID, slots uint32) *rowCache {
	key := cacheKey{sheet: sheet, lang: lang, schema: schema}
	return m.rowCaches.GetOrCreate(key, func() *rowCache {
		return newRowCache(slots)
	})
}

// InvalidateRowCache drops the published-row cache for one (sheet,
// language, schema). Rows materialized afterward are fresh instances.
func (m *Module) InvalidateRowCache(sheet string, lang format.Language, schema SchemaID) {
	m.rowCaches.Remove(cacheKey{sheet: sheet, lang: lang, schema: schema})
	m.log.Debug("invalidated row cache", "sheet", sheet, "language", lang.String(), "schema", string(schema))
}

// InvalidateRowCaches drops every published-row cache.
func (m *Module) InvalidateRowCaches() {
	m.rowCaches.Clear()
	m.log.Debug("invalidated all row caches")
}

// RowCacheStats returns counters for the row-cache store.
func (m *Module) RowCacheStats() cache.Stats { return m.rowCaches.Stats() }

// registerSchema records a row type's dispatch entry for type-erased
// references. Called through RegisterSchema.
func (m *Module) registerSchema(e *schemaEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.schemas[e.id]; ok && prev.sheetName != e.sheetName {
		return errors.Wrapf(errors.ErrInvalidInput,
			"schema %s already registered for sheet %s", e.id, prev.sheetName)
	}
	m.schemas[e.id] = e
	return nil
}

func (m *Module) schema(id SchemaID) (*schemaEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.schemas[id]
	return e, ok
}

// String implements fmt.Stringer for debug logs.
func (m *Module) String() string {
	return fmt.Sprintf("excel.Module(%d sheets, default %s)", m.list.Len(), m.opts.DefaultLanguage)
}
