// Package engine wires the schema model, form data store, dependency
// resolver, table row engines and aggregation into one Form façade. A Form
// is single-threaded and synchronous: every public operation runs to
// completion before the next is invoked, and no operation suspends.
package engine

import (
	"sort"

	"github.com/goliatone/go-formengine/pkg/coerce"
	"github.com/goliatone/go-formengine/pkg/formdata"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/table"
	"github.com/goliatone/go-formengine/pkg/visibility"
	"github.com/goliatone/go-formengine/pkg/visibility/depexpr"
)

// Option customises a Form under construction.
type Option func(*config)

type config struct {
	initial           map[string]any
	evaluator         visibility.Evaluator
	extras            map[string]any
	fieldListeners    []formdata.FieldListener
	snapshotListeners []formdata.SnapshotListener
}

// WithInitialData merges a flat field_id -> value snapshot over schema
// defaults at store initialization; later keys win.
func WithInitialData(values map[string]any) Option {
	return func(c *config) {
		c.initial = values
	}
}

// WithEvaluator replaces the default dependency-expression evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(c *config) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithExtras supplies host context (roles, feature flags) to the visibility
// evaluator.
func WithExtras(extras map[string]any) Option {
	return func(c *config) {
		c.extras = extras
	}
}

// WithFieldListener registers a synchronous "single field changed"
// notification consumer.
func WithFieldListener(fn formdata.FieldListener) Option {
	return func(c *config) {
		if fn != nil {
			c.fieldListeners = append(c.fieldListeners, fn)
		}
	}
}

// WithSnapshotListener registers a synchronous "whole form snapshot
// changed" notification consumer.
func WithSnapshotListener(fn formdata.SnapshotListener) Option {
	return func(c *config) {
		if fn != nil {
			c.snapshotListeners = append(c.snapshotListeners, fn)
		}
	}
}

// Form is the live, mutable state of one rendered FieldsSet: the flat value
// store, one row engine per table field, and the current lint warnings.
// Create one Form per active form; there is no shared ambient state.
type Form struct {
	set      schema.FieldsSet
	warnings []schema.Warning
	fields   map[string]schema.FieldConfig
	store    *formdata.Store
	eval     visibility.Evaluator
	extras   map[string]any
	tables   map[string]*table.Table
}

// New builds a Form from a schema document. Malformed fields are skipped
// with a warning and never abort construction; the rest of the form stays
// live.
func New(set schema.FieldsSet, options ...Option) *Form {
	cfg := config{evaluator: depexpr.New()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	f := &Form{
		set:      set,
		warnings: schema.Lint(set),
		fields:   make(map[string]schema.FieldConfig),
		eval:     cfg.evaluator,
		extras:   cfg.extras,
		tables:   make(map[string]*table.Table),
	}
	f.indexFields(set.Fields)

	// Assign row identities before seeding so the reset snapshot restores
	// the same ids, not freshly generated ones.
	overrides := f.sealTableRows(cfg.initial)
	f.store = formdata.Seed(set, overrides)
	f.rebuildTables()

	for _, fn := range cfg.fieldListeners {
		f.store.OnField(fn)
	}
	for _, fn := range cfg.snapshotListeners {
		f.store.OnSnapshot(fn)
	}
	return f
}

func (f *Form) indexFields(fields []schema.FieldConfig) {
	for _, field := range fields {
		if !schema.Usable(field) {
			continue
		}
		if _, exists := f.fields[field.ID]; !exists {
			f.fields[field.ID] = field
		}
		if field.IsGroup() {
			f.indexFields(field.SubFields)
		}
	}
}

// sealTableRows normalizes every table field's effective initial rows and
// assigns missing row ids, returning the override map Seed should apply.
func (f *Form) sealTableRows(initial map[string]any) map[string]any {
	overrides := make(map[string]any, len(initial))
	for key, value := range initial {
		overrides[key] = value
	}
	for id, field := range f.fields {
		if field.ComponentType != schema.ComponentTable {
			continue
		}
		raw, ok := overrides[id]
		if !ok {
			raw = field.Value
		}
		seeded := table.New(*field.TableConfig, coerce.Rows(raw))
		overrides[id] = seeded.Rows()
	}
	return overrides
}

// rebuildTables reconstructs every row engine from the store's current
// values. Used at construction and after Reset/SetFormData. Collaborator
// annotations (unread flags, notes) survive the rebuild for rows whose ids
// still exist; the engine stores and forwards them, it never discards them
// on its own.
func (f *Form) rebuildTables() {
	for id, field := range f.fields {
		if field.ComponentType != schema.ComponentTable {
			continue
		}
		value, _ := f.store.Get(id)
		t := table.New(*field.TableConfig, coerce.Rows(value))
		t.CarryAnnotations(f.tables[id])
		f.tables[id] = t
	}
}

// Warnings returns the configuration warnings collected at construction.
func (f *Form) Warnings() []schema.Warning {
	return append([]schema.Warning(nil), f.warnings...)
}

// FormData returns a deep copy of the current flat value snapshot.
func (f *Form) FormData() map[string]any {
	return f.store.Snapshot()
}

// Get returns the current value of one field.
func (f *Form) Get(fieldID string) (any, bool) {
	return f.store.Get(fieldID)
}

// Set normalizes a raw edit payload into the field's canonical value shape
// and commits it. Unknown keys are stored as-is so collaborators can stash
// annotation data alongside field values. Dependency re-evaluation and
// aggregation observe the write synchronously.
func (f *Form) Set(fieldID string, value any) {
	field, known := f.fields[fieldID]
	if !known || field.IsGroup() {
		f.store.Set(fieldID, value)
		return
	}
	normalized := coerce.Normalize(field.ComponentType, value)
	if field.ComponentType == schema.ComponentTable {
		t := table.New(*field.TableConfig, coerce.Rows(normalized))
		t.CarryAnnotations(f.tables[fieldID])
		f.tables[fieldID] = t
		f.store.Set(fieldID, t.Rows())
		return
	}
	f.store.Set(fieldID, normalized)
}

// SetFormData merges a flat snapshot into the form, key by key. Keys are
// applied in sorted order so change notifications are deterministic.
func (f *Form) SetFormData(values map[string]any) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		f.Set(key, values[key])
	}
}

// Reset restores the snapshot computed at initialization: schema defaults
// merged with any initial overrides, not blank values.
func (f *Form) Reset() {
	f.store.Reset()
	f.rebuildTables()
}

// OnField registers a synchronous single-field change listener.
func (f *Form) OnField(fn formdata.FieldListener) {
	f.store.OnField(fn)
}

// OnSnapshot registers a synchronous whole-form change listener.
func (f *Form) OnSnapshot(fn formdata.SnapshotListener) {
	f.store.OnSnapshot(fn)
}
