// Package formdata owns the flat, mutable field_id -> value map behind a
// live form. One Store exists per active form; it is passed by reference to
// every consumer, never held as a package-level singleton.
package formdata

import (
	"github.com/goliatone/go-formengine/pkg/coerce"
	"github.com/goliatone/go-formengine/pkg/schema"
)

// FieldListener observes single-field changes. Listeners run synchronously
// inside Set, before it returns.
type FieldListener func(fieldID string, value any)

// SnapshotListener observes whole-form changes after every mutation.
type SnapshotListener func(values map[string]any)

// Store is the single shared mutable resource of the engine: a flat map of
// field id to current value. Nesting in the schema tree is not reflected in
// storage. All access is assumed to happen on one logical thread of
// control; the engine model is single-threaded and synchronous.
type Store struct {
	values            map[string]any
	initial           map[string]any
	fieldListeners    []FieldListener
	snapshotListeners []SnapshotListener
}

// Seed initializes a Store by walking the field tree depth-first and
// normalizing each usable leaf's initial value into its canonical shape.
// Overrides are merged over schema defaults after seeding; later keys win.
// The merged result becomes the reset snapshot.
func Seed(set schema.FieldsSet, overrides map[string]any) *Store {
	values := make(map[string]any)
	seedFields(set.Fields, values)

	for key, raw := range overrides {
		if ct, ok := componentTypeOf(set.Fields, key); ok {
			values[key] = coerce.Normalize(ct, raw)
			continue
		}
		// Keys outside the schema are stored as-is; collaborators may stash
		// annotation data alongside field values.
		values[key] = raw
	}

	return &Store{
		values:  values,
		initial: cloneValues(values),
	}
}

func seedFields(fields []schema.FieldConfig, dest map[string]any) {
	for _, field := range fields {
		if field.IsGroup() {
			seedFields(field.SubFields, dest)
			continue
		}
		if !schema.Usable(field) {
			continue
		}
		dest[field.ID] = coerce.Normalize(field.ComponentType, field.Value)
	}
}

func componentTypeOf(fields []schema.FieldConfig, id string) (schema.ComponentType, bool) {
	for _, field := range fields {
		if field.IsGroup() {
			if ct, ok := componentTypeOf(field.SubFields, id); ok {
				return ct, true
			}
			continue
		}
		if field.ID == id && schema.Usable(field) {
			return field.ComponentType, true
		}
	}
	return "", false
}

// OnField registers a synchronous single-field change listener.
func (s *Store) OnField(fn FieldListener) {
	if fn != nil {
		s.fieldListeners = append(s.fieldListeners, fn)
	}
}

// OnSnapshot registers a synchronous whole-form change listener.
func (s *Store) OnSnapshot(fn SnapshotListener) {
	if fn != nil {
		s.snapshotListeners = append(s.snapshotListeners, fn)
	}
}

// Get returns the current value for a field id.
func (s *Store) Get(fieldID string) (any, bool) {
	value, ok := s.values[fieldID]
	return value, ok
}

// Set replaces the value for one key. The write is atomic and immediately
// visible to subsequent Gets; listeners fire before Set returns so
// dependency re-evaluation and aggregation observe the new value
// synchronously.
func (s *Store) Set(fieldID string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[fieldID] = value
	s.notify(fieldID, value)
}

// Reset restores the exact snapshot computed at initialization: schema
// defaults merged with any externally supplied overrides, not empty
// values. This backs a "discard edits" semantic.
func (s *Store) Reset() {
	s.values = cloneValues(s.initial)
	for fieldID, value := range s.values {
		for _, fn := range s.fieldListeners {
			fn(fieldID, value)
		}
	}
	s.notifySnapshot()
}

// Snapshot returns a deep copy of the current values.
func (s *Store) Snapshot() map[string]any {
	return cloneValues(s.values)
}

// Values returns the live value map for read-only consumers such as the
// dependency resolver. Callers must not mutate it; use Set.
func (s *Store) Values() map[string]any {
	return s.values
}

func (s *Store) notify(fieldID string, value any) {
	for _, fn := range s.fieldListeners {
		fn(fieldID, value)
	}
	s.notifySnapshot()
}

func (s *Store) notifySnapshot() {
	if len(s.snapshotListeners) == 0 {
		return
	}
	snapshot := s.Snapshot()
	for _, fn := range s.snapshotListeners {
		fn(snapshot)
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []map[string]any:
		clone := make([]map[string]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v).(map[string]any)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
