package engine

import (
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/visibility"
)

// IsVisible evaluates one field's own dependency against the current form
// values. Each node's dependency is evaluated independently; a field inside
// a hidden group still computes its own state here, and is only excluded
// from rendering because VisibleFields gates top-down by the parent.
func (f *Form) IsVisible(fieldID string) bool {
	field, ok := f.fields[fieldID]
	if !ok {
		return false
	}
	return f.eval.Eval(field.ID, field.Dependency, f.visibilityContext())
}

// RequiredNow reports whether the field's required flag is currently in
// force. A hidden required field is never enforced, so this gates on
// effective visibility: the field and every ancestor group must pass its
// dependency, not just the field's own.
func (f *Form) RequiredNow(fieldID string) bool {
	field, ok := f.fields[fieldID]
	if !ok {
		return false
	}
	if !field.Required {
		return false
	}
	_, visible := f.visibleInTree(f.set.Fields, fieldID, f.visibilityContext())
	return visible
}

// visibleInTree locates fieldID in the schema tree and reports whether the
// whole path to it is visible. The first return is whether the field was
// found in this subtree.
func (f *Form) visibleInTree(fields []schema.FieldConfig, fieldID string, ctx visibility.Context) (bool, bool) {
	for _, field := range fields {
		if !schema.Usable(field) {
			continue
		}
		if field.ID == fieldID {
			return true, f.eval.Eval(field.ID, field.Dependency, ctx)
		}
		if !field.IsGroup() {
			continue
		}
		if found, visible := f.visibleInTree(field.SubFields, fieldID, ctx); found {
			return true, visible && f.eval.Eval(field.ID, field.Dependency, ctx)
		}
	}
	return false, false
}

// VisibleFields returns the field tree filtered to currently visible
// nodes. Children of a hidden group are excluded regardless of their own
// dependency state, and malformed fields are skipped entirely.
func (f *Form) VisibleFields() []schema.FieldConfig {
	return f.filterVisible(f.set.Fields)
}

func (f *Form) filterVisible(fields []schema.FieldConfig) []schema.FieldConfig {
	if len(fields) == 0 {
		return nil
	}
	ctx := f.visibilityContext()
	result := make([]schema.FieldConfig, 0, len(fields))
	for _, field := range fields {
		if !schema.Usable(field) {
			continue
		}
		if !f.eval.Eval(field.ID, field.Dependency, ctx) {
			continue
		}
		if field.IsGroup() {
			field.SubFields = f.filterVisible(field.SubFields)
		}
		result = append(result, field)
	}
	return result
}

func (f *Form) visibilityContext() visibility.Context {
	return visibility.Context{
		Values: f.store.Values(),
		Extras: f.extras,
	}
}
