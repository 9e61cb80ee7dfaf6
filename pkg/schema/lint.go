package schema

import "fmt"

// Warning flags a malformed field configuration. Warnings are advisory:
// the engine skips the offending field and keeps processing its siblings.
type Warning struct {
	FieldID string `json:"field_id,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.FieldID == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.FieldID, w.Message)
}

// KnownComponent reports whether the component type maps to a recognized
// value shape.
func KnownComponent(ct ComponentType) bool {
	switch ct {
	case ComponentText, ComponentTextArea, ComponentCheckbox, ComponentSelect,
		ComponentRadioGroup, ComponentDate, ComponentDateRange, ComponentTable:
		return true
	default:
		return false
	}
}

// Lint walks the field tree and reports configuration errors as non-fatal
// warnings. A field with a warning renders as absent; one malformed field
// in a large schema must not break the rest of the form.
func Lint(set FieldsSet) []Warning {
	var warnings []Warning
	seen := make(map[string]struct{})
	lintFields(set.Fields, seen, &warnings)
	return warnings
}

func lintFields(fields []FieldConfig, seen map[string]struct{}, warnings *[]Warning) {
	for _, field := range fields {
		if field.ID == "" {
			*warnings = append(*warnings, Warning{Message: "field is missing an id"})
			continue
		}
		if _, dup := seen[field.ID]; dup {
			*warnings = append(*warnings, Warning{FieldID: field.ID, Message: "duplicate field id"})
		}
		seen[field.ID] = struct{}{}

		if field.IsGroup() {
			lintFields(field.SubFields, seen, warnings)
			continue
		}

		if !KnownComponent(field.ComponentType) {
			*warnings = append(*warnings, Warning{
				FieldID: field.ID,
				Message: fmt.Sprintf("unknown component type %q", field.ComponentType),
			})
			continue
		}

		if field.ComponentType == ComponentTable {
			lintTable(field, warnings)
		}
	}
}

func lintTable(field FieldConfig, warnings *[]Warning) {
	if field.TableConfig == nil {
		*warnings = append(*warnings, Warning{FieldID: field.ID, Message: "table field is missing table_config"})
		return
	}
	if len(field.TableConfig.Columns) == 0 {
		*warnings = append(*warnings, Warning{FieldID: field.ID, Message: "table_config has no columns"})
		return
	}
	columns := make(map[string]struct{}, len(field.TableConfig.Columns))
	for _, column := range field.TableConfig.Columns {
		if column.ID == "" {
			*warnings = append(*warnings, Warning{FieldID: field.ID, Message: "table column is missing an id"})
			continue
		}
		if _, dup := columns[column.ID]; dup {
			*warnings = append(*warnings, Warning{
				FieldID: field.ID,
				Message: fmt.Sprintf("duplicate column id %q", column.ID),
			})
		}
		columns[column.ID] = struct{}{}
	}
}

// Usable reports whether the engine can bind a value to the field. Groups
// are always usable; leaves need a recognized component type and, for
// tables, a column list.
func Usable(field FieldConfig) bool {
	if field.ID == "" {
		return false
	}
	if field.IsGroup() {
		return true
	}
	if !KnownComponent(field.ComponentType) {
		return false
	}
	if field.ComponentType == ComponentTable {
		return field.TableConfig != nil && len(field.TableConfig.Columns) > 0
	}
	return true
}
