package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseFieldsSet decodes a FieldsSet document from JSON or YAML. The
// document as a whole must parse; per-field malformations are reported
// later by Lint and never abort decoding. Display text (labels,
// descriptions, option labels) is sanitized on the way in.
func ParseFieldsSet(raw []byte) (FieldsSet, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return FieldsSet{}, errors.New("schema: document is empty")
	}

	payload := raw
	if !looksLikeJSON(raw) {
		converted, err := yamlToJSON(raw)
		if err != nil {
			return FieldsSet{}, fmt.Errorf("schema: decode yaml document: %w", err)
		}
		payload = converted
	}

	var set FieldsSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return FieldsSet{}, fmt.Errorf("schema: decode document: %w", err)
	}

	sanitizeFieldsSet(&set)
	return set, nil
}

func looksLikeJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// yamlToJSON round-trips a YAML payload through JSON so the FieldsSet json
// tags apply to both formats.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprint(key)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return typed
	}
}

func sanitizeFieldsSet(set *FieldsSet) {
	set.Name = sanitizeMarkup(set.Name)
	sanitizeFields(set.Fields)
}

func sanitizeFields(fields []FieldConfig) {
	for i := range fields {
		field := &fields[i]
		field.Label = sanitizeMarkup(field.Label)
		field.Description = sanitizeMarkup(field.Description)
		sanitizeOptions(field.Options)
		if field.TableConfig != nil {
			for j := range field.TableConfig.Columns {
				column := &field.TableConfig.Columns[j]
				column.Label = sanitizeMarkup(column.Label)
				sanitizeOptions(column.Options)
				if column.Aggregation != nil {
					column.Aggregation.Label = sanitizeMarkup(column.Aggregation.Label)
				}
			}
		}
		sanitizeFields(field.SubFields)
	}
}

func sanitizeOptions(options []SelectOption) {
	for i := range options {
		options[i].Label = sanitizeMarkup(options[i].Label)
	}
}
