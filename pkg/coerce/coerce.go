// Package coerce routes schema component types to their canonical stored
// value shape and normalizes raw values into that shape. Malformed values
// never error; they degrade to the shape's safe default so a stored value
// keeps a stable type for the lifetime of its field.
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formengine/pkg/schema"
)

// Kind is the closed set of value shapes a field can store.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindRows
	KindDate
	KindDateRange
)

// isoDate is the canonical on-wire calendar date layout, independent of
// locale or timezone.
const isoDate = "2006-01-02"

// KindOf maps a component type to its value shape. Unknown component types
// report ok=false; the engine skips such fields.
func KindOf(ct schema.ComponentType) (Kind, bool) {
	switch ct {
	case schema.ComponentText, schema.ComponentTextArea,
		schema.ComponentSelect, schema.ComponentRadioGroup:
		return KindString, true
	case schema.ComponentCheckbox:
		return KindBool, true
	case schema.ComponentTable:
		return KindRows, true
	case schema.ComponentDate:
		return KindDate, true
	case schema.ComponentDateRange:
		return KindDateRange, true
	default:
		return KindString, false
	}
}

// Normalize converts a raw edit payload or externally supplied value into
// the canonical stored shape for the component type.
func Normalize(ct schema.ComponentType, raw any) any {
	kind, ok := KindOf(ct)
	if !ok {
		return nil
	}
	switch kind {
	case KindBool:
		return Bool(raw)
	case KindRows:
		return Rows(raw)
	case KindDate:
		return Date(raw)
	case KindDateRange:
		return DateRange(raw)
	default:
		return String(raw)
	}
}

// String normalizes text-shaped values. Select and radio values are plain
// strings; a stored value that no longer matches the configured option set
// renders as unselected, which is the caller's concern, not an error here.
func String(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Bool coerces checkbox values. Externally supplied snapshots may carry
// stringly-typed booleans; "true" (any case) and boolean true coerce to
// true, anything else to false.
func Bool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// Rows coerces a table value into a row slice. Non-array values coerce to
// an empty slice rather than erroring. Row maps are shallow-copied so the
// caller owns the slice.
func Rows(raw any) []map[string]any {
	switch v := raw.(type) {
	case []map[string]any:
		out := make([]map[string]any, 0, len(v))
		for _, row := range v {
			out = append(out, cloneRow(row))
		}
		return out
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if row, ok := item.(map[string]any); ok {
				out = append(out, cloneRow(row))
			}
		}
		return out
	default:
		return []map[string]any{}
	}
}

// Date coerces a date value to its ISO string form. Absence is the empty
// string, never nil, and anything that does not parse as a calendar date
// degrades to empty.
func Date(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := time.Parse(isoDate, s); err != nil {
		return ""
	}
	return s
}

// DateRange coerces a date-range value to a pair of independently optional
// ISO date strings.
func DateRange(raw any) schema.DateRange {
	switch v := raw.(type) {
	case schema.DateRange:
		return schema.DateRange{From: Date(v.From), To: Date(v.To)}
	case map[string]any:
		return schema.DateRange{From: Date(v["from"]), To: Date(v["to"])}
	default:
		return schema.DateRange{}
	}
}

// Files coerces a file-attachment cell into its descriptor list. The
// records stay opaque to the engine.
func Files(raw any) []schema.FileDescriptor {
	switch v := raw.(type) {
	case []schema.FileDescriptor:
		return append([]schema.FileDescriptor(nil), v...)
	case []any:
		out := make([]schema.FileDescriptor, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, schema.FileDescriptor{
				ID:        String(m["id"]),
				Path:      String(m["path"]),
				Name:      String(m["name"]),
				Size:      int64(number(m["size"])),
				MIMEType:  String(m["mime_type"]),
				Timestamp: String(m["timestamp"]),
			})
		}
		return out
	default:
		return nil
	}
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func number(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
