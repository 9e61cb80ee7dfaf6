// Package depexpr implements the "field_id:expected_value" dependency rule
// used by FieldsSet documents to gate field visibility.
package depexpr

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/pkg/visibility"
)

// Evaluator resolves dependency expressions against the current form values.
//
// Rule grammar: a single colon splits the expression into a referenced field
// id and an expected value. The field is visible iff the stringified stored
// value equals the expected value, so boolean true matches the literal
// "true" and numeric 2 matches "2". An empty rule means no dependency, and
// a rule with zero or more than one colon is malformed; both yield visible.
type Evaluator struct{}

// New returns a dependency-expression evaluator.
func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval reports whether the field gated by rule should be visible.
func (e *Evaluator) Eval(fieldID, rule string, ctx visibility.Context) bool {
	_ = fieldID
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		// Malformed expression; misconfiguration must not hide content.
		return true
	}

	target := strings.TrimSpace(parts[0])
	expected := parts[1]

	var value any
	if ctx.Values != nil {
		value = ctx.Values[target]
	}
	return coerceString(value) == expected
}

// coerceString mirrors JavaScript-style stringification for the value kinds
// a form data store holds. Missing values stringify to the empty string.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case []byte:
		return string(v)
	default:
		return ""
	}
}
