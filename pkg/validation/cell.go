// Package validation evaluates declarative column constraints against
// individual cell values. Results are advisory messages, never errors: a
// failing value is still committed so partially invalid in-progress input
// stays editable.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/pkg/schema"
)

// Cell checks one value against one column's constraints and returns the
// first failing rule's message, or "" when the value passes. Rules apply in
// a fixed order and short-circuit: required, then numeric parse and bounds
// for numeric columns, then length and pattern for text columns. Dropdown,
// checkbox, radiobutton and files columns are structurally constrained by
// their input mechanism and carry no declarative rules.
func Cell(value any, column schema.DataTableColumn) string {
	constraints := column.Constraints
	if constraints == nil {
		constraints = &schema.ColumnConstraints{}
	}

	if isEmpty(value) {
		if constraints.Required {
			return "Required"
		}
		// Required is the only rule enforced on empty values.
		return ""
	}

	switch column.FieldType {
	case schema.ColumnNumeric:
		return numericCell(value, constraints)
	case schema.ColumnText:
		return textCell(value, constraints)
	default:
		return ""
	}
}

func numericCell(value any, constraints *schema.ColumnConstraints) string {
	number, ok := parseNumber(value)
	if !ok {
		return "Invalid number"
	}
	if constraints.Min != nil && number < *constraints.Min {
		return "Minimum: " + formatBound(*constraints.Min)
	}
	if constraints.Max != nil && number > *constraints.Max {
		return "Maximum: " + formatBound(*constraints.Max)
	}
	if constraints.NumDecimals != nil && decimals(value) > *constraints.NumDecimals {
		return fmt.Sprintf("Maximum %d decimal places", *constraints.NumDecimals)
	}
	return ""
}

func textCell(value any, constraints *schema.ColumnConstraints) string {
	text := stringValue(value)
	if constraints.Length != nil && len([]rune(text)) > *constraints.Length {
		return fmt.Sprintf("Maximum %d characters", *constraints.Length)
	}
	if constraints.Regex != "" {
		re, err := regexp.Compile("\\A(?:" + constraints.Regex + ")\\z")
		if err != nil {
			// Unparseable pattern is a configuration error; fail soft.
			return ""
		}
		if !re.MatchString(text) {
			return "Invalid format"
		}
	}
	return ""
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, finite(v)
	case float32:
		return float64(v), finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		// ParseFloat accepts "NaN" and "Inf" without error; NaN compares
		// false against both bounds and would sail through min/max.
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// decimals counts fractional digits from the value's string form so "1.50"
// reports two even though it parses equal to 1.5.
func decimals(value any) int {
	text := stringValue(value)
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		return len(text) - idx - 1
	}
	return 0
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}
