package validation

import (
	"math"
	"testing"

	"github.com/goliatone/go-formengine/pkg/schema"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCellNumericBounds(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:        "amount",
		FieldType: schema.ColumnNumeric,
		Constraints: &schema.ColumnConstraints{
			Required: true,
			Min:      floatPtr(0),
			Max:      floatPtr(100),
		},
	}

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "empty is required", value: "", want: "Required"},
		{name: "nil is required", value: nil, want: "Required"},
		{name: "above max", value: "150", want: "Maximum: 100"},
		{name: "below min", value: "-1", want: "Minimum: 0"},
		{name: "in range", value: "50", want: ""},
		{name: "numeric type in range", value: float64(50), want: ""},
		{name: "not a number", value: "abc", want: "Invalid number"},
		{name: "nan string", value: "NaN", want: "Invalid number"},
		{name: "infinity string", value: "Inf", want: "Invalid number"},
		{name: "nan value", value: math.NaN(), want: "Invalid number"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Cell(tc.value, column); got != tc.want {
				t.Fatalf("Cell(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestCellEmptyNotRequired(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:        "amount",
		FieldType: schema.ColumnNumeric,
		Constraints: &schema.ColumnConstraints{
			Min: floatPtr(10),
		},
	}
	if got := Cell("", column); got != "" {
		t.Fatalf("empty non-required cell should pass, got %q", got)
	}
}

func TestCellTextRules(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:        "code",
		FieldType: schema.ColumnText,
		Constraints: &schema.ColumnConstraints{
			Length: intPtr(5),
			Regex:  "[A-Z]+",
		},
	}

	if got := Cell("ABCDEF", column); got != "Maximum 5 characters" {
		t.Fatalf("length rule = %q", got)
	}
	if got := Cell("abc", column); got != "Invalid format" {
		t.Fatalf("pattern rule = %q", got)
	}
	// The whole string must match, not just a substring.
	if got := Cell("AB1", column); got != "Invalid format" {
		t.Fatalf("partial match should fail, got %q", got)
	}
	if got := Cell("ABC", column); got != "" {
		t.Fatalf("valid value = %q", got)
	}
}

func TestCellInvalidPatternFailsSoft(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:          "code",
		FieldType:   schema.ColumnText,
		Constraints: &schema.ColumnConstraints{Regex: "("},
	}
	if got := Cell("anything", column); got != "" {
		t.Fatalf("unparseable pattern is a config error, not a cell error; got %q", got)
	}
}

func TestCellNumDecimals(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:          "price",
		FieldType:   schema.ColumnNumeric,
		Constraints: &schema.ColumnConstraints{NumDecimals: intPtr(2)},
	}
	if got := Cell("10.123", column); got != "Maximum 2 decimal places" {
		t.Fatalf("decimals rule = %q", got)
	}
	if got := Cell("10.12", column); got != "" {
		t.Fatalf("two decimals should pass, got %q", got)
	}
}

func TestCellOtherKindsUnvalidated(t *testing.T) {
	t.Parallel()

	column := schema.DataTableColumn{
		ID:          "choice",
		FieldType:   schema.ColumnDropdown,
		Constraints: &schema.ColumnConstraints{Min: floatPtr(5)},
	}
	if got := Cell("whatever", column); got != "" {
		t.Fatalf("dropdown cells carry no declarative rules, got %q", got)
	}
}
