package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/pkg/schema"
)

// Compute evaluates the column's aggregation over the full row set. It
// reports ok=false when no aggregation is configured (or type is "none"),
// so callers can distinguish "nothing to display" from a zero result.
//
// Candidate values are cells that already hold a number or a string that
// parses as a finite number; anything else is silently skipped, not
// treated as zero. Aggregates recompute from scratch on every call; row
// counts are expected in the tens, not millions.
func Compute(column schema.DataTableColumn, rows []Row) (float64, bool) {
	if column.Aggregation == nil || column.Aggregation.Type == schema.AggregationNone || column.Aggregation.Type == "" {
		return 0, false
	}

	var sum float64
	var count int
	for _, row := range rows {
		value, ok := numericCell(row[column.ID])
		if !ok {
			continue
		}
		sum += value
		count++
	}

	switch column.Aggregation.Type {
	case schema.AggregationSum:
		return sum, true
	case schema.AggregationAverage:
		if count == 0 {
			return 0, true
		}
		return sum / float64(count), true
	case schema.AggregationCount:
		return float64(count), true
	default:
		return 0, false
	}
}

// Aggregations computes every configured column aggregate, keyed by column
// id.
func (t *Table) Aggregations() map[string]float64 {
	out := make(map[string]float64)
	for _, column := range t.config.Columns {
		if value, ok := Compute(column, t.rows); ok {
			out[column.ID] = value
		}
	}
	return out
}

func numericCell(value any) (float64, bool) {
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
		// ParseFloat accepts "NaN" and "Inf" without error; one such cell
		// must not poison a whole column.
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
