package engine

import (
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/table"
)

// Table returns the row engine behind a table-typed field.
func (f *Form) Table(fieldID string) (*table.Table, bool) {
	t, ok := f.tables[fieldID]
	return t, ok
}

// AddRow appends a default row to a table field. It reports false when the
// field is not a table or the table's max_rows cap is reached; the store is
// only written (and listeners notified) on success.
func (f *Form) AddRow(fieldID string) (table.Row, bool) {
	t, ok := f.tables[fieldID]
	if !ok {
		return nil, false
	}
	row, added := t.AddRow()
	if !added {
		return nil, false
	}
	f.store.Set(fieldID, t.Rows())
	return row, true
}

// DeleteRow removes one row by id. Deleting an absent row is an idempotent
// no-op and emits no change notification.
func (f *Form) DeleteRow(fieldID, rowID string) bool {
	t, ok := f.tables[fieldID]
	if !ok {
		return false
	}
	if !t.DeleteRow(rowID) {
		return false
	}
	f.store.Set(fieldID, t.Rows())
	return true
}

// UpdateCell replaces one cell value, revalidates that cell, and commits
// the row set back through the store. The value is stored even when
// validation fails; the error is advisory. Unknown field, row, or column
// ids are a no-op.
func (f *Form) UpdateCell(fieldID, rowID, columnID string, value any) bool {
	t, ok := f.tables[fieldID]
	if !ok {
		return false
	}
	if !t.UpdateCell(rowID, columnID, value) {
		return false
	}
	f.store.Set(fieldID, t.Rows())
	return true
}

// CellError returns the advisory validation message for one cell.
func (f *Form) CellError(fieldID, rowID, columnID string) string {
	t, ok := f.tables[fieldID]
	if !ok {
		return ""
	}
	return t.CellError(rowID, columnID)
}

// CellErrors returns the per-row, per-column error map of one table field.
func (f *Form) CellErrors(fieldID string) map[string]map[string]string {
	t, ok := f.tables[fieldID]
	if !ok {
		return nil
	}
	return t.Errors()
}

// Aggregations computes every configured column aggregate of a table
// field, keyed by column id. Columns without aggregation are absent from
// the result.
func (f *Form) Aggregations(fieldID string) map[string]float64 {
	t, ok := f.tables[fieldID]
	if !ok {
		return nil
	}
	return t.Aggregations()
}

// SetRowFlag stores a collaborator-supplied unread-discussion flag on one
// row. The engine forwards these flags into render state; it never
// computes them and they never participate in validation or aggregation.
func (f *Form) SetRowFlag(fieldID, rowID string, unread bool) {
	if t, ok := f.tables[fieldID]; ok {
		t.SetUnread(rowID, unread)
	}
}

// RowFlag reports the stored unread-discussion flag for one row.
func (f *Form) RowFlag(fieldID, rowID string) bool {
	t, ok := f.tables[fieldID]
	if !ok {
		return false
	}
	return t.Unread(rowID)
}

// SetRowNotes stores a collaborator-supplied note thread on one row.
func (f *Form) SetRowNotes(fieldID, rowID string, notes []schema.Note) {
	if t, ok := f.tables[fieldID]; ok {
		t.SetNotes(rowID, notes)
	}
}

// NotesData returns all stored notes grouped by table field id.
func (f *Form) NotesData() map[string][]schema.Note {
	out := make(map[string][]schema.Note)
	for fieldID, t := range f.tables {
		if notes := t.Notes(); len(notes) > 0 {
			out[fieldID] = notes
		}
	}
	return out
}
