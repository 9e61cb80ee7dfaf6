// Package table implements CRUD over the dynamic row collection of a
// table-typed field, cell-level validation bookkeeping, and column
// aggregation.
package table

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-formengine/pkg/coerce"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// Row is one record of a table field. Dynamic keys match column ids; an
// absent key means "no value yet", distinct from an explicit empty string.
type Row = map[string]any

// RowIDKey holds the generated row identity. It is unique, immutable for
// the row's lifetime, and independent of position, so a host UI can track
// rows across reorders and deletions without a stable array index.
const RowIDKey = "_row_id"

// Table owns the row set of one table field. Rows live in an append-only
// list keyed by generated id; deletions remove by id, never by index, and
// ids are never reused.
type Table struct {
	config schema.DataTableConfig
	rows   []Row
	errors map[string]map[string]string
	unread map[string]bool
	notes  map[string][]schema.Note
}

// New builds a Table from its column config and any schema-supplied initial
// rows. Initial rows missing an id are assigned one; their cells are
// validated so pre-existing constraint violations surface immediately.
func New(config schema.DataTableConfig, initial []Row) *Table {
	t := &Table{
		config: config,
		errors: make(map[string]map[string]string),
		unread: make(map[string]bool),
		notes:  make(map[string][]schema.Note),
	}
	for _, row := range initial {
		clone := cloneRow(row)
		if rowID(clone) == "" {
			clone[RowIDKey] = newRowID()
		}
		t.rows = append(t.rows, clone)
		t.validateRow(clone)
	}
	return t
}

// Config returns the table's column configuration.
func (t *Table) Config() schema.DataTableConfig {
	return t.config
}

// Len reports the current row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the row set in insertion order.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, cloneRow(row))
	}
	return out
}

// AddRow appends a new row with a fresh id and one default per column:
// false for checkbox columns, empty string otherwise. It reports false and
// leaves the table untouched when the config disallows adding rows or when
// max_rows is set and already reached. Seeded initial rows bypass the
// policy; it gates interactive growth only.
func (t *Table) AddRow() (Row, bool) {
	if !t.config.AllowAddRow {
		return nil, false
	}
	if t.config.MaxRows > 0 && len(t.rows) >= t.config.MaxRows {
		return nil, false
	}
	row := Row{RowIDKey: newRowID()}
	for _, column := range t.config.Columns {
		row[column.ID] = columnDefault(column)
	}
	t.rows = append(t.rows, row)
	return cloneRow(row), true
}

// DeleteRow removes the row with the given id. Deleting an absent row, or
// any row when the config disallows deletion, is an idempotent no-op; it
// reports whether a row was removed.
func (t *Table) DeleteRow(id string) bool {
	if !t.config.AllowDeleteRow {
		return false
	}
	for i, row := range t.rows {
		if rowID(row) != id {
			continue
		}
		t.rows = append(t.rows[:i], t.rows[i+1:]...)
		delete(t.errors, id)
		delete(t.unread, id)
		delete(t.notes, id)
		return true
	}
	return false
}

// UpdateCell replaces the value at row/column and immediately revalidates
// that one cell. The value is always committed; a validation failure is
// recorded as an advisory message, not a rejection. Unknown row or column
// ids are a no-op.
func (t *Table) UpdateCell(id, columnID string, value any) bool {
	column, ok := t.config.Column(columnID)
	if !ok {
		return false
	}
	if column.FieldType == schema.ColumnFiles {
		// File cells store opaque descriptor records; the engine never
		// touches the underlying bytes.
		value = coerce.Files(value)
	}
	for _, row := range t.rows {
		if rowID(row) != id {
			continue
		}
		row[columnID] = value
		t.setCellError(id, columnID, validation.Cell(value, column))
		return true
	}
	return false
}

// CellError returns the advisory validation message for one cell, or ""
// when the cell is valid or unknown.
func (t *Table) CellError(id, columnID string) string {
	return t.errors[id][columnID]
}

// Errors returns a copy of the per-row, per-column error map.
func (t *Table) Errors() map[string]map[string]string {
	out := make(map[string]map[string]string, len(t.errors))
	for id, columns := range t.errors {
		if len(columns) == 0 {
			continue
		}
		clone := make(map[string]string, len(columns))
		for columnID, message := range columns {
			clone[columnID] = message
		}
		out[id] = clone
	}
	return out
}

// SetUnread stores the collaborator-supplied "has unread discussion" flag
// for a row. The engine forwards the flag; it never computes it.
func (t *Table) SetUnread(id string, unread bool) {
	if t.hasRow(id) {
		t.unread[id] = unread
	}
}

// Unread reports the stored discussion flag for a row.
func (t *Table) Unread(id string) bool {
	return t.unread[id]
}

// SetNotes stores the collaborator-supplied note list for a row.
func (t *Table) SetNotes(id string, notes []schema.Note) {
	if t.hasRow(id) {
		t.notes[id] = append([]schema.Note(nil), notes...)
	}
}

// CarryAnnotations copies unread flags and note threads from prev for rows
// that still exist in t. Annotations belong to row identities, so a table
// rebuilt from a new row snapshot keeps them for every surviving id.
func (t *Table) CarryAnnotations(prev *Table) {
	if prev == nil {
		return
	}
	for _, row := range t.rows {
		id := rowID(row)
		if unread, ok := prev.unread[id]; ok {
			t.unread[id] = unread
		}
		if notes, ok := prev.notes[id]; ok {
			t.notes[id] = append([]schema.Note(nil), notes...)
		}
	}
}

// Notes returns all stored notes across rows, in row order.
func (t *Table) Notes() []schema.Note {
	var out []schema.Note
	for _, row := range t.rows {
		out = append(out, t.notes[rowID(row)]...)
	}
	return out
}

func (t *Table) validateRow(row Row) {
	id := rowID(row)
	for _, column := range t.config.Columns {
		value, ok := row[column.ID]
		if !ok {
			continue
		}
		t.setCellError(id, column.ID, validation.Cell(value, column))
	}
}

func (t *Table) setCellError(id, columnID, message string) {
	if message == "" {
		if columns, ok := t.errors[id]; ok {
			delete(columns, columnID)
			if len(columns) == 0 {
				delete(t.errors, id)
			}
		}
		return
	}
	if t.errors[id] == nil {
		t.errors[id] = make(map[string]string)
	}
	t.errors[id][columnID] = message
}

func (t *Table) hasRow(id string) bool {
	for _, row := range t.rows {
		if rowID(row) == id {
			return true
		}
	}
	return false
}

func columnDefault(column schema.DataTableColumn) any {
	if column.FieldType == schema.ColumnCheckbox {
		return false
	}
	return ""
}

func rowID(row Row) string {
	id, _ := row[RowIDKey].(string)
	return id
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func newRowID() string {
	return uuid.NewString()
}
