package engine

import (
	"testing"

	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/table"
)

func intakeSet() schema.FieldsSet {
	min := 0.0
	return schema.FieldsSet{
		Name: "intake",
		Fields: []schema.FieldConfig{
			{ID: "name", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentText, Required: true},
			{ID: "subscribed", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentCheckbox, Value: false},
			{
				ID:         "details",
				FieldType:  schema.FieldTypeGroup,
				Dependency: "subscribed:true",
				SubFields: []schema.FieldConfig{
					{ID: "frequency", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentSelect, Required: true,
						Options: []schema.SelectOption{{Label: "Weekly", Value: "weekly"}}},
					{ID: "digest", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentCheckbox,
						Dependency: "frequency:weekly"},
				},
			},
			{
				ID:            "expenses",
				FieldType:     schema.FieldTypeField,
				ComponentType: schema.ComponentTable,
				TableConfig: &schema.DataTableConfig{
					AllowAddRow:    true,
					AllowDeleteRow: true,
					Columns: []schema.DataTableColumn{
						{
							ID:          "amount",
							FieldType:   schema.ColumnNumeric,
							Constraints: &schema.ColumnConstraints{Required: true, Min: &min},
							Aggregation: &schema.AggregationConfig{Type: schema.AggregationSum, Label: "Total"},
						},
					},
				},
				Value: []any{map[string]any{"amount": "10"}},
			},
		},
	}
}

func TestVisibilityGatesGroupChildren(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())

	if !form.IsVisible("name") {
		t.Fatalf("field without dependency should be visible")
	}
	if form.IsVisible("details") {
		t.Fatalf("details should be hidden while subscribed is false")
	}

	visible := form.VisibleFields()
	for _, field := range visible {
		if field.ID == "details" {
			t.Fatalf("hidden group leaked into VisibleFields")
		}
	}

	form.Set("subscribed", true)
	if !form.IsVisible("details") {
		t.Fatalf("details should appear after subscribing")
	}

	// The nested dependency gates on a sibling inside the group.
	if form.IsVisible("digest") {
		t.Fatalf("digest should wait for frequency")
	}
	form.Set("frequency", "weekly")
	if !form.IsVisible("digest") {
		t.Fatalf("digest should follow frequency=weekly")
	}

	visible = form.VisibleFields()
	var details *schema.FieldConfig
	for i := range visible {
		if visible[i].ID == "details" {
			details = &visible[i]
		}
	}
	if details == nil || len(details.SubFields) != 2 {
		t.Fatalf("visible tree missing expanded group: %+v", visible)
	}
}

func TestRequiredNowTracksVisibility(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())

	if !form.RequiredNow("name") {
		t.Fatalf("visible required field should be enforced")
	}
	if form.RequiredNow("frequency") {
		t.Fatalf("required field in a hidden group should not be enforced")
	}
	form.Set("subscribed", true)
	if !form.RequiredNow("frequency") {
		t.Fatalf("frequency should become required once its group shows")
	}
}

func TestRequiredNowIgnoresHiddenAncestors(t *testing.T) {
	t.Parallel()

	set := schema.FieldsSet{
		Fields: []schema.FieldConfig{
			{ID: "subscribed", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentCheckbox},
			{
				ID:         "outer",
				FieldType:  schema.FieldTypeGroup,
				Dependency: "subscribed:true",
				SubFields: []schema.FieldConfig{
					{
						ID:        "inner",
						FieldType: schema.FieldTypeGroup,
						SubFields: []schema.FieldConfig{
							{ID: "email", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentText, Required: true},
						},
					},
				},
			},
		},
	}
	form := New(set)

	// email has no dependency of its own, but the outer group is hidden,
	// so its required flag must not be in force.
	if form.RequiredNow("email") {
		t.Fatalf("required field under a hidden ancestor must not be enforced")
	}
	form.Set("subscribed", true)
	if !form.RequiredNow("email") {
		t.Fatalf("email should be enforced once every ancestor is visible")
	}
}

func TestConstructionDoesNotNotify(t *testing.T) {
	t.Parallel()

	var fires int
	New(intakeSet(),
		WithInitialData(map[string]any{"name": "ada"}),
		WithFieldListener(func(string, any) { fires++ }),
		WithSnapshotListener(func(map[string]any) { fires++ }),
	)
	if fires != 0 {
		t.Fatalf("listeners fired %d times during construction", fires)
	}
}

func TestSetNormalizesAndNotifies(t *testing.T) {
	t.Parallel()

	var lastField string
	var lastValue any
	form := New(intakeSet(), WithFieldListener(func(fieldID string, value any) {
		lastField = fieldID
		lastValue = value
	}))

	form.Set("subscribed", "true")
	if lastField != "subscribed" || lastValue != true {
		t.Fatalf("listener got (%q, %v), want normalized bool", lastField, lastValue)
	}
	if got, _ := form.Get("subscribed"); got != true {
		t.Fatalf("subscribed = %v", got)
	}

	// Unknown keys pass through untouched.
	form.Set("annotation", 42)
	if got, _ := form.Get("annotation"); got != 42 {
		t.Fatalf("annotation = %v", got)
	}
}

func TestTableLifecycleThroughForm(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())

	tbl, ok := form.Table("expenses")
	if !ok || tbl.Len() != 1 {
		t.Fatalf("seeded table missing: ok=%v len=%d", ok, tbl.Len())
	}

	row, added := form.AddRow("expenses")
	if !added {
		t.Fatalf("AddRow failed")
	}
	id := row[table.RowIDKey].(string)

	if !form.UpdateCell("expenses", id, "amount", "-3") {
		t.Fatalf("UpdateCell failed")
	}
	if got := form.CellError("expenses", id, "amount"); got != "Minimum: 0" {
		t.Fatalf("cell error = %q", got)
	}

	// The committed value still flows into the snapshot and aggregates.
	rows := form.FormData()["expenses"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("snapshot rows = %d", len(rows))
	}
	if got := form.Aggregations("expenses")["amount"]; got != 7 {
		t.Fatalf("sum = %v, want 10 + -3", got)
	}

	if !form.DeleteRow("expenses", id) {
		t.Fatalf("DeleteRow failed")
	}
	if form.DeleteRow("expenses", id) {
		t.Fatalf("repeated delete should be a no-op")
	}
	if _, ok := form.AddRow("missing"); ok {
		t.Fatalf("AddRow on an unknown field should fail")
	}
	if _, ok := form.AddRow("name"); ok {
		t.Fatalf("AddRow on a non-table field should fail")
	}
}

func TestResetRestoresRowIdentities(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())

	tbl, _ := form.Table("expenses")
	seededID := tbl.Rows()[0][table.RowIDKey].(string)
	if seededID == "" {
		t.Fatalf("seeded row has no id")
	}

	extra, _ := form.AddRow("expenses")
	form.UpdateCell("expenses", seededID, "amount", "999")

	form.Reset()

	tbl, _ = form.Table("expenses")
	rows := tbl.Rows()
	if len(rows) != 1 {
		t.Fatalf("reset should drop the added row, got %d rows", len(rows))
	}
	if rows[0][table.RowIDKey] != seededID {
		t.Fatalf("reset regenerated the seeded row id")
	}
	if rows[0]["amount"] != "10" {
		t.Fatalf("reset should restore the seeded cell, got %v", rows[0]["amount"])
	}
	if extra[table.RowIDKey] == seededID {
		t.Fatalf("added row reused the seeded id")
	}
}

func TestWarningsSurfaceConfigErrors(t *testing.T) {
	t.Parallel()

	set := intakeSet()
	set.Fields = append(set.Fields, schema.FieldConfig{
		ID: "mystery", FieldType: schema.FieldTypeField, ComponentType: "hologram",
	})
	form := New(set)

	warnings := form.Warnings()
	if len(warnings) != 1 || warnings[0].FieldID != "mystery" {
		t.Fatalf("warnings = %+v", warnings)
	}
	// The malformed field is skipped, the rest of the form stays live.
	if form.IsVisible("mystery") {
		t.Fatalf("malformed field should not be indexed")
	}
	if !form.IsVisible("name") {
		t.Fatalf("healthy fields must survive a malformed sibling")
	}
}

func TestRowFlagsAndNotesThroughForm(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())
	tbl, _ := form.Table("expenses")
	id := tbl.Rows()[0][table.RowIDKey].(string)

	form.SetRowFlag("expenses", id, true)
	if !form.RowFlag("expenses", id) {
		t.Fatalf("row flag lost")
	}

	form.SetRowNotes("expenses", id, []schema.Note{{ID: "n1", RowID: id, Body: "verify receipt"}})
	notes := form.NotesData()
	if len(notes["expenses"]) != 1 || notes["expenses"][0].Body != "verify receipt" {
		t.Fatalf("notes data = %+v", notes)
	}
}

func TestAnnotationsSurviveSnapshotMerge(t *testing.T) {
	t.Parallel()

	form := New(intakeSet())
	tbl, _ := form.Table("expenses")
	id := tbl.Rows()[0][table.RowIDKey].(string)

	form.SetRowFlag("expenses", id, true)
	form.SetRowNotes("expenses", id, []schema.Note{{ID: "n1", RowID: id, Body: "verify receipt"}})

	// Merging a snapshot rebuilds the row engine; annotations follow the
	// surviving row ids.
	form.SetFormData(map[string]any{"expenses": tbl.Rows()})

	if !form.RowFlag("expenses", id) {
		t.Fatalf("unread flag lost after snapshot merge")
	}
	notes := form.NotesData()
	if len(notes["expenses"]) != 1 || notes["expenses"][0].ID != "n1" {
		t.Fatalf("notes lost after snapshot merge: %+v", notes)
	}
}

func TestExtrasReachEvaluator(t *testing.T) {
	t.Parallel()

	set := schema.FieldsSet{
		Fields: []schema.FieldConfig{
			{ID: "role", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentText},
			{ID: "audit", FieldType: schema.FieldTypeField, ComponentType: schema.ComponentText, Dependency: "role:admin"},
		},
	}
	form := New(set, WithInitialData(map[string]any{"role": "admin"}), WithExtras(map[string]any{"tenant": "acme"}))
	if !form.IsVisible("audit") {
		t.Fatalf("dependency on seeded value should hold")
	}
}

func TestSetFormDataDeterministicOrder(t *testing.T) {
	t.Parallel()

	var order []string
	form := New(intakeSet(), WithFieldListener(func(fieldID string, _ any) {
		order = append(order, fieldID)
	}))

	form.SetFormData(map[string]any{
		"subscribed": true,
		"name":       "ada",
		"frequency":  "weekly",
	})

	want := []string{"frequency", "name", "subscribed"}
	if len(order) != len(want) {
		t.Fatalf("notifications = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("notification order = %v, want %v", order, want)
		}
	}
}
