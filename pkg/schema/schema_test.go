package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleJSON = `{
  "name": "intake",
  "fields": [
    {"id": "name", "field_type": "field", "component_type": "text", "label": "Full name", "required": true},
    {"id": "subscribed", "field_type": "field", "component_type": "checkbox", "value": true},
    {
      "id": "details",
      "field_type": "group",
      "dependency": "subscribed:true",
      "sub_fields": [
        {"id": "frequency", "field_type": "field", "component_type": "select",
         "options": [{"label": "Weekly", "value": "weekly"}, {"label": "Daily", "value": "daily"}]}
      ]
    },
    {
      "id": "expenses",
      "field_type": "field",
      "component_type": "table",
      "table_config": {
        "max_rows": 5,
        "columns": [
          {"id": "amount", "field_type": "numeric",
           "constraints": {"required": true, "min": 0},
           "aggregation": {"type": "sum", "label": "Total"}}
        ]
      }
    }
  ]
}`

func TestParseFieldsSetJSON(t *testing.T) {
	t.Parallel()

	set, err := ParseFieldsSet([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseFieldsSet returned error: %v", err)
	}
	if set.Name != "intake" {
		t.Fatalf("name = %q, want intake", set.Name)
	}
	if len(set.Fields) != 4 {
		t.Fatalf("got %d top-level fields, want 4", len(set.Fields))
	}

	group := set.Fields[2]
	if !group.IsGroup() {
		t.Fatalf("details should decode as a group")
	}
	if group.Dependency != "subscribed:true" {
		t.Fatalf("dependency = %q", group.Dependency)
	}
	if len(group.SubFields) != 1 || group.SubFields[0].ID != "frequency" {
		t.Fatalf("unexpected sub fields: %+v", group.SubFields)
	}

	tableField := set.Fields[3]
	if tableField.TableConfig == nil {
		t.Fatalf("table_config missing")
	}
	column := tableField.TableConfig.Columns[0]
	if column.Constraints == nil || !column.Constraints.Required || *column.Constraints.Min != 0 {
		t.Fatalf("unexpected constraints: %+v", column.Constraints)
	}
	if column.Aggregation.Type != AggregationSum {
		t.Fatalf("aggregation type = %q", column.Aggregation.Type)
	}
}

func TestParseFieldsSetYAML(t *testing.T) {
	t.Parallel()

	raw := []byte(`
name: intake
fields:
  - id: name
    field_type: field
    component_type: text
  - id: subscribed
    field_type: field
    component_type: checkbox
    value: true
`)
	set, err := ParseFieldsSet(raw)
	if err != nil {
		t.Fatalf("ParseFieldsSet returned error: %v", err)
	}
	want := FieldsSet{
		Name: "intake",
		Fields: []FieldConfig{
			{ID: "name", FieldType: FieldTypeField, ComponentType: ComponentText},
			{ID: "subscribed", FieldType: FieldTypeField, ComponentType: ComponentCheckbox, Value: true},
		},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Fatalf("FieldsSet mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFieldsSetSanitizesLabels(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
  "name": "intake",
  "fields": [
    {"id": "name", "field_type": "field", "component_type": "text",
     "label": "<script>alert(1)</script>Full name",
     "description": "<b>bold</b> help"}
  ]
}`)
	set, err := ParseFieldsSet(raw)
	if err != nil {
		t.Fatalf("ParseFieldsSet returned error: %v", err)
	}
	if got := set.Fields[0].Label; got != "Full name" {
		t.Fatalf("label = %q, want markup stripped", got)
	}
	if got := set.Fields[0].Description; got != "bold help" {
		t.Fatalf("description = %q, want markup stripped", got)
	}
}

func TestParseFieldsSetEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ParseFieldsSet(nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := ParseFieldsSet([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestLintReportsConfigurationErrors(t *testing.T) {
	t.Parallel()

	set := FieldsSet{
		Name: "broken",
		Fields: []FieldConfig{
			{ID: "ok", FieldType: FieldTypeField, ComponentType: ComponentText},
			{ID: "mystery", FieldType: FieldTypeField, ComponentType: "hologram"},
			{ID: "bare_table", FieldType: FieldTypeField, ComponentType: ComponentTable},
			{ID: "ok", FieldType: FieldTypeField, ComponentType: ComponentText},
		},
	}

	warnings := Lint(set)
	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %+v", len(warnings), warnings)
	}
	if warnings[0].FieldID != "mystery" {
		t.Fatalf("first warning = %+v", warnings[0])
	}
	if warnings[1].FieldID != "bare_table" {
		t.Fatalf("second warning = %+v", warnings[1])
	}
	if warnings[2].Message != "duplicate field id" {
		t.Fatalf("third warning = %+v", warnings[2])
	}
}

func TestUsable(t *testing.T) {
	t.Parallel()

	if Usable(FieldConfig{ID: "x", FieldType: FieldTypeField, ComponentType: "hologram"}) {
		t.Fatalf("unknown component should not be usable")
	}
	if Usable(FieldConfig{ID: "x", FieldType: FieldTypeField, ComponentType: ComponentTable}) {
		t.Fatalf("table without config should not be usable")
	}
	if !Usable(FieldConfig{ID: "g", FieldType: FieldTypeGroup}) {
		t.Fatalf("groups are always usable")
	}
}
