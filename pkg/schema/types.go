package schema

// FieldType distinguishes leaf fields from grouping nodes.
type FieldType string

const (
	FieldTypeField FieldType = "field"
	FieldTypeGroup FieldType = "group"
)

// ComponentType names the logical input kind of a leaf field. Each component
// type maps to exactly one stored value shape; see the coerce package.
type ComponentType string

const (
	ComponentText       ComponentType = "text"
	ComponentTextArea   ComponentType = "textarea"
	ComponentCheckbox   ComponentType = "checkbox"
	ComponentSelect     ComponentType = "select"
	ComponentRadioGroup ComponentType = "radio_group"
	ComponentDate       ComponentType = "date"
	ComponentDateRange  ComponentType = "date_range"
	ComponentTable      ComponentType = "table"
)

// FieldConfig describes one form field or group. Groups carry SubFields and
// no component type; fields carry a component type and an initial value.
type FieldConfig struct {
	ID            string           `json:"id"`
	FieldType     FieldType        `json:"field_type"`
	ComponentType ComponentType    `json:"component_type,omitempty"`
	Label         string           `json:"label,omitempty"`
	Description   string           `json:"description,omitempty"`
	Value         any              `json:"value,omitempty"`
	Dependency    string           `json:"dependency,omitempty"`
	Required      bool             `json:"required,omitempty"`
	Options       []SelectOption   `json:"options,omitempty"`
	SubFields     []FieldConfig    `json:"sub_fields,omitempty"`
	TableConfig   *DataTableConfig `json:"table_config,omitempty"`
}

// IsGroup reports whether the node holds nested fields rather than a value.
func (f FieldConfig) IsGroup() bool {
	return f.FieldType == FieldTypeGroup
}

// FieldsSet is the root schema document: a named, ordered field tree. Field
// ids are unique across the whole tree; the form data store keys a flat map
// by id regardless of nesting depth.
type FieldsSet struct {
	Name   string        `json:"name"`
	Fields []FieldConfig `json:"fields"`
}

// ColumnType names the input kind of one table column.
type ColumnType string

const (
	ColumnText        ColumnType = "text"
	ColumnNumeric     ColumnType = "numeric"
	ColumnDropdown    ColumnType = "dropdown"
	ColumnCheckbox    ColumnType = "checkbox"
	ColumnRadioButton ColumnType = "radiobutton"
	ColumnFiles       ColumnType = "files"
)

// DataTableConfig describes one table-typed field.
type DataTableConfig struct {
	Columns        []DataTableColumn `json:"columns"`
	AllowAddRow    bool              `json:"allow_add_row,omitempty"`
	AllowDeleteRow bool              `json:"allow_delete_row,omitempty"`
	// MaxRows caps the row count when positive; zero means unlimited.
	MaxRows        int  `json:"max_rows,omitempty"`
	ShowRowNumbers bool `json:"show_row_numbers,omitempty"`
}

// Column returns the column with the given id.
func (c DataTableConfig) Column(id string) (DataTableColumn, bool) {
	for _, column := range c.Columns {
		if column.ID == id {
			return column, true
		}
	}
	return DataTableColumn{}, false
}

// DataTableColumn describes one column: its input kind, declarative
// constraints, and optional aggregation.
type DataTableColumn struct {
	ID          string             `json:"id"`
	Label       string             `json:"label,omitempty"`
	FieldType   ColumnType         `json:"field_type"`
	Editable    *bool              `json:"editable,omitempty"`
	Constraints *ColumnConstraints `json:"constraints,omitempty"`
	Options     []SelectOption     `json:"options,omitempty"`
	Aggregation *AggregationConfig `json:"aggregation,omitempty"`
}

// IsEditable resolves the editable flag, defaulting to true when unset.
func (c DataTableColumn) IsEditable() bool {
	return c.Editable == nil || *c.Editable
}

// ColumnConstraints hold the declarative per-cell rules. Which rules apply
// depends on the column's field type; see the validation package.
type ColumnConstraints struct {
	Required    bool     `json:"required,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Length      *int     `json:"length,omitempty"`
	Regex       string   `json:"regex,omitempty"`
	NumDecimals *int     `json:"num_decimals,omitempty"`
}

// SelectOption is one label/value pair for dropdown and radio inputs.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AggregationType selects the summary statistic computed over a column.
type AggregationType string

const (
	AggregationNone    AggregationType = "none"
	AggregationSum     AggregationType = "sum"
	AggregationAverage AggregationType = "average"
	AggregationCount   AggregationType = "count"
)

// AggregationConfig attaches a summary statistic to a column.
type AggregationConfig struct {
	Type  AggregationType `json:"type"`
	Label string          `json:"label,omitempty"`
}

// DateRange is the stored shape of a date_range field. Either side may be
// empty; values are ISO calendar dates (YYYY-MM-DD).
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FileDescriptor is the opaque record stored per file-attachment cell. The
// engine never inspects transport status; upload and delete of the bytes
// belong to an external collaborator.
type FileDescriptor struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MIMEType  string `json:"mime_type"`
	Timestamp string `json:"timestamp"`
}

// Note is a row-level discussion entry supplied by a collaborator. The
// engine stores and forwards notes alongside row data; it never computes
// them.
type Note struct {
	ID        string `json:"id"`
	RowID     string `json:"row_id"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}
