// Package openapi derives a FieldsSet from an OpenAPI operation so hosts
// that already describe their inputs as API schemas can drive the form
// engine without hand-writing a second document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formengine/pkg/schema"
)

// FieldsSetFromData loads an OpenAPI document from raw bytes and derives a
// FieldsSet from the named operation's JSON request body.
func FieldsSetFromData(ctx context.Context, raw []byte, operationID string) (schema.FieldsSet, error) {
	if len(raw) == 0 {
		return schema.FieldsSet{}, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.FieldsSet{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return FieldsSetFromDocument(doc, operationID)
}

// FieldsSetFromDocument derives a FieldsSet from a parsed OpenAPI document.
func FieldsSetFromDocument(doc *openapi3.T, operationID string) (schema.FieldsSet, error) {
	if doc == nil {
		return schema.FieldsSet{}, errors.New("openapi: document is nil")
	}
	operation := findOperation(doc, operationID)
	if operation == nil {
		return schema.FieldsSet{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil {
		return schema.FieldsSet{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	set := schema.FieldsSet{
		Name:   operationID,
		Fields: objectFields(body, requiredSet(body.Required)),
	}
	return set, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range body.Value.Content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func objectFields(src *openapi3.Schema, required map[string]struct{}) []schema.FieldConfig {
	if src == nil || len(src.Properties) == 0 {
		return nil
	}
	names := sortedPropertyNames(src.Properties)
	fields := make([]schema.FieldConfig, 0, len(names))
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromSchema(name, ref.Value, required)
		if !ok {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func fieldFromSchema(name string, src *openapi3.Schema, required map[string]struct{}) (schema.FieldConfig, bool) {
	_, isRequired := required[name]
	field := schema.FieldConfig{
		ID:          name,
		FieldType:   schema.FieldTypeField,
		Label:       labelFor(name, src),
		Description: src.Description,
		Required:    isRequired,
	}

	switch schemaType(src) {
	case "object":
		field.FieldType = schema.FieldTypeGroup
		field.Label = labelFor(name, src)
		field.SubFields = objectFields(src, requiredSet(src.Required))
		if len(field.SubFields) == 0 {
			return schema.FieldConfig{}, false
		}
		return field, true
	case "boolean":
		field.ComponentType = schema.ComponentCheckbox
		field.Value = src.Default
		return field, true
	case "string":
		if src.Format == "date" {
			field.ComponentType = schema.ComponentDate
		} else if len(src.Enum) > 0 {
			field.ComponentType = schema.ComponentSelect
			field.Options = enumOptions(src.Enum)
		} else if src.Format == "textarea" {
			field.ComponentType = schema.ComponentTextArea
		} else {
			field.ComponentType = schema.ComponentText
		}
		field.Value = src.Default
		return field, true
	case "number", "integer":
		// The engine stores free text; numeric constraints belong to table
		// columns, not scalar fields.
		field.ComponentType = schema.ComponentText
		field.Value = src.Default
		return field, true
	default:
		return schema.FieldConfig{}, false
	}
}

func labelFor(name string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return name
}

func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func requiredSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[strings.TrimSpace(name)] = struct{}{}
	}
	return out
}

func enumOptions(values []any) []schema.SelectOption {
	out := make([]schema.SelectOption, 0, len(values))
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprint(value)
		}
		out = append(out, schema.SelectOption{Label: s, Value: s})
	}
	return out
}

func sortedPropertyNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
