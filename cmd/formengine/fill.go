package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/schema"
	"github.com/goliatone/go-formengine/pkg/table"
)

// session walks the schema tree prompting for each currently visible
// field. Visibility is re-checked at prompt time, so answers that satisfy
// a dependency reveal later fields in the same pass.
type session struct {
	form   *engine.Form
	driver PromptDriver
}

func (s *session) run(ctx context.Context, fields []schema.FieldConfig) error {
	for _, field := range fields {
		if !schema.Usable(field) || !s.form.IsVisible(field.ID) {
			continue
		}
		if field.IsGroup() {
			if err := s.run(ctx, field.SubFields); err != nil {
				return err
			}
			continue
		}
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) promptField(ctx context.Context, field schema.FieldConfig) error {
	switch field.ComponentType {
	case schema.ComponentCheckbox:
		current, _ := s.form.Get(field.ID)
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: labelFor(field),
			Default: current == true,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		s.form.Set(field.ID, answer)
		return nil
	case schema.ComponentSelect, schema.ComponentRadioGroup:
		return s.promptSelect(ctx, field)
	case schema.ComponentTable:
		return s.promptTable(ctx, field)
	case schema.ComponentDateRange:
		return s.promptDateRange(ctx, field)
	default:
		current, _ := s.form.Get(field.ID)
		answer, err := s.driver.Input(ctx, InputConfig{
			Message: labelFor(field),
			Default: stringOr(current),
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		s.form.Set(field.ID, answer)
		return nil
	}
}

func (s *session) promptSelect(ctx context.Context, field schema.FieldConfig) error {
	if len(field.Options) == 0 {
		return nil
	}
	labels := make([]string, len(field.Options))
	defaultIdx := -1
	current, _ := s.form.Get(field.ID)
	for i, option := range field.Options {
		labels[i] = option.Label
		if option.Value == stringOr(current) {
			defaultIdx = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      labelFor(field),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         field.Description,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(field.Options) {
		s.form.Set(field.ID, field.Options[idx].Value)
	}
	return nil
}

func (s *session) promptDateRange(ctx context.Context, field schema.FieldConfig) error {
	from, err := s.driver.Input(ctx, InputConfig{
		Message: labelFor(field) + " (from, YYYY-MM-DD)",
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	to, err := s.driver.Input(ctx, InputConfig{
		Message: labelFor(field) + " (to, YYYY-MM-DD)",
	})
	if err != nil {
		return err
	}
	s.form.Set(field.ID, map[string]any{"from": from, "to": to})
	return nil
}

func (s *session) promptTable(ctx context.Context, field schema.FieldConfig) error {
	cfg := field.TableConfig
	for cfg.AllowAddRow {
		add, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add a row to %s?", labelFor(field)),
		})
		if err != nil {
			return err
		}
		if !add {
			break
		}
		row, ok := s.form.AddRow(field.ID)
		if !ok {
			_ = s.driver.Info(ctx, fmt.Sprintf("Row limit reached for %s", labelFor(field)))
			break
		}
		rowID, _ := row[table.RowIDKey].(string)
		for _, column := range cfg.Columns {
			if !column.IsEditable() || column.FieldType == schema.ColumnFiles {
				continue
			}
			if err := s.promptCell(ctx, field.ID, rowID, column); err != nil {
				return err
			}
		}
	}
	s.reportAggregations(ctx, field)
	return nil
}

func (s *session) promptCell(ctx context.Context, fieldID, rowID string, column schema.DataTableColumn) error {
	message := column.Label
	if message == "" {
		message = column.ID
	}
	switch column.FieldType {
	case schema.ColumnCheckbox:
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message})
		if err != nil {
			return err
		}
		s.form.UpdateCell(fieldID, rowID, column.ID, answer)
	case schema.ColumnDropdown, schema.ColumnRadioButton:
		if len(column.Options) == 0 {
			return nil
		}
		labels := make([]string, len(column.Options))
		for i, option := range column.Options {
			labels[i] = option.Label
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: -1})
		if err != nil {
			return err
		}
		if idx >= 0 {
			s.form.UpdateCell(fieldID, rowID, column.ID, column.Options[idx].Value)
		}
	default:
		answer, err := s.driver.Input(ctx, InputConfig{Message: message})
		if err != nil {
			return err
		}
		s.form.UpdateCell(fieldID, rowID, column.ID, answer)
	}
	if msg := s.form.CellError(fieldID, rowID, column.ID); msg != "" {
		return s.driver.Info(ctx, fmt.Sprintf("  %s: %s", message, msg))
	}
	return nil
}

func (s *session) reportAggregations(ctx context.Context, field schema.FieldConfig) {
	aggregations := s.form.Aggregations(field.ID)
	if len(aggregations) == 0 {
		return
	}
	for _, column := range field.TableConfig.Columns {
		value, ok := aggregations[column.ID]
		if !ok {
			continue
		}
		label := column.Aggregation.Label
		if label == "" {
			label = fmt.Sprintf("%s %s", column.ID, column.Aggregation.Type)
		}
		_ = s.driver.Info(ctx, fmt.Sprintf("  %s: %s", label, strconv.FormatFloat(value, 'f', -1, 64)))
	}
}

func labelFor(field schema.FieldConfig) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func stringOr(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
