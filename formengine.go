// Package formengine turns a declarative form schema into a live, mutable
// data model: it decides which fields are currently visible, validates
// table cells against declarative constraints, and computes aggregates
// over dynamic row sets. Rendering, persistence, and transport are the
// host's responsibility; the engine stops at computed logical state.
package formengine

import (
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/schema"
)

// Form is the live state of one schema document; see the engine package.
type Form = engine.Form

// Option customises a Form under construction.
type Option = engine.Option

// WithInitialData merges a flat snapshot over schema defaults at store
// initialization.
func WithInitialData(values map[string]any) Option {
	return engine.WithInitialData(values)
}

// Parse decodes a FieldsSet document from JSON or YAML.
func Parse(raw []byte) (schema.FieldsSet, error) {
	return schema.ParseFieldsSet(raw)
}

// New builds a Form from a parsed schema document.
func New(set schema.FieldsSet, options ...Option) *Form {
	return engine.New(set, options...)
}

// Load parses a schema document and builds a Form in one call, the common
// path for hosts that hold the raw document bytes.
func Load(raw []byte, options ...Option) (*Form, error) {
	set, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return New(set, options...), nil
}
