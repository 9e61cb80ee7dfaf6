// Command formengine fills a schema-driven form interactively in the
// terminal and prints the resulting form data snapshot as JSON. It is a
// reference host for the engine: rendering, persistence, and transport all
// stay on this side of the boundary.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/openapi"
	"github.com/goliatone/go-formengine/pkg/schema"
)

func main() {
	schemaPath := flag.String("schema", "form.json", "FieldsSet document (JSON or YAML), or an OpenAPI document with -operation")
	operation := flag.String("operation", "", "derive the form from this OpenAPI operation instead of a FieldsSet document")
	dataPath := flag.String("data", "", "optional JSON file with initial form data overrides")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	set, err := loadFieldsSet(ctx, *schemaPath, *operation)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	options := []engine.Option{}
	if *dataPath != "" {
		initial, err := loadInitialData(*dataPath)
		if err != nil {
			log.Fatalf("load initial data: %v", err)
		}
		options = append(options, engine.WithInitialData(initial))
	}

	form := engine.New(set, options...)
	for _, warning := range form.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	s := &session{form: form, driver: &surveyDriver{}}
	if err := s.run(ctx, set.Fields); err != nil {
		if errors.Is(err, ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
		log.Fatalf("fill form: %v", err)
	}

	payload, err := json.MarshalIndent(form.FormData(), "", "  ")
	if err != nil {
		log.Fatalf("encode form data: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form data written to %s\n", *output)
		return
	}
	fmt.Println(string(payload))
}

func loadFieldsSet(ctx context.Context, path, operation string) (schema.FieldsSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.FieldsSet{}, err
	}
	if operation != "" {
		return openapi.FieldsSetFromData(ctx, raw, operation)
	}
	return schema.ParseFieldsSet(raw)
}

func loadInitialData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}
