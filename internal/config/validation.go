package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kk-code-lab/infilter/internal/filters"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidationError is one rejected setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration against the embedded JSON schema and
// then checks what the schema cannot express.
func (c *Config) Validate() error {
	if err := c.validateSchema(); err != nil {
		return err
	}

	var errs ValidationErrors
	seen := make(map[string]bool, len(c.Fields))
	for i, f := range c.Fields {
		key := fmt.Sprintf("fields[%d]", i)
		if !filters.Known(f.Filter) {
			errs = append(errs, ValidationError{
				Field:   key + ".filter",
				Message: fmt.Sprintf("unknown filter %q (known: %s)", f.Filter, strings.Join(filters.Names(), ", ")),
			})
		}
		if seen[f.Name] {
			errs = append(errs, ValidationError{
				Field:   key + ".name",
				Message: fmt.Sprintf("duplicate field name %q", f.Name),
			})
		}
		seen[f.Name] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateSchema() error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(instance); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
