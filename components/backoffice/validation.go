package backoffice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator validates converted form payloads against an entity schema.
type SchemaValidator interface {
	Validate(name string, schema map[string]any, payload Payload) error
}

// JSONSchemaValidator compiles entity schemas once and validates payloads.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

var defaultSchemaValidator = NewJSONSchemaValidator()

// Validate returns a *ValidationError when the payload breaks the schema.
func (v *JSONSchemaValidator) Validate(name string, schema map[string]any, payload Payload) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := v.schemaFor(name, schema)
	if err != nil {
		return err
	}
	doc := map[string]any{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backoffice: marshal payload for %s: %w", name, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("backoffice: normalize payload for %s: %w", name, err)
		}
	}
	if err := compiled.Validate(doc); err != nil {
		var schemaErr *jsonschema.ValidationError
		if errors.As(err, &schemaErr) {
			verr := &ValidationError{}
			collectSchemaErrors(schemaErr, verr)
			if !verr.empty() {
				return verr
			}
		}
		return fmt.Errorf("backoffice: payload for %s failed validation: %w", name, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(name string, schema map[string]any) (*jsonschema.Schema, error) {
	v.mu.RLock()
	compiled, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("backoffice: marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("backoffice: load schema %s: %w", name, err)
	}
	compiled, err = compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("backoffice: compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		if idx := strings.Index(field, "/"); idx >= 0 {
			field = field[:idx]
		}
		if field == "" {
			field = "_form"
		}
		out.add(field, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}
