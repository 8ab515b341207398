package backoffice

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ettle/strcase"
)

// DateTimeLayout is the local, minute precision format date fields are typed in.
const DateTimeLayout = "2006-01-02T15:04"

// FieldKind selects how a draft string is converted at submit time.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldUpper
	FieldNumber
	FieldInteger
	FieldDateTime
	FieldBool
	FieldChoice
	FieldList
	FieldSecret
)

// Field describes one editable input.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	// UIOnly fields live in the draft but never reach the wire.
	UIOnly  bool
	Choices []string
	Default string
}

// Discriminator resets dependent fields when a selector field changes value.
type Discriminator struct {
	Field string
	// Reset maps a selector value to the dependent field values it implies.
	Reset map[string]map[string]string
	// Clear maps a selector value to dependent fields that no longer apply.
	Clear map[string][]string
}

// FormSchema describes the editable projection of an entity.
type FormSchema struct {
	Name           string
	Fields         []Field
	Discriminators []Discriminator
	// JSONSchema validates the converted payload after field parsing.
	JSONSchema map[string]any
	// Check runs cross-field rules on a converted payload and returns field errors.
	Check func(payload Payload) map[string]string
	// Location interprets DateTimeLayout values; nil means UTC.
	Location  *time.Location
	Validator SchemaValidator
}

// Field returns the field definition for name.
func (s *FormSchema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (s *FormSchema) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *FormSchema) validator() SchemaValidator {
	if s.Validator == nil {
		return defaultSchemaValidator
	}
	return s.Validator
}

// Form is the mutable draft bound to a dialog. Every value is held as the raw
// string the operator typed; conversion happens once, in ToPayload.
type Form struct {
	schema *FormSchema
	values map[string]string
	errors map[string]string
	// loaded holds the values read from the record being edited.
	loaded map[string]string
}

// NewForm builds a draft seeded with field defaults overridden by defaults.
func NewForm(schema *FormSchema, defaults map[string]string) *Form {
	f := &Form{
		schema: schema,
		values: make(map[string]string, len(schema.Fields)),
		errors: map[string]string{},
	}
	for _, field := range schema.Fields {
		f.values[field.Name] = field.Default
	}
	explicit := map[string]bool{}
	for name, value := range defaults {
		key := NormalizeFieldName(name)
		f.values[key] = value
		explicit[key] = true
	}
	for _, disc := range schema.Discriminators {
		f.applyDiscriminator(disc, f.values[disc.Field], explicit)
	}
	return f
}

// FormFromItem fills a draft from an existing record using its JSON shape.
func FormFromItem(schema *FormSchema, item any) (*Form, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("backoffice: encode %s for editing: %w", schema.Name, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("backoffice: decode %s for editing: %w", schema.Name, err)
	}
	values := make(map[string]string, len(schema.Fields))
	for _, field := range schema.Fields {
		value, ok := raw[field.Name]
		if !ok {
			continue
		}
		values[field.Name] = formatDraftValue(field, value, schema.location())
	}
	form := &Form{schema: schema, values: map[string]string{}, errors: map[string]string{}, loaded: values}
	for _, field := range schema.Fields {
		form.values[field.Name] = field.Default
	}
	for name, value := range values {
		form.values[name] = value
	}
	return form, nil
}

// Schema exposes the form definition.
func (f *Form) Schema() *FormSchema { return f.schema }

// SetField assigns a raw value. It never validates or parses; the only side
// effect is the deterministic reset of fields driven by a discriminator.
func (f *Form) SetField(name, raw string) error {
	key := NormalizeFieldName(name)
	if _, ok := f.schema.Field(key); !ok {
		return fmt.Errorf("backoffice: %s has no field %q", f.schema.Name, name)
	}
	previous := f.values[key]
	f.values[key] = raw
	delete(f.errors, key)
	if previous == raw {
		return nil
	}
	for _, disc := range f.schema.Discriminators {
		if disc.Field == key {
			f.applyDiscriminator(disc, raw, nil)
		}
	}
	return nil
}

// Value returns the raw draft value.
func (f *Form) Value(name string) string {
	return f.values[NormalizeFieldName(name)]
}

// Values returns a copy of the draft.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the inline field errors from the last ToPayload.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the draft.
func (f *Form) Clone() *Form {
	if f == nil {
		return nil
	}
	return &Form{schema: f.schema, values: f.Values(), errors: f.Errors(), loaded: copyStrings(f.loaded)}
}

// ToPayload converts the draft into the wire payload. On failure it returns a
// *ValidationError and records the field errors on the form.
//
// Blank optional fields are omitted, except when editing a record that held a
// value: the field is then sent as null so the update clears it. Blank secrets
// are always omitted and keep the stored value.
func (f *Form) ToPayload() (Payload, error) {
	verr := &ValidationError{}
	payload := Payload{}
	loc := f.schema.location()
	for _, field := range f.schema.Fields {
		if field.UIOnly {
			continue
		}
		raw := f.values[field.Name]
		if field.Kind != FieldSecret {
			raw = strings.TrimSpace(raw)
		}
		if raw == "" {
			if field.Required {
				verr.add(field.Name, "is required")
			} else if f.cleared(field) {
				payload[field.Name] = nil
			}
			continue
		}
		value, err := convertDraftValue(field, raw, loc)
		if err != nil {
			verr.add(field.Name, err.Error())
			continue
		}
		payload[field.Name] = value
	}
	if verr.empty() {
		if err := f.schema.validator().Validate(f.schema.Name, f.schema.JSONSchema, withoutNulls(payload)); err != nil {
			var schemaErr *ValidationError
			if !errors.As(err, &schemaErr) {
				return nil, err
			}
			verr = schemaErr
		}
	}
	if verr.empty() && f.schema.Check != nil {
		for field, msg := range f.schema.Check(payload) {
			verr.add(field, msg)
		}
	}
	f.errors = map[string]string{}
	if !verr.empty() {
		for k, v := range verr.Fields {
			f.errors[k] = v
		}
		return nil, verr
	}
	return payload, nil
}

func (f *Form) cleared(field Field) bool {
	if field.Kind == FieldSecret {
		return false
	}
	return strings.TrimSpace(f.loaded[field.Name]) != ""
}

func withoutNulls(payload Payload) Payload {
	out := make(Payload, len(payload))
	for k, v := range payload {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func copyStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (f *Form) applyDiscriminator(disc Discriminator, value string, keep map[string]bool) {
	for name, def := range disc.Reset[value] {
		if keep[name] {
			continue
		}
		f.values[name] = def
	}
	for _, name := range disc.Clear[value] {
		if keep[name] {
			continue
		}
		f.values[name] = ""
	}
}

// NormalizeFieldName maps camelCase or kebab-case input onto snake_case wire names.
func NormalizeFieldName(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

func convertDraftValue(field Field, raw string, loc *time.Location) (any, error) {
	switch field.Kind {
	case FieldUpper:
		return strings.ToUpper(raw), nil
	case FieldNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return v, nil
	case FieldInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("must be a whole number")
		}
		return v, nil
	case FieldDateTime:
		t, err := ParseDraftTime(raw, loc)
		if err != nil {
			return nil, err
		}
		return t.UTC().Format(time.RFC3339), nil
	case FieldBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return v, nil
	case FieldChoice:
		for _, choice := range field.Choices {
			if choice == raw {
				return raw, nil
			}
		}
		choices := append([]string(nil), field.Choices...)
		sort.Strings(choices)
		return nil, fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
	case FieldList:
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

// ParseDraftTime accepts the local input layout, a bare date, or RFC3339.
func ParseDraftTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateTimeLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("must be a date formatted as %s", DateTimeLayout)
}

func formatDraftValue(field Field, value any, loc *time.Location) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if field.Kind == FieldDateTime && v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t.In(loc).Format(DateTimeLayout)
			}
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
