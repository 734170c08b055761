package schema

import (
	"fmt"
	"sort"
)

// Field describes one key of a Schema.
type Field struct {
	Type     Type
	Required bool
}

// Schema is a map of field names to their expected types.
type Schema map[string]Field

// Required marks a field as mandatory.
func Required(t Type) Field { return Field{Type: t, Required: true} }

// Optional marks a field that may be omitted.
func Optional(t Type) Field { return Field{Type: t} }

// Validate checks data against the schema and reports every failure in an
// *AggregateError. Unknown keys are rejected so typos do not pass silently.
// Errors from nested objects and lists are flattened with their path.
func Validate(schema Schema, data map[string]any) error {
	var errs []error

	for _, key := range sortedKeys(schema) {
		field := schema[key]
		value, exists := data[key]
		if !exists || value == nil {
			if field.Required {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		errs = append(errs, check(key, field.Type, value)...)
	}

	for _, key := range sortedKeys(data) {
		if _, known := schema[key]; !known {
			errs = append(errs, &ValidationError{Key: key, Reason: "unknown field"})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func check(path string, t Type, value any) []error {
	switch typ := t.(type) {
	case *ObjectType:
		m, ok := value.(map[string]any)
		if !ok {
			return []error{&ValidationError{Key: path, Reason: "expected object", Value: value}}
		}
		return prefixed(path+".", Validate(typ.schema, m))
	case *ListType:
		items, ok := value.([]any)
		if !ok {
			break
		}
		var errs []error
		for i, item := range items {
			errs = append(errs, check(fmt.Sprintf("%s[%d]", path, i), typ.elemType, item)...)
		}
		return errs
	}

	if err := t.Validate(value); err != nil {
		return []error{&ValidationError{Key: path, Reason: err.Error(), Value: value}}
	}
	return nil
}

func prefixed(prefix string, err error) []error {
	var out []error
	for _, e := range ValidationErrors(err) {
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, &ValidationError{Key: prefix + ve.Key, Reason: ve.Reason, Value: ve.Value})
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
