package schema

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "symbol", "state").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// TextType validates string values.
type TextType struct{}

func (t *TextType) Name() string { return "string" }

func (t *TextType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// SymbolType accepts a one-character string, or a single digit written as a
// number (YAML reads `read: 0` as an integer).
type SymbolType struct{}

func (t *SymbolType) Name() string { return "symbol" }

func (t *SymbolType) Validate(value any) error {
	switch v := value.(type) {
	case string:
		if utf8.RuneCountInString(v) != 1 {
			return fmt.Errorf("expected a single character, got %q", v)
		}
		return nil
	case int:
		if v >= 0 && v <= 9 {
			return nil
		}
	case float64:
		if v >= 0 && v <= 9 && v == float64(int(v)) {
			return nil
		}
	}
	return fmt.Errorf("expected a single character, got %v", value)
}

// StateIDType validates positive integer state ids.
type StateIDType struct{}

func (t *StateIDType) Name() string { return "state" }

func (t *StateIDType) Validate(value any) error {
	var id int
	switch v := value.(type) {
	case int:
		id = v
	case float64:
		// JSON numbers decode as float64
		if v != float64(int(v)) {
			return fmt.Errorf("expected state id, got %v", v)
		}
		id = int(v)
	default:
		return fmt.Errorf("expected state id, got %T", value)
	}
	if id <= 0 {
		return fmt.Errorf("state ids start at 1, got %d", id)
	}
	return nil
}

// DirectionType validates head movements accepted by domain.ParseDirection.
type DirectionType struct{}

func (t *DirectionType) Name() string { return "direction" }

func (t *DirectionType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected direction, got %T", value)
	}
	_, err := domain.ParseDirection(s)
	return err
}

// ListType validates lists whose elements share a type.
type ListType struct {
	elemType Type
}

func (t *ListType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *ListType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ObjectType validates nested maps against a Schema.
type ObjectType struct {
	schema Schema
}

func (t *ObjectType) Name() string { return "object" }

func (t *ObjectType) Validate(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	return Validate(t.schema, m)
}

// Text creates a string type validator.
func Text() Type { return &TextType{} }

// Symbol creates a tape symbol validator.
func Symbol() Type { return &SymbolType{} }

// StateID creates a state id validator.
func StateID() Type { return &StateIDType{} }

// Direction creates a head movement validator.
func Direction() Type { return &DirectionType{} }

// List creates a list validator for elements of the given type.
func List(elemType Type) Type { return &ListType{elemType: elemType} }

// Object creates a validator for nested maps.
func Object(s Schema) Type { return &ObjectType{schema: s} }
