package fhirjson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAbsent marks a field that is not present in the source document.
// Callers resolve it to the documented default of the field.
var ErrAbsent = errors.New("fhirjson: absent")

// ErrMalformed marks a field that is present but has the wrong shape.
// Callers must surface it, not substitute a default.
var ErrMalformed = errors.New("fhirjson: malformed")

// String reads a string leaf.
func String(node any) (string, error) {
	if node == nil {
		return "", ErrAbsent
	}
	s, ok := node.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrMalformed, node)
	}
	return s, nil
}

// StringAt reads a string leaf at a dot-qualified path.
func StringAt(node any, path string) (string, error) {
	leaf, ok := Find(node, path)
	if !ok {
		return "", ErrAbsent
	}
	return String(leaf)
}

// OptStringAt reads an optional string leaf; absence yields nil.
func OptStringAt(node any, path string) (*string, error) {
	s, err := StringAt(node, path)
	if errors.Is(err, ErrAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Bool reads a bool leaf.
func Bool(node any) (bool, error) {
	if node == nil {
		return false, ErrAbsent
	}
	b, ok := node.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrMalformed, node)
	}
	return b, nil
}

// BoolAt reads a bool leaf at a dot-qualified path.
func BoolAt(node any, path string) (bool, error) {
	leaf, ok := Find(node, path)
	if !ok {
		return false, ErrAbsent
	}
	return Bool(leaf)
}

// OptBoolAt reads an optional bool leaf; absence yields nil.
func OptBoolAt(node any, path string) (*bool, error) {
	b, err := BoolAt(node, path)
	if errors.Is(err, ErrAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Decimal reads a numeric leaf without rounding. String leaves are not
// accepted; a quoted number in a decimal slot is malformed.
func Decimal(node any) (decimal.Decimal, error) {
	switch v := node.(type) {
	case nil:
		return decimal.Decimal{}, ErrAbsent
	case Number:
		return v.Decimal()
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal", ErrMalformed, v.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: expected number, got %T", ErrMalformed, node)
	}
}

// DecimalAt reads a numeric leaf at a dot-qualified path.
func DecimalAt(node any, path string) (decimal.Decimal, error) {
	leaf, ok := Find(node, path)
	if !ok {
		return decimal.Decimal{}, ErrAbsent
	}
	return Decimal(leaf)
}

// Int reads an integer leaf.
func Int(node any) (int, error) {
	d, err := Decimal(node)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformed, d)
	}
	return int(d.IntPart()), nil
}

// IntAt reads an integer leaf at a dot-qualified path.
func IntAt(node any, path string) (int, error) {
	leaf, ok := Find(node, path)
	if !ok {
		return 0, ErrAbsent
	}
	return Int(leaf)
}

// Primitive reads any scalar leaf as its textual content. Strings pass
// through unchanged, numbers keep their source text, bools render as
// "true"/"false". Objects and arrays are malformed.
func Primitive(node any) (string, error) {
	switch v := node.(type) {
	case nil:
		return "", ErrAbsent
	case string:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return RawNumber(node)
	}
}

// PrimitiveAt reads a scalar leaf at a dot-qualified path.
func PrimitiveAt(node any, path string) (string, error) {
	leaf, ok := Find(node, path)
	if !ok {
		return "", ErrAbsent
	}
	return Primitive(leaf)
}

// OptPrimitiveAt reads an optional scalar leaf; absence yields nil.
func OptPrimitiveAt(node any, path string) (*string, error) {
	s, err := PrimitiveAt(node, path)
	if errors.Is(err, ErrAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RawNumber reads a numeric leaf as its source text, preserving the
// exact decimal representation.
func RawNumber(node any) (string, error) {
	switch v := node.(type) {
	case nil:
		return "", ErrAbsent
	case Number:
		return string(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		d := decimal.NewFromFloat(v)
		return d.String(), nil
	default:
		return "", fmt.Errorf("%w: expected number, got %T", ErrMalformed, node)
	}
}
