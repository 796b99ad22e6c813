package fhirjson

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
)

// Number is a JSON numeric literal kept as its source text. Quantity
// values and invoice prices must not pass through a float before the
// caller converts them.
type Number string

// String returns the source text.
func (n Number) String() string {
	return string(n)
}

// Decimal converts the literal to an exact decimal.
func (n Number) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a decimal", ErrMalformed, string(n))
	}
	return d, nil
}

// Decode parses raw JSON into a navigable tree of map[string]any,
// []any, string, bool, Number and nil. Numeric literals are preserved
// as Number text instead of being converted to float64.
func Decode(data []byte) (any, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("fhirjson: decode: %w", err)
	}
	return decodeValue(value, dataType)
}

func decodeValue(data []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		return decodeObject(data)
	case jsonparser.Array:
		return decodeArray(data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, fmt.Errorf("fhirjson: decode string: %w", err)
		}
		return s, nil
	case jsonparser.Number:
		return Number(data), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, fmt.Errorf("fhirjson: decode bool: %w", err)
		}
		return b, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("fhirjson: decode: unexpected value type %v", dataType)
	}
}

func decodeObject(data []byte) (map[string]any, error) {
	obj := make(map[string]any)
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		v, err := decodeValue(value, dataType)
		if err != nil {
			return err
		}
		obj[k] = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fhirjson: decode object: %w", err)
	}
	return obj, nil
}

func decodeArray(data []byte) ([]any, error) {
	var arr []any
	var inner error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, itemErr error) {
		if inner != nil {
			return
		}
		if itemErr != nil {
			inner = itemErr
			return
		}
		v, err := decodeValue(value, dataType)
		if err != nil {
			inner = err
			return
		}
		arr = append(arr, v)
	})
	if err == nil {
		err = inner
	}
	if err != nil {
		return nil, fmt.Errorf("fhirjson: decode array: %w", err)
	}
	return arr, nil
}
