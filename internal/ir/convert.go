package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Decoder is implemented by types that need custom decoding from a Value,
// typically because they hold interface-typed fields (sum types).
type Decoder interface {
	DecodeIR(v Value) error
}

// FromGo converts an arbitrary Go value into a Value by way of its JSON
// encoding, so struct tags decide field names. Object members that encode
// as null are dropped.
func FromGo(v any) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ir.FromGo: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ir.FromGo: %w", err)
	}

	val, err := fromDecoded(raw, true)
	if err != nil {
		return nil, fmt.Errorf("ir.FromGo: %w", err)
	}
	return val, nil
}

// ToAny converts a Value into plain Go values: nil, string, int64, bool,
// []any and map[string]any.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}

// Decode converts a Value into T. Field names follow json struct tags.
// If *T implements Decoder, decoding is delegated to it.
func Decode[T any](v Value) (T, error) {
	var out T

	if dec, ok := any(&out).(Decoder); ok {
		if err := dec.DecodeIR(v); err != nil {
			return out, err
		}
		return out, nil
	}

	if direct, ok := any(v).(T); ok {
		return direct, nil
	}

	if err := DecodeInto(v, &out); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeInto decodes v into the value pointed to by target.
func DecodeInto(v Value, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  target,
	})
	if err != nil {
		return fmt.Errorf("ir.Decode: %w", err)
	}
	if err := decoder.Decode(ToAny(v)); err != nil {
		return fmt.Errorf("ir.Decode: %w", err)
	}
	return nil
}

// ScalarKey renders a String or Int as an entity key.
func ScalarKey(v Value) (string, bool) {
	switch val := v.(type) {
	case String:
		return string(val), true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	default:
		return "", false
	}
}
