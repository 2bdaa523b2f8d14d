package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EntType tags how a setting's text value is decoded.
type EntType string

const (
	EntInt     EntType = "int"
	EntFloat   EntType = "float"
	EntString  EntType = "string"
	EntBoolean EntType = "boolean"
	EntJSON    EntType = "json"
)

// Normalize maps empty or unknown tags to EntString.
func (t EntType) Normalize() EntType {
	switch t {
	case EntInt, EntFloat, EntString, EntBoolean, EntJSON:
		return t
	default:
		return EntString
	}
}

// ParseEntType accepts only the known tags.
func ParseEntType(s string) (EntType, error) {
	t := EntType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case EntInt, EntFloat, EntString, EntBoolean, EntJSON:
		return t, nil
	}
	return "", fmt.Errorf("unknown enttype %q", s)
}

// SettingRecord is one stored key/value row.
type SettingRecord struct {
	ID      int64   `json:"id"`
	Keyname string  `json:"keyname"`
	EntType EntType `json:"enttype"`
	Value   string  `json:"value"` // text form, decoded per EntType
}

// Value is a decoded setting value. Exactly one payload field is meaningful,
// selected by Type.
type Value struct {
	Type  EntType
	Int   int64
	Float float64
	Str   string
	Bool  bool
	JSON  any
}

func IntValue(i int64) Value     { return Value{Type: EntInt, Int: i} }
func FloatValue(f float64) Value { return Value{Type: EntFloat, Float: f} }
func StringValue(s string) Value { return Value{Type: EntString, Str: s} }
func BoolValue(b bool) Value     { return Value{Type: EntBoolean, Bool: b} }
func JSONValue(v any) Value      { return Value{Type: EntJSON, JSON: v} }

var (
	errNotNumeric = errors.New("value is not numeric")
	errNonFinite  = errors.New("value is not a finite number")
)

// IsFinite reports whether f can be stored and served as JSON.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.Type {
	case EntInt:
		return v.Int
	case EntFloat:
		return v.Float
	case EntBoolean:
		return v.Bool
	case EntJSON:
		return v.JSON
	default:
		return v.Str
	}
}

// Float64 returns the value as a float when it is numeric or numeric text.
func (v Value) Float64() (float64, error) {
	switch v.Type {
	case EntInt:
		return float64(v.Int), nil
	case EntFloat:
		return v.Float, nil
	case EntString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, errNotNumeric
		}
		if !IsFinite(f) {
			return 0, errNonFinite
		}
		return f, nil
	case EntJSON:
		if f, ok := v.JSON.(float64); ok {
			return f, nil
		}
	}
	return 0, errNotNumeric
}

// MarshalJSON emits the payload only, so API responses carry plain values.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Encode returns the stored text form of v.
func Encode(v Value) (string, error) {
	switch v.Type {
	case EntInt:
		return strconv.FormatInt(v.Int, 10), nil
	case EntFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64), nil
	case EntBoolean:
		if v.Bool {
			return "True", nil
		}
		return "False", nil
	case EntJSON:
		b, err := json.Marshal(v.JSON)
		if err != nil {
			return "", fmt.Errorf("marshal json setting: %w", err)
		}
		return string(b), nil
	default:
		return v.Str, nil
	}
}

// Decode parses a stored record into a Value. Unknown tags decode as strings.
func Decode(rec SettingRecord) (Value, error) {
	return ParseValue(rec.EntType.Normalize(), rec.Value)
}

// ParseValue parses text according to t.
func ParseValue(t EntType, text string) (Value, error) {
	switch t.Normalize() {
	case EntInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse int %q: %w", text, err)
		}
		return IntValue(i), nil
	case EntFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse float %q: %w", text, err)
		}
		if !IsFinite(f) {
			return Value{}, fmt.Errorf("parse float %q: %w", text, errNonFinite)
		}
		return FloatValue(f), nil
	case EntBoolean:
		b, err := parseBool(text)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case EntJSON:
		var out any
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return Value{}, fmt.Errorf("parse json: %w", err)
		}
		return JSONValue(out), nil
	default:
		return StringValue(text), nil
	}
}

// parseBool accepts the stored "True"/"False" form and strconv spellings.
func parseBool(text string) (bool, error) {
	s := strings.TrimSpace(text)
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parse boolean %q: %w", text, err)
	}
	return b, nil
}
