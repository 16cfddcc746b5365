// Package nullable holds JSON request types for form-style payloads where
// numbers may arrive as strings and an empty string means "no value".
package nullable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var null = []byte("null")

// Float is a number that accepts JSON numbers, numeric strings, "" and null.
type Float struct {
	Value float64
	Valid bool
}

func NewFloat(v float64) Float {
	return Float{Value: v, Valid: true}
}

func (f *Float) UnmarshalJSON(data []byte) error {
	raw, isNull, err := scalar(data)
	if err != nil {
		return err
	}
	if isNull {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("nullable: %q is not a number", raw)
	}
	*f = Float{Value: v, Valid: true}
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return null, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an absent value.
func (f Float) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Int is an integer that accepts JSON numbers, numeric strings, "" and null.
// Fractional input is truncated.
type Int struct {
	Value int
	Valid bool
}

func NewInt(v int) Int {
	return Int{Value: v, Valid: true}
}

func (i *Int) UnmarshalJSON(data []byte) error {
	raw, isNull, err := scalar(data)
	if err != nil {
		return err
	}
	if isNull {
		*i = Int{}
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*i = Int{Value: v, Valid: true}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("nullable: %q is not an integer", raw)
	}
	*i = Int{Value: int(v), Valid: true}
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return null, nil
	}
	return json.Marshal(i.Value)
}

func (i Int) Ptr() *int {
	if !i.Valid {
		return nil
	}
	v := i.Value
	return &v
}

// String maps "" (after trimming) to nil.
func String(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// scalar extracts the textual value of a JSON number or string.
func scalar(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return "", true, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", true, nil
		}
		return s, false, nil
	}
	if data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f' {
		return "", false, fmt.Errorf("nullable: unexpected JSON value %s", data)
	}
	return string(data), false, nil
}
