package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Value is an optional float. A measured zero and a missing value are
// different things, so absence is carried explicitly instead of as NaN.
type Value struct {
	Float float64
	Valid bool
}

// Some wraps f. NaN and infinities are treated as absent.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

// None returns an absent value.
func None() Value { return Value{} }

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// Or returns the float, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float
}

func (v Value) String() string {
	if !v.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v.Float)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Some(f)
	return nil
}
