package dpe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is an output quantity. An undefined quantity (NaN or infinite, the
// result of computing with a missing reference value) is encoded as null.
type Float float64

// Undefined is the value carried by quantities that depend on a missing
// reference value.
func Undefined() Float {
	return Float(math.NaN())
}

// Defined reports whether f is a finite number.
func (f Float) Defined() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler. null decodes to Undefined.
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Monthly holds one value per calendar month, January first.
type Monthly [12]float64

// Sum returns the annual total.
func (m Monthly) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Scale returns m multiplied by k.
func (m Monthly) Scale(k float64) Monthly {
	var out Monthly
	for i, v := range m {
		out[i] = v * k
	}
	return out
}

// MarshalJSON encodes the twelve values, writing null for undefined months.
func (m Monthly) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 12*8)
	buf = append(buf, '[')
	for i, v := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		enc, _ := Float(v).MarshalJSON()
		buf = append(buf, enc...)
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON decodes twelve values; null decodes to NaN.
func (m *Monthly) UnmarshalJSON(data []byte) error {
	var vals [12]Float
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	for i, v := range vals {
		m[i] = float64(v)
	}
	return nil
}
