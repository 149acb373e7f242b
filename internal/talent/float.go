package talent

import (
	"math"
	"strconv"
)

// Float is a float64 whose undefined state is NaN and which marshals to JSON
// null instead of failing the way encoding/json does on NaN. Derived fields
// that can be undefined for a batter (no pitches seen, zero PA) use Float so
// the presentation layer receives an explicit null rather than a fake zero.
type Float float64

// NullFloat returns the undefined value.
func NullFloat() Float {
	return Float(math.NaN())
}

// IsNull reports whether the value is undefined.
func (f Float) IsNull() bool {
	return math.IsNaN(float64(f))
}

// Float64 returns the underlying float64, NaN when undefined.
func (f Float) Float64() float64 {
	return float64(f)
}

// Or returns the value, or fallback when undefined.
func (f Float) Or(fallback float64) float64 {
	if f.IsNull() {
		return fallback
	}
	return float64(f)
}

// MarshalJSON renders undefined values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if f.IsNull() || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(f), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts null as the undefined value.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullFloat()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
