package exporter

import (
	"math"
	"strconv"

	"truetalent/internal/talent"
)

// formatFloat renders a defined value with the given precision; NaN or Inf
// from degenerate arithmetic exports as an empty cell.
func formatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}

func formatNullable(f talent.Float, precision int) string {
	if f.IsNull() {
		return ""
	}
	return formatFloat(f.Float64(), precision)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
