package loader

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"truetalent/internal/talent"
)

// table is a CSV file read whole, with columns addressed by header name.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

// readTable opens and parses one CSV file. An unreadable or headerless file
// is reported as a missing table.
func readTable(path, name string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, talent.NewMissingTable(name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged trailing columns appear in some feeds

	records, err := reader.ReadAll()
	if err != nil {
		return nil, talent.NewMissingTable(name, fmt.Errorf("parse %s: %w", path, err))
	}
	if len(records) == 0 {
		return nil, talent.NewMissingTable(name, fmt.Errorf("%s has no header row", path))
	}

	cols := make(map[string]int, len(records[0]))
	for i, header := range records[0] {
		cols[strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))] = i
	}

	return &table{name: name, cols: cols, rows: records[1:]}, nil
}

// require fails on the first listed column absent from the header.
func (t *table) require(columns ...string) error {
	for _, col := range columns {
		if _, ok := t.cols[col]; !ok {
			return talent.NewMissingColumn(t.name, col)
		}
	}
	return nil
}

func (t *table) has(column string) bool {
	_, ok := t.cols[column]
	return ok
}

// get returns the trimmed cell under column, or "" when the row is short.
func (t *table) get(row []string, column string) string {
	i, ok := t.cols[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty integer cell")
	}
	// Some exports write identifiers as floats ("453286.0").
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", s, err)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return f, nil
}

// parseNullableFloat treats empty cells and the usual NA spellings as an
// undefined value, reported as NaN with ok=false.
func parseNullableFloat(s string) (float64, bool) {
	switch strings.ToUpper(s) {
	case "", "NA", "N/A", "NAN", "NULL", "NONE":
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}
