package telemetry

import (
	"sort"
	"strconv"
	"strings"
)

// Clean converts a normalized table into canonical rows. Cleaning is purely
// structural: rows whose cells are all empty are dropped, rows are stably
// ordered by time when a time column exists, and every canonical field is
// coerced to a number. A cell that cannot be coerced becomes missing rather
// than an error and stays silent in downstream aggregates. No interpolation,
// no outlier removal.
func Clean(t *RawTable) []Row {
	// resolve each canonical field to its first matching column once
	fieldCol := make(map[string]int, len(canonicalFields))
	for _, f := range canonicalFields {
		if i := t.ColumnIndex(f.name); i >= 0 {
			fieldCol[f.name] = i
		}
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, rec := range t.Rows {
		if allCellsEmpty(rec) {
			continue
		}
		var row Row
		for _, f := range canonicalFields {
			i, ok := fieldCol[f.name]
			if !ok {
				continue
			}
			*fieldRef(&row, f.name) = coerce(rec[i])
		}
		rows = append(rows, row)
	}

	if _, hasTime := fieldCol["time"]; hasTime {
		// stable so equal timestamps keep source order; unparseable
		// times sort after all valid ones
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].Time, rows[j].Time
			if a.OK && b.OK {
				return a.V < b.V
			}
			return a.OK && !b.OK
		})
	}

	return rows
}

func allCellsEmpty(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func coerce(cell string) Sample {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Sample{}
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return Sample{}
	}
	return sample(v)
}
