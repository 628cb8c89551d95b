package telemetry

import (
	"testing"
)

func TestCleanCoercion(t *testing.T) {
	table := &RawTable{
		Columns: []string{"time", "speed", "gear"},
		Rows: [][]string{
			{"0.0", "120.5", "3"},
			{"0.1", "not-a-number", "3"},
			{"0.2", "", " 4 "},
		},
	}

	rows := Clean(table)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	if !rows[0].Speed.OK || rows[0].Speed.V != 120.5 {
		t.Errorf("row 0 speed = %+v, want 120.5", rows[0].Speed)
	}
	if rows[1].Speed.OK {
		t.Errorf("row 1 speed = %+v, want missing for unparseable cell", rows[1].Speed)
	}
	if rows[2].Speed.OK {
		t.Errorf("row 2 speed = %+v, want missing for empty cell", rows[2].Speed)
	}
	// surrounding whitespace is trimmed before coercion
	if !rows[2].Gear.OK || rows[2].Gear.V != 4 {
		t.Errorf("row 2 gear = %+v, want 4", rows[2].Gear)
	}
}

func TestCleanDropsBlankRows(t *testing.T) {
	table := &RawTable{
		Columns: []string{"time", "speed"},
		Rows: [][]string{
			{"0.0", "100"},
			{"", ""},
			{"  ", "  "},
			{"0.1", "101"},
		},
	}

	rows := Clean(table)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 after dropping blank rows", len(rows))
	}
}

func TestCleanSortsByTime(t *testing.T) {
	table := &RawTable{
		Columns: []string{"time", "speed"},
		Rows: [][]string{
			{"2.0", "102"},
			{"bad", "999"},
			{"0.0", "100"},
			{"1.0", "101"},
		},
	}

	rows := Clean(table)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	want := []float64{0.0, 1.0, 2.0}
	for i, w := range want {
		if !rows[i].Time.OK || rows[i].Time.V != w {
			t.Errorf("row %d time = %+v, want %v", i, rows[i].Time, w)
		}
	}
	// the unparseable timestamp sorts after all valid ones
	if rows[3].Time.OK {
		t.Errorf("row 3 time = %+v, want missing", rows[3].Time)
	}
	if !rows[3].Speed.OK || rows[3].Speed.V != 999 {
		t.Errorf("row 3 speed = %+v, want 999", rows[3].Speed)
	}
}

func TestCleanStableOnEqualTimestamps(t *testing.T) {
	table := &RawTable{
		Columns: []string{"time", "speed"},
		Rows: [][]string{
			{"1.0", "1"},
			{"1.0", "2"},
			{"1.0", "3"},
		},
	}

	rows := Clean(table)
	for i, want := range []float64{1, 2, 3} {
		if rows[i].Speed.V != want {
			t.Errorf("row %d speed = %v, want %v (source order lost)", i, rows[i].Speed.V, want)
		}
	}
}

func TestCleanWithoutTimeColumnKeepsOrder(t *testing.T) {
	table := &RawTable{
		Columns: []string{"speed"},
		Rows:    [][]string{{"3"}, {"1"}, {"2"}},
	}

	rows := Clean(table)
	for i, want := range []float64{3, 1, 2} {
		if rows[i].Speed.V != want {
			t.Errorf("row %d speed = %v, want %v", i, rows[i].Speed.V, want)
		}
	}
}
