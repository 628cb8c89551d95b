package telemetry

import (
	"math"
	"testing"
)

// rowsWithMarkers builds n time-ordered rows with lap-completion markers at
// the given row indices, each marker carrying the given lap time.
func rowsWithMarkers(n int, markers map[int]float64) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i].Time = sample(float64(i))
		rows[i].Speed = sample(100 + float64(i))
		if lt, ok := markers[i]; ok {
			rows[i].LapTime = sample(lt)
		}
	}
	return rows
}

func TestSegmentLapsPartition(t *testing.T) {
	// markers on rows 2, 5 and 9: lap 1 covers rows 0-2, lap 2 rows 3-5,
	// lap 3 rows 6-9
	rows := rowsWithMarkers(10, map[int]float64{2: 92.1, 5: 90.4, 9: 91.0})

	laps := SegmentLaps(rows)
	if len(laps) != 3 {
		t.Fatalf("laps = %d, want 3", len(laps))
	}

	wantTimes := []float64{92.1, 90.4, 91.0}
	// max speed within each group pins the row partition: speeds are
	// 100+index, so group maxima land on the marker rows
	wantMaxSpeeds := []float64{102, 105, 109}
	for i, lap := range laps {
		if lap.LapNumber != i+1 {
			t.Errorf("lap %d number = %d, want %d", i, lap.LapNumber, i+1)
		}
		if lap.LapTime != wantTimes[i] {
			t.Errorf("lap %d time = %v, want %v", i, lap.LapTime, wantTimes[i])
		}
		if lap.MaxSpeed != wantMaxSpeeds[i] {
			t.Errorf("lap %d max speed = %v, want %v", i, lap.MaxSpeed, wantMaxSpeeds[i])
		}
	}
}

func TestSegmentLapsEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		rows     []Row
		wantLaps int
	}{
		{
			name:     "no markers yields no laps",
			rows:     rowsWithMarkers(5, nil),
			wantLaps: 0,
		},
		{
			name:     "single marker on last row wraps whole session",
			rows:     rowsWithMarkers(5, map[int]float64{4: 300.0}),
			wantLaps: 1,
		},
		{
			name:     "marker on every row yields one lap per row",
			rows:     rowsWithMarkers(3, map[int]float64{0: 1, 1: 1, 2: 1}),
			wantLaps: 3,
		},
		{
			name:     "rows after final marker are dropped",
			rows:     rowsWithMarkers(10, map[int]float64{4: 95.0}),
			wantLaps: 1,
		},
		{
			name:     "empty input",
			rows:     nil,
			wantLaps: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			laps := SegmentLaps(tt.rows)
			if len(laps) != tt.wantLaps {
				t.Errorf("laps = %d, want %d", len(laps), tt.wantLaps)
			}
		})
	}
}

func TestSegmentLapsTrailingRowsExcluded(t *testing.T) {
	rows := rowsWithMarkers(10, map[int]float64{4: 95.0})
	// rows 5-9 carry the highest speeds; they belong to no completed lap
	laps := SegmentLaps(rows)
	if len(laps) != 1 {
		t.Fatalf("laps = %d, want 1", len(laps))
	}
	if laps[0].MaxSpeed != 104 {
		t.Errorf("max speed = %v, want 104 (trailing rows leaked into lap)", laps[0].MaxSpeed)
	}
}

func TestExactlyOneFastestLap(t *testing.T) {
	tests := []struct {
		name        string
		markers     map[int]float64
		wantFastest int // lap number, 0 for none
	}{
		{"distinct times", map[int]float64{0: 92, 1: 90, 2: 91}, 2},
		{"tie resolves to first occurrence", map[int]float64{0: 90, 1: 90, 2: 91}, 1},
		{"zero lap time never fastest", map[int]float64{0: 0, 1: 95}, 2},
		{"negative lap time never fastest", map[int]float64{0: -1, 1: 95}, 2},
		{"all non-positive leaves none flagged", map[int]float64{0: 0, 1: -2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			laps := SegmentLaps(rowsWithMarkers(3, tt.markers))

			flagged := 0
			for _, lap := range laps {
				if lap.IsFastest {
					flagged++
					if lap.LapNumber != tt.wantFastest {
						t.Errorf("fastest = lap %d, want lap %d", lap.LapNumber, tt.wantFastest)
					}
				}
			}
			wantFlagged := 1
			if tt.wantFastest == 0 {
				wantFlagged = 0
			}
			if flagged != wantFlagged {
				t.Errorf("fastest laps flagged = %d, want %d", flagged, wantFlagged)
			}
		})
	}
}

func TestLapAggregates(t *testing.T) {
	rows := []Row{
		{Speed: sample(100), GForceX: sample(3), GForceY: sample(4)},
		{Speed: sample(110), GForceX: sample(1)}, // one G axis missing
		{Speed: sample(90), LapTime: sample(60)},
	}

	laps := SegmentLaps(rows)
	if len(laps) != 1 {
		t.Fatalf("laps = %d, want 1", len(laps))
	}
	lap := laps[0]
	if lap.MaxSpeed != 110 {
		t.Errorf("max speed = %v, want 110", lap.MaxSpeed)
	}
	if lap.AvgSpeed != 100 {
		t.Errorf("avg speed = %v, want 100", lap.AvgSpeed)
	}
	// 3-4-5 triangle; the row with only one axis contributes nothing
	if math.Abs(lap.MaxGForce-5) > 1e-9 {
		t.Errorf("max g = %v, want 5", lap.MaxGForce)
	}
}
