package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Lap is the aggregate record for one completed lap. Sector times are
// optional and stay nil when the logger does not report them.
type Lap struct {
	LapNumber int      `json:"lap_number"`
	LapTime   float64  `json:"lap_time"`
	Sector1   *float64 `json:"sector_1,omitempty"`
	Sector2   *float64 `json:"sector_2,omitempty"`
	Sector3   *float64 `json:"sector_3,omitempty"`
	MaxSpeed  float64  `json:"max_speed"`
	AvgSpeed  float64  `json:"avg_speed"`
	MaxGForce float64  `json:"max_g_force"`
	IsFastest bool     `json:"is_fastest"`
}

// SegmentLaps partitions time-ordered rows into laps. A row carrying a
// non-missing lap_time is a lap-completion marker: it is the last row of the
// lap it completes, and every row since the previous marker belongs to that
// lap. Rows after the final marker belong to no completed lap and are
// dropped. Lap numbering is 1-based and dense.
//
// This is deliberately a cumulative-count partition, not a boundary
// detector: a logger that fires a marker on every row yields one near-empty
// lap per row, and a single marker on the last row yields one lap wrapping
// the whole session. Both are valid. No markers at all yields an empty lap
// list, which is a valid state rather than an error.
func SegmentLaps(rows []Row) []Lap {
	laps := []Lap{}
	start := 0
	for i, r := range rows {
		if !r.LapTime.OK {
			continue
		}
		laps = append(laps, buildLap(len(laps)+1, rows[start:i+1]))
		start = i + 1
	}
	markFastest(laps)
	return laps
}

func buildLap(number int, group []Row) Lap {
	lap := Lap{
		LapNumber: number,
		// the marker row is last in the group and supplies the
		// official lap time
		LapTime: group[len(group)-1].LapTime.V,
	}

	var speeds []float64
	for _, r := range group {
		if r.Speed.OK {
			speeds = append(speeds, r.Speed.V)
		}
		if g, ok := combinedG(r); ok && g > lap.MaxGForce {
			lap.MaxGForce = g
		}
	}
	if len(speeds) > 0 {
		lap.AvgSpeed = stat.Mean(speeds, nil)
		for _, s := range speeds {
			if s > lap.MaxSpeed {
				lap.MaxSpeed = s
			}
		}
	}

	return lap
}

// combinedG is the scalar cornering/braking load proxy: the magnitude of the
// lateral and longitudinal acceleration vector. Missing when either axis is.
func combinedG(r Row) (float64, bool) {
	if !r.GForceX.OK || !r.GForceY.OK {
		return 0, false
	}
	return math.Sqrt(r.GForceX.V*r.GForceX.V + r.GForceY.V*r.GForceY.V), true
}

// markFastest flags the lap with the minimum positive lap time, first
// occurrence winning ties. A lap with a zero or negative time is a sentinel
// for an incomplete lap and can never be fastest.
func markFastest(laps []Lap) {
	best := -1
	for i, l := range laps {
		if l.LapTime <= 0 {
			continue
		}
		if best < 0 || l.LapTime < laps[best].LapTime {
			best = i
		}
	}
	if best >= 0 {
		laps[best].IsFastest = true
	}
}
