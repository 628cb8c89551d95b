package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PerformanceMetrics is a session-wide aggregate of canonical rows and laps.
// It is a pure value owned by the caller; recomputing it over the same inputs
// yields identical output.
type PerformanceMetrics struct {
	FastestLap        float64 `json:"fastest_lap"`
	AverageLap        float64 `json:"average_lap"`
	MaxSpeed          float64 `json:"max_speed"`
	AvgSpeed          float64 `json:"avg_speed"`
	MaxRPM            int     `json:"max_rpm"`
	AvgRPM            float64 `json:"avg_rpm"`
	MaxGForce         float64 `json:"max_g_force"`
	BrakingPoints     int     `json:"braking_points"`
	AccelerationZones int     `json:"acceleration_zones"`
}

// CalculateMetrics derives session-wide performance metrics. Lap statistics
// cover laps with a positive lap time only; channel statistics run over the
// full row set, including rows outside any completed lap. Entirely absent
// channels report zero.
func CalculateMetrics(rows []Row, laps []Lap) PerformanceMetrics {
	var m PerformanceMetrics

	var lapTimes []float64
	for _, l := range laps {
		if l.LapTime > 0 {
			lapTimes = append(lapTimes, l.LapTime)
		}
	}
	if len(lapTimes) > 0 {
		m.FastestLap = floats.Min(lapTimes)
		m.AverageLap = stat.Mean(lapTimes, nil)
	}

	speeds := collectSamples(rows, func(r Row) Sample { return r.Speed })
	if len(speeds) > 0 {
		m.MaxSpeed = floats.Max(speeds)
		m.AvgSpeed = stat.Mean(speeds, nil)
	}

	rpms := collectSamples(rows, func(r Row) Sample { return r.RPM })
	if len(rpms) > 0 {
		m.MaxRPM = int(floats.Max(rpms))
		m.AvgRPM = stat.Mean(rpms, nil)
	}

	for _, r := range rows {
		if g, ok := combinedG(r); ok && g > m.MaxGForce {
			m.MaxGForce = g
		}
	}

	// Braking points and acceleration zones are sample counts above the
	// data-relative 70th percentile, not counts of discrete physical
	// events. The literal semantic is preserved on purpose.
	brakes := collectSamples(rows, func(r Row) Sample { return r.Brake })
	throttles := collectSamples(rows, func(r Row) Sample { return r.Throttle })
	if len(brakes) > 0 && len(throttles) > 0 {
		brakeThreshold := percentile(brakes, 0.7)
		throttleThreshold := percentile(throttles, 0.7)
		for _, r := range rows {
			if r.Brake.OK && r.Brake.V > brakeThreshold {
				m.BrakingPoints++
			}
			if r.Throttle.OK && r.Throttle.V > throttleThreshold {
				m.AccelerationZones++
			}
		}
	}

	return m
}

func collectSamples(rows []Row, get func(Row) Sample) []float64 {
	var out []float64
	for _, r := range rows {
		if s := get(r); s.OK {
			out = append(out, s.V)
		}
	}
	return out
}

// percentile computes the linearly interpolated p-quantile of values, the
// same estimate a spreadsheet or dataframe reports: rank h = p*(n-1),
// interpolated between the two nearest order statistics. gonum's Quantile
// implements a different estimator, so this is computed directly.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := p * float64(len(sorted)-1)
	i := int(math.Floor(h))
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
