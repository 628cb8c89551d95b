package telemetry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Consistency rating thresholds for the lap-time coefficient of variation,
// in percent.
const (
	consistencyExcellent = 2.0
	consistencyGood      = 5.0
)

// G-force advisory bounds: below the floor the driver likely has grip in
// hand; above the ceiling tire wear deserves attention. Advisory only.
const (
	gForceFloor   = 1.5
	gForceCeiling = 3.0
)

// speedVarianceThreshold flags ragged speed traces that suggest abrupt
// transitions through corners.
const speedVarianceThreshold = 100.0

// LapConsistency rates how repeatable the lap times are.
type LapConsistency struct {
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	Rating                 string  `json:"rating"`
}

// SpeedManagement summarises the speed trace.
type SpeedManagement struct {
	MaxSpeed      float64 `json:"max_speed"`
	AverageSpeed  float64 `json:"average_speed"`
	SpeedVariance float64 `json:"speed_variance"`
}

// PerformanceSummary groups the quantitative findings; sections absent from
// the data stay nil.
type PerformanceSummary struct {
	LapConsistency  *LapConsistency  `json:"lap_consistency,omitempty"`
	SpeedManagement *SpeedManagement `json:"speed_management,omitempty"`
}

// InsightReport carries qualitative findings and recommendations derived
// from a session. Recommendations are advisory and not validated against any
// ground truth.
type InsightReport struct {
	PerformanceSummary PerformanceSummary `json:"performance_summary"`
	Recommendations    []string           `json:"recommendations"`
	KeyFindings        []string           `json:"key_findings"`
}

// GenerateInsights derives findings from the cleaned rows and lap list.
func GenerateInsights(rows []Row, laps []Lap) InsightReport {
	report := InsightReport{
		Recommendations: []string{},
		KeyFindings:     []string{},
	}

	var lapTimes []float64
	for _, l := range laps {
		if l.LapTime > 0 {
			lapTimes = append(lapTimes, l.LapTime)
		}
	}
	if len(lapTimes) > 1 {
		mean := stat.Mean(lapTimes, nil)
		cv := 0.0
		if mean > 0 {
			cv = popStdDev(lapTimes, mean) / mean * 100
		}
		rating := "Needs Improvement"
		switch {
		case cv < consistencyExcellent:
			rating = "Excellent"
		case cv < consistencyGood:
			rating = "Good"
		}
		report.PerformanceSummary.LapConsistency = &LapConsistency{
			CoefficientOfVariation: cv,
			Rating:                 rating,
		}
		if cv > consistencyGood {
			report.Recommendations = append(report.Recommendations,
				"Focus on lap time consistency - practice maintaining steady pace")
		}
	}

	speeds := collectSamples(rows, func(r Row) Sample { return r.Speed })
	if len(speeds) > 0 {
		variance := 0.0
		if len(speeds) > 1 {
			variance = stat.Variance(speeds, nil)
		}
		var maxSpeed float64
		for _, s := range speeds {
			if s > maxSpeed {
				maxSpeed = s
			}
		}
		report.PerformanceSummary.SpeedManagement = &SpeedManagement{
			MaxSpeed:      maxSpeed,
			AverageSpeed:  stat.Mean(speeds, nil),
			SpeedVariance: variance,
		}
		if variance > speedVarianceThreshold {
			report.Recommendations = append(report.Recommendations,
				"Work on smoother speed transitions through corners")
		}
	}

	var maxG float64
	var haveG bool
	for _, r := range rows {
		if g, ok := combinedG(r); ok {
			haveG = true
			if g > maxG {
				maxG = g
			}
		}
	}
	if haveG {
		report.KeyFindings = append(report.KeyFindings,
			fmt.Sprintf("Maximum G-force recorded: %.2fg", maxG))
		if maxG < gForceFloor {
			report.Recommendations = append(report.Recommendations,
				"Consider pushing harder in corners to maximize grip")
		} else if maxG > gForceCeiling {
			report.Recommendations = append(report.Recommendations,
				"Monitor tire wear - high G-forces detected")
		}
	}

	return report
}

// popStdDev is the population standard deviation (no Bessel correction),
// matching how lap-time spread is conventionally quoted.
func popStdDev(values []float64, mean float64) float64 {
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
