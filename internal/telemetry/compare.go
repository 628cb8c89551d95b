package telemetry

import "fmt"

// Improvement-potential thresholds that trigger a recommendation, percent.
const (
	lapTimeAdviceThreshold = 1.0
	speedAdviceThreshold   = 5.0
)

// UnknownSession is the sentinel used when no compared session carries lap
// data.
const UnknownSession = "Unknown"

// Session bundles one already-processed session for comparison.
type Session struct {
	Name    string
	Rows    []Row
	Laps    []Lap
	Metrics PerformanceMetrics
}

// ComparisonMetric ranks the sessions on one tracked parameter.
type ComparisonMetric struct {
	Parameter            string             `json:"parameter"`
	SessionValues        map[string]float64 `json:"session_values"`
	BestPerformance      string             `json:"best_performance"`
	WorstPerformance     string             `json:"worst_performance"`
	ImprovementPotential float64            `json:"improvement_potential"`
}

// BarChart is a named bar-chart payload for comparison views.
type BarChart struct {
	Data  map[string][]float64 `json:"data"`
	Type  string               `json:"type"`
	Title string               `json:"title"`
}

// ComparisonReport aggregates metrics and recommendations across sessions.
type ComparisonReport struct {
	SessionNames      []string            `json:"session_names"`
	ComparisonMetrics []ComparisonMetric  `json:"comparison_metrics"`
	FastestOverall    string              `json:"fastest_overall"`
	Recommendations   []string            `json:"recommendations"`
	ComparisonCharts  map[string]BarChart `json:"comparison_charts"`
}

// comparisonParameter is one tracked cross-session metric. Directionality is
// an explicit property of the parameter, never inferred from its label.
type comparisonParameter struct {
	name          string
	lowerIsBetter bool
	value         func(Session) (float64, bool)
}

var comparisonParameters = []comparisonParameter{
	{
		name:          "Fastest Lap Time",
		lowerIsBetter: true,
		value: func(s Session) (float64, bool) {
			if s.Metrics.FastestLap > 0 {
				return s.Metrics.FastestLap, true
			}
			return 0, false
		},
	},
	{
		name:          "Maximum Speed",
		lowerIsBetter: false,
		value: func(s Session) (float64, bool) {
			if s.Metrics.MaxSpeed > 0 {
				return s.Metrics.MaxSpeed, true
			}
			return 0, false
		},
	},
}

// CompareSessions ranks the given sessions on each tracked parameter. A
// parameter with no session data, or whose worst value is zero, is silently
// omitted rather than failed: improvement potential is always relative to
// the worst value and undefined when that value is zero. Ties resolve to the
// session that appears first in the input.
func CompareSessions(sessions []Session) *ComparisonReport {
	report := &ComparisonReport{
		SessionNames:      make([]string, len(sessions)),
		ComparisonMetrics: []ComparisonMetric{},
		FastestOverall:    UnknownSession,
		Recommendations:   []string{},
		ComparisonCharts:  map[string]BarChart{},
	}
	for i, s := range sessions {
		report.SessionNames[i] = s.Name
	}

	for _, param := range comparisonParameters {
		values := make(map[string]float64, len(sessions))
		best, worst := "", ""
		for _, s := range sessions {
			v, ok := param.value(s)
			if !ok {
				continue
			}
			values[s.Name] = v
			if best == "" || better(param, v, values[best]) {
				best = s.Name
			}
			if worst == "" || better(param, values[worst], v) {
				worst = s.Name
			}
		}
		if len(values) == 0 || values[worst] == 0 {
			continue
		}

		improvement := (values[worst] - values[best]) / values[worst] * 100
		if !param.lowerIsBetter {
			improvement = (values[best] - values[worst]) / values[worst] * 100
		}

		report.ComparisonMetrics = append(report.ComparisonMetrics, ComparisonMetric{
			Parameter:            param.name,
			SessionValues:        values,
			BestPerformance:      best,
			WorstPerformance:     worst,
			ImprovementPotential: improvement,
		})

		if param.name == "Fastest Lap Time" {
			report.FastestOverall = best
		}
	}

	report.Recommendations = comparisonRecommendations(report.ComparisonMetrics)
	if chart, ok := lapTimeComparisonChart(sessions); ok {
		report.ComparisonCharts["lap_time_comparison"] = chart
	}

	return report
}

// better reports whether a beats b in the parameter's direction. Strict
// comparison so the first session to reach a value keeps it on ties.
func better(param comparisonParameter, a, b float64) bool {
	if param.lowerIsBetter {
		return a < b
	}
	return a > b
}

func comparisonRecommendations(metrics []ComparisonMetric) []string {
	recommendations := []string{}
	for _, m := range metrics {
		if m.Parameter == "Fastest Lap Time" && m.ImprovementPotential > lapTimeAdviceThreshold {
			recommendations = append(recommendations, fmt.Sprintf(
				"Lap time can be improved by %.1f%% - analyze %s session",
				m.ImprovementPotential, m.BestPerformance))
		}
		if m.Parameter == "Maximum Speed" && m.ImprovementPotential > speedAdviceThreshold {
			recommendations = append(recommendations, fmt.Sprintf(
				"Top speed can be increased by %.1f%% - check setup and driving line",
				m.ImprovementPotential))
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Performance is consistent across sessions - focus on fine-tuning")
	}
	return recommendations
}

func lapTimeComparisonChart(sessions []Session) (BarChart, bool) {
	data := make(map[string][]float64)
	for _, s := range sessions {
		var times []float64
		for _, l := range s.Laps {
			if l.LapTime > 0 {
				times = append(times, l.LapTime)
			}
		}
		if len(times) > 0 {
			data[s.Name] = times
		}
	}
	if len(data) == 0 {
		return BarChart{}, false
	}
	return BarChart{Data: data, Type: "bar", Title: "Lap Time Comparison"}, true
}
