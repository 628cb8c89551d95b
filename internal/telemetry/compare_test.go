package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithMetrics(name string, fastestLap, maxSpeed float64) Session {
	return Session{
		Name:    name,
		Metrics: PerformanceMetrics{FastestLap: fastestLap, MaxSpeed: maxSpeed},
	}
}

func findMetric(t *testing.T, report *ComparisonReport, parameter string) ComparisonMetric {
	t.Helper()
	for _, m := range report.ComparisonMetrics {
		if m.Parameter == parameter {
			return m
		}
	}
	t.Fatalf("no %q metric in report", parameter)
	return ComparisonMetric{}
}

func TestCompareSessionsLapTime(t *testing.T) {
	report := CompareSessions([]Session{
		sessionWithMetrics("quali.csv", 90, 0),
		sessionWithMetrics("race.csv", 100, 0),
	})

	assert.Equal(t, []string{"quali.csv", "race.csv"}, report.SessionNames)

	m := findMetric(t, report, "Fastest Lap Time")
	assert.Equal(t, "quali.csv", m.BestPerformance)
	assert.Equal(t, "race.csv", m.WorstPerformance)
	// lower is better: (100 - 90) / 100 = 10%
	assert.InDelta(t, 10.0, m.ImprovementPotential, 1e-9)

	assert.Equal(t, "quali.csv", report.FastestOverall)
	assert.Contains(t, report.Recommendations,
		"Lap time can be improved by 10.0% - analyze quali.csv session")
}

func TestCompareSessionsMaxSpeed(t *testing.T) {
	report := CompareSessions([]Session{
		sessionWithMetrics("a.csv", 0, 200),
		sessionWithMetrics("b.csv", 0, 220),
	})

	m := findMetric(t, report, "Maximum Speed")
	assert.Equal(t, "b.csv", m.BestPerformance)
	assert.Equal(t, "a.csv", m.WorstPerformance)
	// higher is better: (220 - 200) / 200 = 10%
	assert.InDelta(t, 10.0, m.ImprovementPotential, 1e-9)
	assert.Contains(t, report.Recommendations,
		"Top speed can be increased by 10.0% - check setup and driving line")

	// no lap data anywhere, so the lap metric is omitted entirely
	for _, metric := range report.ComparisonMetrics {
		assert.NotEqual(t, "Fastest Lap Time", metric.Parameter)
	}
	assert.Equal(t, UnknownSession, report.FastestOverall)
}

func TestCompareSessionsTieKeepsFirst(t *testing.T) {
	report := CompareSessions([]Session{
		sessionWithMetrics("first.csv", 90, 200),
		sessionWithMetrics("second.csv", 90, 200),
	})

	m := findMetric(t, report, "Fastest Lap Time")
	assert.Equal(t, "first.csv", m.BestPerformance)
	assert.Equal(t, "first.csv", m.WorstPerformance)
	assert.InDelta(t, 0.0, m.ImprovementPotential, 1e-9)
}

func TestCompareSessionsSkipsSessionsWithoutData(t *testing.T) {
	report := CompareSessions([]Session{
		sessionWithMetrics("empty.csv", 0, 0),
		sessionWithMetrics("a.csv", 95, 180),
		sessionWithMetrics("b.csv", 93, 185),
	})

	m := findMetric(t, report, "Fastest Lap Time")
	assert.NotContains(t, m.SessionValues, "empty.csv")
	assert.Len(t, m.SessionValues, 2)
	assert.Equal(t, "b.csv", m.BestPerformance)
}

func TestCompareSessionsNoData(t *testing.T) {
	report := CompareSessions([]Session{
		sessionWithMetrics("a.csv", 0, 0),
		sessionWithMetrics("b.csv", 0, 0),
	})

	assert.Empty(t, report.ComparisonMetrics)
	assert.Equal(t, UnknownSession, report.FastestOverall)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "Performance is consistent across sessions - focus on fine-tuning",
		report.Recommendations[0])
	assert.Empty(t, report.ComparisonCharts)
}

func TestCompareSessionsCloseResultsDefaultRecommendation(t *testing.T) {
	// under both advice thresholds: 0.5% lap delta, 1% speed delta
	report := CompareSessions([]Session{
		sessionWithMetrics("a.csv", 99.5, 198),
		sessionWithMetrics("b.csv", 100, 200),
	})

	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "Performance is consistent across sessions - focus on fine-tuning",
		report.Recommendations[0])
}

func TestCompareSessionsLapTimeChart(t *testing.T) {
	withLaps := sessionWithMetrics("a.csv", 90, 0)
	withLaps.Laps = []Lap{
		{LapNumber: 1, LapTime: 92},
		{LapNumber: 2, LapTime: 0}, // incomplete, excluded from chart
		{LapNumber: 3, LapTime: 90},
	}

	report := CompareSessions([]Session{withLaps, sessionWithMetrics("b.csv", 95, 0)})

	chart, ok := report.ComparisonCharts["lap_time_comparison"]
	require.True(t, ok)
	assert.Equal(t, "bar", chart.Type)
	assert.Equal(t, "Lap Time Comparison", chart.Title)
	assert.Equal(t, []float64{92, 90}, chart.Data["a.csv"])
	assert.NotContains(t, chart.Data, "b.csv")
}
