package telemetry

import (
	"github.com/apex-data/telemetry.report/internal/timeutil"
)

// ProcessResult is the normalized record produced for one session.
type ProcessResult struct {
	Metadata           SessionMetadata    `json:"metadata"`
	DataPoints         int                `json:"data_points"`
	ParametersFound    []string           `json:"parameters_found"`
	LapAnalysis        []Lap              `json:"lap_analysis"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

// AnalysisResult extends ProcessResult with qualitative insights and chart
// payloads.
type AnalysisResult struct {
	ProcessResult
	Insights   InsightReport          `json:"insights"`
	ChartsData map[string]ChartSeries `json:"charts_data"`
}

// Processor runs the full pipeline over raw uploads. It holds no mutable
// state, so a single Processor is safe for concurrent use; the clock exists
// only so tests can pin the session date.
type Processor struct {
	clock timeutil.Clock
}

// NewProcessor returns a Processor using the wall clock.
func NewProcessor() *Processor {
	return &Processor{clock: timeutil.RealClock{}}
}

// NewProcessorWithClock returns a Processor with an explicit clock.
func NewProcessorWithClock(clock timeutil.Clock) *Processor {
	return &Processor{clock: clock}
}

// Process runs decode, normalize, clean, lap segmentation and metrics over
// one upload. The filename is advisory and feeds metadata heuristics only.
func (p *Processor) Process(content []byte, filename string) (*ProcessResult, error) {
	table, err := Decode(content)
	if err != nil {
		return nil, err
	}
	normalized := Normalize(table)
	rows := Clean(normalized)
	laps := SegmentLaps(rows)

	return &ProcessResult{
		Metadata:           ExtractMetadata(rows, filename, p.clock.Now()),
		DataPoints:         len(rows),
		ParametersFound:    append([]string{}, normalized.Columns...),
		LapAnalysis:        laps,
		PerformanceMetrics: CalculateMetrics(rows, laps),
	}, nil
}

// Analyze runs Process and additionally derives insights and chart payloads.
func (p *Processor) Analyze(content []byte, filename string) (*AnalysisResult, error) {
	result, err := p.Process(content, filename)
	if err != nil {
		return nil, err
	}

	// the pipeline is deterministic, so re-running it for the row set
	// yields the same rows the process pass saw
	table, err := Decode(content)
	if err != nil {
		return nil, err
	}
	rows := Clean(Normalize(table))

	return &AnalysisResult{
		ProcessResult: *result,
		Insights:      GenerateInsights(rows, result.LapAnalysis),
		ChartsData:    ChartData(rows),
	}, nil
}

// ProcessSession is a convenience wrapper that shapes a processed upload into
// a comparison Session.
func (p *Processor) ProcessSession(content []byte, filename string) (Session, error) {
	table, err := Decode(content)
	if err != nil {
		return Session{}, err
	}
	rows := Clean(Normalize(table))
	laps := SegmentLaps(rows)
	return Session{
		Name:    filename,
		Rows:    rows,
		Laps:    laps,
		Metrics: CalculateMetrics(rows, laps),
	}, nil
}
