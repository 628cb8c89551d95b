// Package report renders processed sessions into downloadable artifacts.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/apex-data/telemetry.report/internal/telemetry"
)

const (
	lapsSheet    = "Laps"
	metricsSheet = "Metrics"
)

// SessionWorkbook renders a processed session into an XLSX workbook with one
// sheet of per-lap aggregates and one of session metrics.
func SessionWorkbook(result *telemetry.ProcessResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the lap sheet
	if err := f.SetSheetName("Sheet1", lapsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename lap sheet: %w", err)
	}

	lapHeader := []interface{}{"Lap", "Lap Time (s)", "Max Speed (km/h)", "Avg Speed (km/h)", "Max G", "Fastest"}
	if err := f.SetSheetRow(lapsSheet, "A1", &lapHeader); err != nil {
		return nil, fmt.Errorf("failed to write lap header: %w", err)
	}
	for i, lap := range result.LapAnalysis {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{lap.LapNumber, lap.LapTime, lap.MaxSpeed, lap.AvgSpeed, lap.MaxGForce, lap.IsFastest}
		if err := f.SetSheetRow(lapsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write lap row %d: %w", lap.LapNumber, err)
		}
	}

	if _, err := f.NewSheet(metricsSheet); err != nil {
		return nil, fmt.Errorf("failed to create metrics sheet: %w", err)
	}
	m := result.PerformanceMetrics
	metricRows := [][]interface{}{
		{"Fastest Lap (s)", m.FastestLap},
		{"Average Lap (s)", m.AverageLap},
		{"Max Speed (km/h)", m.MaxSpeed},
		{"Avg Speed (km/h)", m.AvgSpeed},
		{"Max RPM", m.MaxRPM},
		{"Avg RPM", m.AvgRPM},
		{"Max G-Force", m.MaxGForce},
		{"Braking Points", m.BrakingPoints},
		{"Acceleration Zones", m.AccelerationZones},
		{"Data Points", result.DataPoints},
		{"Session Type", result.Metadata.SessionType},
		{"Date", result.Metadata.Date},
	}
	for i, row := range metricRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(metricsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write metrics row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise workbook: %w", err)
	}
	return buf, nil
}

// WorkbookFilename derives a download filename for a session workbook from
// the uploaded filename.
func WorkbookFilename(uploadName string, now time.Time) string {
	base := strings.TrimSuffix(uploadName, ".csv")
	if base == "" {
		base = "session"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s_%s.xlsx", base, now.Format("20060102_150405"))
}
