package telemetry

import (
	"testing"
	"time"
)

var metadataNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestExtractMetadataFilenameHeuristics(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantDriver  string
		wantSession string
	}{
		{"driver and qualifying", "Jane Driver Round 3 Qualifying.csv", "Jane Driver", "Qualifying"},
		{"practice session", "morning practice.csv", "", "Practice"},
		{"race session", "RACE_final.csv", "", "Race"},
		{"no hints", "export.csv", "", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ExtractMetadata(nil, tt.filename, metadataNow)
			if meta.DriverName != tt.wantDriver {
				t.Errorf("driver = %q, want %q", meta.DriverName, tt.wantDriver)
			}
			if meta.SessionType != tt.wantSession {
				t.Errorf("session type = %q, want %q", meta.SessionType, tt.wantSession)
			}
		})
	}
}

func TestExtractMetadataDefaults(t *testing.T) {
	meta := ExtractMetadata(nil, "export.csv", metadataNow)
	if meta.TrackName != "Unknown Track" {
		t.Errorf("track = %q, want %q", meta.TrackName, "Unknown Track")
	}
	if meta.Weather != "Unknown" {
		t.Errorf("weather = %q, want %q", meta.Weather, "Unknown")
	}
	if meta.Date != "2026-03-14" {
		t.Errorf("date = %q, want %q", meta.Date, "2026-03-14")
	}
	if meta.Duration != nil {
		t.Errorf("duration = %v, want nil without time data", *meta.Duration)
	}
	if meta.TotalLaps != nil {
		t.Errorf("total laps = %v, want nil without markers", *meta.TotalLaps)
	}
}

func TestExtractMetadataFromRows(t *testing.T) {
	rows := []Row{
		{Time: sample(10.0)},
		{Time: sample(12.5), LapTime: sample(90)},
		{Time: sample(70.0), LapTime: sample(91)},
	}

	meta := ExtractMetadata(rows, "export.csv", metadataNow)
	if meta.Duration == nil || *meta.Duration != 60.0 {
		t.Errorf("duration = %v, want 60.0", meta.Duration)
	}
	if meta.TotalLaps == nil || *meta.TotalLaps != 2 {
		t.Errorf("total laps = %v, want 2", meta.TotalLaps)
	}
}
