package telemetry

import (
	"regexp"
	"strings"
	"time"
)

// SessionMetadata is derived descriptive context for a session. It is
// heuristic, not authoritative: the driver name and session type come from
// the advisory filename, the duration and lap count from the cleaned rows.
type SessionMetadata struct {
	DriverName  string   `json:"driver_name,omitempty"`
	TrackName   string   `json:"track_name"`
	SessionType string   `json:"session_type"`
	Date        string   `json:"date"`
	Weather     string   `json:"weather"`
	Duration    *float64 `json:"duration,omitempty"`
	TotalLaps   *int     `json:"total_laps,omitempty"`
}

// driverNamePattern matches logger exports named like
// "Jane Driver Round 3 Qualifying.csv".
var driverNamePattern = regexp.MustCompile(`(?i)([A-Za-z\s]+)\s+Round`)

// ExtractMetadata derives session metadata from the cleaned rows and the
// advisory filename. The session date is stamped from now, since logger
// exports carry no reliable date of their own.
func ExtractMetadata(rows []Row, filename string, now time.Time) SessionMetadata {
	meta := SessionMetadata{
		TrackName:   "Unknown Track",
		SessionType: sessionTypeFromFilename(filename),
		Date:        now.Format("2006-01-02"),
		Weather:     "Unknown",
	}

	if m := driverNamePattern.FindStringSubmatch(filename); m != nil {
		meta.DriverName = strings.TrimSpace(m[1])
	}

	var minTime, maxTime float64
	var haveTime bool
	totalLaps := 0
	for _, r := range rows {
		if r.Time.OK {
			if !haveTime || r.Time.V < minTime {
				minTime = r.Time.V
			}
			if !haveTime || r.Time.V > maxTime {
				maxTime = r.Time.V
			}
			haveTime = true
		}
		if r.LapTime.OK {
			totalLaps++
		}
	}
	if haveTime {
		duration := maxTime - minTime
		meta.Duration = &duration
	}
	if totalLaps > 0 {
		meta.TotalLaps = &totalLaps
	}

	return meta
}

func sessionTypeFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "practice"):
		return "Practice"
	case strings.Contains(lower, "qualifying"):
		return "Qualifying"
	case strings.Contains(lower, "race"):
		return "Race"
	}
	return "Unknown"
}
