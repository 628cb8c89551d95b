// Package telemetry implements the lap-telemetry analytics engine: decoding
// raw CSV exports, normalizing logger-specific column names onto canonical
// channels, cleaning, lap segmentation, performance metrics, validation,
// insights and multi-session comparison.
//
// Every operation is a pure, synchronous transformation over in-memory data.
// Nothing here performs I/O or keeps state between calls, so concurrent
// sessions need no coordination.
package telemetry

// RawTable is a decoded CSV table before normalization: an ordered header row
// plus string cells. Rows are padded or truncated to header width at decode
// time, so len(Rows[i]) == len(Columns) always holds.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the first column with the given header
// name, or -1 if no column carries it.
func (t *RawTable) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Empty reports whether the table has no data rows.
func (t *RawTable) Empty() bool {
	return len(t.Rows) == 0
}

// Sample is an optional numeric reading. A cell that was absent or failed
// numeric coercion keeps OK false and contributes nothing to any aggregate;
// missing is never conflated with zero.
type Sample struct {
	V  float64
	OK bool
}

func sample(v float64) Sample {
	return Sample{V: v, OK: true}
}

// Row is one cleaned telemetry record carrying the fixed set of canonical
// channels. Rows are immutable value types once produced by Clean.
type Row struct {
	Time       Sample
	Speed      Sample
	RPM        Sample
	Throttle   Sample
	Brake      Sample
	Steering   Sample
	Gear       Sample
	Latitude   Sample
	Longitude  Sample
	GForceX    Sample
	GForceY    Sample
	GForceZ    Sample
	LapTime    Sample
	SectorTime Sample
	Distance   Sample
}

// canonicalFields enumerates the channels the engine understands, in the
// order normalization claims source columns. Alias lists are exact literal
// spellings: no case folding, no fuzzy matching. A lowercase spelling that is
// not enumerated here must not normalize even if another casing would.
var canonicalFields = []struct {
	name    string
	aliases []string
}{
	{"time", []string{"Time", "time", "TIME", "Timestamp", "timestamp"}},
	{"speed", []string{"Speed", "speed", "SPEED", "Vehicle Speed", "Velocity"}},
	{"rpm", []string{"RPM", "rpm", "Engine RPM", "Engine Speed"}},
	{"throttle", []string{"Throttle", "throttle", "TPS", "Throttle Position"}},
	{"brake", []string{"Brake", "brake", "Brake Pressure", "Brake Force"}},
	{"steering", []string{"Steering", "steering", "Steering Angle", "Steer"}},
	{"gear", []string{"Gear", "gear", "Current Gear", "Gear Position"}},
	{"latitude", []string{"Latitude", "latitude", "LAT", "GPS Latitude"}},
	{"longitude", []string{"Longitude", "longitude", "LON", "GPS Longitude"}},
	{"g_force_x", []string{"G-Force X", "G Force X", "Lateral G", "Ay"}},
	{"g_force_y", []string{"G-Force Y", "G Force Y", "Longitudinal G", "Ax"}},
	{"g_force_z", []string{"G-Force Z", "G Force Z", "Vertical G", "Az"}},
	{"lap_time", []string{"Lap Time", "Lap", "Current Lap Time"}},
	{"sector_time", []string{"Sector Time", "Sector", "Current Sector"}},
	{"distance", []string{"Distance", "distance", "Track Distance"}},
}

// fieldRef maps a canonical name onto the matching channel of a row. Returns
// nil for passthrough (non-canonical) names, which downstream numeric logic
// ignores.
func fieldRef(r *Row, name string) *Sample {
	switch name {
	case "time":
		return &r.Time
	case "speed":
		return &r.Speed
	case "rpm":
		return &r.RPM
	case "throttle":
		return &r.Throttle
	case "brake":
		return &r.Brake
	case "steering":
		return &r.Steering
	case "gear":
		return &r.Gear
	case "latitude":
		return &r.Latitude
	case "longitude":
		return &r.Longitude
	case "g_force_x":
		return &r.GForceX
	case "g_force_y":
		return &r.GForceY
	case "g_force_z":
		return &r.GForceZ
	case "lap_time":
		return &r.LapTime
	case "sector_time":
		return &r.SectorTime
	case "distance":
		return &r.Distance
	}
	return nil
}

// aliasesFor returns the accepted spellings for a canonical name, or nil when
// the name is not canonical.
func aliasesFor(name string) []string {
	for _, f := range canonicalFields {
		if f.name == name {
			return f.aliases
		}
	}
	return nil
}

// SupportedParameters lists the canonical channel names in declaration order.
func SupportedParameters() []string {
	names := make([]string, len(canonicalFields))
	for i, f := range canonicalFields {
		names[i] = f.name
	}
	return names
}
