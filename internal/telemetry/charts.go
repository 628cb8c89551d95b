package telemetry

// ChartSeries is a named (x, y) pair shaped for a frontend plotting library.
// This is a data contract only; nothing here renders.
type ChartSeries struct {
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Type string    `json:"type"`
	Mode string    `json:"mode,omitempty"`
	Name string    `json:"name"`
}

// ChartData shapes the cleaned rows into the standard session plots:
// time-vs-speed, time-vs-rpm and the lateral/longitudinal G scatter. Rows
// missing either coordinate are skipped; a series with no points is omitted.
func ChartData(rows []Row) map[string]ChartSeries {
	charts := make(map[string]ChartSeries)

	if s := lineSeries(rows, "Speed", func(r Row) Sample { return r.Speed }); len(s.X) > 0 {
		charts["speed_trace"] = s
	}
	if s := lineSeries(rows, "RPM", func(r Row) Sample { return r.RPM }); len(s.X) > 0 {
		charts["rpm_trace"] = s
	}

	var gx, gy []float64
	for _, r := range rows {
		if r.GForceX.OK && r.GForceY.OK {
			gx = append(gx, r.GForceX.V)
			gy = append(gy, r.GForceY.V)
		}
	}
	if len(gx) > 0 {
		charts["g_force_scatter"] = ChartSeries{
			X:    gx,
			Y:    gy,
			Type: "scatter",
			Mode: "markers",
			Name: "G-Force",
		}
	}

	return charts
}

func lineSeries(rows []Row, name string, get func(Row) Sample) ChartSeries {
	series := ChartSeries{Type: "line", Name: name}
	for _, r := range rows {
		s := get(r)
		if r.Time.OK && s.OK {
			series.X = append(series.X, r.Time.V)
			series.Y = append(series.Y, s.V)
		}
	}
	return series
}
