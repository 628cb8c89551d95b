package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/apex-data/telemetry.report/internal/httputil"
	"github.com/apex-data/telemetry.report/internal/telemetry"
)

// handleCharts renders a quick HTML dashboard of the session traces using
// go-echarts. This is a debugging-oriented view of the same chart payloads
// the analyze endpoint ships as JSON; the frontend owns real rendering.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.proc.Analyze(content, filename)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to analyze telemetry file: %v", err))
		return
	}
	if len(result.ChartsData) == 0 {
		httputil.NotFound(w, "no plottable channels in upload")
		return
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Session Charts - %s", filename)

	if series, ok := result.ChartsData["speed_trace"]; ok {
		page.AddCharts(traceLine("Speed Trace", "Speed (km/h)", series))
	}
	if series, ok := result.ChartsData["rpm_trace"]; ok {
		page.AddCharts(traceLine("RPM Trace", "RPM", series))
	}
	if series, ok := result.ChartsData["g_force_scatter"]; ok {
		page.AddCharts(gForceScatter(series))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render charts: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func traceLine(title, yName string, series telemetry.ChartSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	x := make([]string, len(series.X))
	data := make([]opts.LineData, len(series.Y))
	for i := range series.X {
		x[i] = fmt.Sprintf("%.2f", series.X[i])
		data[i] = opts.LineData{Value: series.Y[i]}
	}
	line.SetXAxis(x)
	line.AddSeries(series.Name, data)
	return line
}

func gForceScatter(series telemetry.ChartSeries) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "G-G Diagram", Subtitle: fmt.Sprintf("points=%d", len(series.X))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lateral G", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Longitudinal G", NameLocation: "middle", NameGap: 30}),
	)

	data := make([]opts.ScatterData, len(series.X))
	for i := range series.X {
		data[i] = opts.ScatterData{Value: []interface{}{series.X[i], series.Y[i]}}
	}
	scatter.AddSeries(series.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	return scatter
}
