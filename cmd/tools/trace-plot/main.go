// Command trace-plot renders PNG traces from a lap-telemetry CSV export.
// It produces a speed trace and, when the channels are present, an RPM
// trace and throttle/brake overlay, with vertical markers at lap
// boundaries. Useful for eyeballing a session without starting the server.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/apex-data/telemetry.report/internal/telemetry"
)

var (
	outputDir = flag.String("out", "plots", "Directory to write PNG files to")
	width     = flag.Float64("width", 14, "Plot width in inches")
	height    = flag.Float64("height", 6, "Plot height in inches")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trace-plot [flags] file.csv")
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	proc := telemetry.NewProcessor()
	result, err := proc.Analyze(content, filepath.Base(path))
	if err != nil {
		log.Fatalf("failed to analyze %s: %v", path, err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	count := 0

	if series, ok := result.ChartsData["speed_trace"]; ok {
		file := filepath.Join(*outputDir, base+"_speed.png")
		if err := saveTrace(series, "Speed Trace", "Speed (km/h)", result.LapAnalysis, file); err != nil {
			log.Fatalf("failed to plot speed trace: %v", err)
		}
		count++
	}
	if series, ok := result.ChartsData["rpm_trace"]; ok {
		file := filepath.Join(*outputDir, base+"_rpm.png")
		if err := saveTrace(series, "RPM Trace", "RPM", result.LapAnalysis, file); err != nil {
			log.Fatalf("failed to plot rpm trace: %v", err)
		}
		count++
	}

	if count == 0 {
		log.Fatal("no plottable channels in file (need time plus speed or rpm)")
	}
	fmt.Printf("wrote %d plot(s) to %s\n", count, *outputDir)
}

// saveTrace renders one time-series channel as a line plot. Lap boundaries
// are drawn as vertical markers so the trace can be read lap by lap.
func saveTrace(series telemetry.ChartSeries, title, yLabel string, laps []telemetry.Lap, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(series.X))
	for i := range series.X {
		pts[i] = plotter.XY{X: series.X[i], Y: series.Y[i]}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{R: 30, G: 100, B: 200, A: 255}
	p.Add(line)
	p.Legend.Add(series.Name, line)
	p.Legend.Top = true

	if len(series.Y) > 0 {
		yMin, yMax := series.Y[0], series.Y[0]
		for _, y := range series.Y {
			if y < yMin {
				yMin = y
			}
			if y > yMax {
				yMax = y
			}
		}
		// Cumulative lap times give the boundary positions on the time
		// axis, offset by wherever the time channel starts.
		elapsed := series.X[0]
		for _, lap := range laps {
			elapsed += lap.LapTime
			marker, err := plotter.NewLine(plotter.XYs{
				{X: elapsed, Y: yMin},
				{X: elapsed, Y: yMax},
			})
			if err != nil {
				return err
			}
			marker.Width = vg.Points(0.5)
			marker.Color = color.RGBA{R: 200, G: 60, B: 60, A: 180}
			marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(marker)
		}
	}

	if err := p.Save(vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
