// Command telemetry-report processes lap-telemetry CSV exports from the
// command line: per-lap tables, session metrics, validation reports and
// cross-session comparison, plus optional XLSX export.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/apex-data/telemetry.report/internal/report"
	"github.com/apex-data/telemetry.report/internal/telemetry"
	"github.com/apex-data/telemetry.report/internal/units"
)

var (
	speedUnits = flag.String("units", units.KPH, "Display units for speeds (kph, mph, mps)")
	compare    = flag.Bool("compare", false, "Compare the given files as sessions")
	validate   = flag.Bool("validate", false, "Validate files instead of processing them")
	xlsxOut    = flag.String("xlsx", "", "Write an XLSX session workbook to this path (single file only)")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: telemetry-report [flags] file.csv [file.csv ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("invalid units %q (valid: %s)", *speedUnits, units.GetValidUnitsString())
	}

	switch {
	case *validate:
		for _, path := range flag.Args() {
			runValidate(path)
		}
	case *compare:
		runCompare(flag.Args())
	default:
		for _, path := range flag.Args() {
			runProcess(path)
		}
	}
}

func runProcess(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	proc := telemetry.NewProcessor()
	result, err := proc.Process(content, filepath.Base(path))
	if err != nil {
		log.Fatalf("failed to process %s: %v", path, err)
	}

	fmt.Printf("%s: %d data points, %s session\n",
		filepath.Base(path), result.DataPoints, result.Metadata.SessionType)

	if len(result.LapAnalysis) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Lap", "Time (s)", speedHeader("Max"), speedHeader("Avg"), "Max G", ""})
		for _, lap := range result.LapAnalysis {
			marker := ""
			if lap.IsFastest {
				marker = "fastest"
			}
			t.AppendRow(table.Row{
				lap.LapNumber,
				fmt.Sprintf("%.3f", lap.LapTime),
				fmt.Sprintf("%.1f", units.ConvertSpeed(lap.MaxSpeed, *speedUnits)),
				fmt.Sprintf("%.1f", units.ConvertSpeed(lap.AvgSpeed, *speedUnits)),
				fmt.Sprintf("%.2f", lap.MaxGForce),
				marker,
			})
		}
		t.Render()
	} else {
		fmt.Println("no completed laps found")
	}

	m := result.PerformanceMetrics
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Fastest Lap (s)", fmt.Sprintf("%.3f", m.FastestLap)},
		{"Average Lap (s)", fmt.Sprintf("%.3f", m.AverageLap)},
		{speedHeader("Max Speed"), fmt.Sprintf("%.1f", units.ConvertSpeed(m.MaxSpeed, *speedUnits))},
		{speedHeader("Avg Speed"), fmt.Sprintf("%.1f", units.ConvertSpeed(m.AvgSpeed, *speedUnits))},
		{"Max RPM", m.MaxRPM},
		{"Max G-Force", fmt.Sprintf("%.2f", m.MaxGForce)},
		{"Braking Points", m.BrakingPoints},
		{"Acceleration Zones", m.AccelerationZones},
	})
	t.Render()

	if *xlsxOut != "" {
		buf, err := report.SessionWorkbook(result)
		if err != nil {
			log.Fatalf("failed to build workbook: %v", err)
		}
		if err := os.WriteFile(*xlsxOut, buf.Bytes(), 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", *xlsxOut, err)
		}
		fmt.Printf("wrote %s\n", *xlsxOut)
	}
}

func runValidate(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	rep := telemetry.ValidateBytes(content)
	fmt.Printf("%s: %s (%d rows, %d columns)\n",
		filepath.Base(path), rep.EstimatedQuality, rep.RowCount, rep.ColumnCount)
	for _, issue := range rep.Issues {
		if issue.Column != "" {
			fmt.Printf("  [%s] %s (column %s)\n", issue.Severity, issue.Message, issue.Column)
			continue
		}
		fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
	}
}

func runCompare(paths []string) {
	if len(paths) < 2 {
		log.Fatal("comparison needs at least 2 files")
	}

	proc := telemetry.NewProcessor()
	sessions := make([]telemetry.Session, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}
		session, err := proc.ProcessSession(content, filepath.Base(path))
		if err != nil {
			log.Fatalf("failed to process %s: %v", path, err)
		}
		sessions = append(sessions, session)
	}

	comparison := telemetry.CompareSessions(sessions)

	for _, metric := range comparison.ComparisonMetrics {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{metric.Parameter, "Value"})
		for _, name := range comparison.SessionNames {
			if v, ok := metric.SessionValues[name]; ok {
				t.AppendRow(table.Row{name, fmt.Sprintf("%.3f", v)})
			}
		}
		t.AppendFooter(table.Row{"Improvement potential", fmt.Sprintf("%.1f%%", metric.ImprovementPotential)})
		t.Render()
	}

	fmt.Printf("fastest overall: %s\n", comparison.FastestOverall)
	for _, rec := range comparison.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func speedHeader(prefix string) string {
	return fmt.Sprintf("%s (%s)", prefix, *speedUnits)
}
