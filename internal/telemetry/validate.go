package telemetry

import (
	"fmt"
	"strings"
)

// Issue severities, in decreasing order of impact.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Quality labels reported by the validator.
const (
	QualityInvalid   = "Invalid - Cannot process"
	QualityPoor      = "Poor - Contains critical errors"
	QualityFair      = "Fair - Multiple warnings present"
	QualityGood      = "Good - Minor issues detected"
	QualityExcellent = "Excellent - No issues found"
)

// ValidationIssue describes one structural or quality problem found in a
// source file.
type ValidationIssue struct {
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Column     string `json:"column,omitempty"`
	Row        *int   `json:"row,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationReport aggregates the issues found in a file plus an estimated
// quality label.
type ValidationReport struct {
	IsValid          bool              `json:"is_valid"`
	RowCount         int               `json:"row_count"`
	ColumnCount      int               `json:"column_count"`
	ColumnsFound     []string          `json:"columns_found"`
	RequiredColumns  []string          `json:"required_columns"`
	MissingColumns   []string          `json:"missing_columns"`
	Issues           []ValidationIssue `json:"issues"`
	Recommendations  []string          `json:"recommendations"`
	EstimatedQuality string            `json:"estimated_quality"`
}

// requiredColumns lists the source-level parameters a file must carry. Time
// is the only strictly required column; everything else is optional.
var requiredColumns = []string{"Time"}

// Validate inspects a decoded but not normalized table, so the report speaks
// in terms of the headers a human sees in the source file. Checks run in
// order: non-empty table, presence of a time-like column, per-column missing
// cell fraction, duplicate timestamps.
func Validate(t *RawTable) ValidationReport {
	report := ValidationReport{
		RowCount:        len(t.Rows),
		ColumnCount:     len(t.Columns),
		ColumnsFound:    append([]string{}, t.Columns...),
		RequiredColumns: requiredColumns,
		MissingColumns:  []string{},
		Issues:          []ValidationIssue{},
		Recommendations: []string{},
	}

	if t.Empty() {
		report.Issues = append(report.Issues, ValidationIssue{
			Severity:   SeverityError,
			Message:    "File is empty or contains no data",
			Suggestion: "Ensure the CSV file contains telemetry data",
		})
	}

	timeCol := findColumnByAliases(t.Columns, aliasesFor("time"))
	if timeCol == "" {
		report.MissingColumns = append(report.MissingColumns, "Time")
		report.Issues = append(report.Issues, ValidationIssue{
			Severity:   SeverityError,
			Message:    "No time column found",
			Suggestion: "Ensure the CSV contains a time/timestamp column",
		})
	}

	if !t.Empty() {
		for i, col := range t.Columns {
			missing := 0
			for _, row := range t.Rows {
				if strings.TrimSpace(row[i]) == "" {
					missing++
				}
			}
			pct := float64(missing) / float64(len(t.Rows)) * 100
			if pct > 50 {
				report.Issues = append(report.Issues, ValidationIssue{
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("Column '%s' has %.1f%% missing values", col, pct),
					Column:     col,
					Suggestion: "Consider data cleaning or interpolation",
				})
			}
		}

		if timeCol != "" && hasDuplicates(t, timeCol) {
			report.Issues = append(report.Issues, ValidationIssue{
				Severity:   SeverityWarning,
				Message:    "Duplicate timestamps found",
				Column:     timeCol,
				Suggestion: "Remove or average duplicate entries",
			})
		}
	}

	errorCount, warningCount := 0, 0
	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		}
	}

	switch {
	case errorCount > 0:
		report.EstimatedQuality = QualityPoor
	case warningCount > 3:
		report.EstimatedQuality = QualityFair
	case warningCount > 0:
		report.EstimatedQuality = QualityGood
	default:
		report.EstimatedQuality = QualityExcellent
	}

	if len(report.Issues) == 0 {
		report.Recommendations = append(report.Recommendations,
			"File structure looks good and ready for processing")
	} else {
		report.Recommendations = append(report.Recommendations,
			"Address the identified issues before processing")
		if len(report.MissingColumns) > 0 {
			report.Recommendations = append(report.Recommendations,
				"Ensure all required telemetry parameters are present")
		}
	}

	report.IsValid = errorCount == 0
	return report
}

// ValidateBytes decodes and validates raw content. A total decode failure is
// reported as a synthetic invalid report rather than an error, since
// validation is the entry point here.
func ValidateBytes(content []byte) ValidationReport {
	table, err := Decode(content)
	if err != nil {
		return ValidationReport{
			IsValid:         false,
			ColumnsFound:    []string{},
			RequiredColumns: requiredColumns,
			MissingColumns:  append([]string{}, requiredColumns...),
			Issues: []ValidationIssue{{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("Failed to read CSV file: %v", err),
				Suggestion: "Check file format and encoding",
			}},
			Recommendations:  []string{"Fix file format issues before reprocessing"},
			EstimatedQuality: QualityInvalid,
		}
	}
	return Validate(table)
}

// findColumnByAliases returns the first column whose header appears verbatim
// in the alias list, or "" when none does.
func findColumnByAliases(columns, aliases []string) string {
	for _, col := range columns {
		if containsExact(aliases, col) {
			return col
		}
	}
	return ""
}

func hasDuplicates(t *RawTable, column string) bool {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return false
	}
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		if seen[row[idx]] {
			return true
		}
		seen[row[idx]] = true
	}
	return false
}
