package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/apex-data/telemetry.report/internal/monitoring"
)

// DecodeError reports that no candidate encoding produced a parseable table.
type DecodeError struct {
	Encodings []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode CSV content with any supported encoding (%s)",
		strings.Join(e.Encodings, ", "))
}

// decodeCandidates is the fixed ordered list of text encodings tried against
// the raw upload. UTF-8 is attempted first; the two legacy 8-bit code pages
// cover older logger exports. First success wins; there is no content
// sniffing beyond attempt-and-catch.
var decodeCandidates = []struct {
	name   string
	decode func([]byte) (string, error)
}{
	{"utf-8", decodeUTF8},
	{"latin-1", charmapDecoder(charmap.ISO8859_1)},
	{"cp1252", charmapDecoder(charmap.Windows1252)},
}

func decodeUTF8(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.New("invalid utf-8 byte sequence")
	}
	return string(content), nil
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(content []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(content)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// Decode turns raw bytes into a RawTable. The first row of the decoded text
// is taken as the header naming columns; vendor preambles are not detected or
// skipped. Fails with *DecodeError only when every candidate encoding fails
// to produce a parseable table.
func Decode(content []byte) (*RawTable, error) {
	names := make([]string, len(decodeCandidates))
	for i, c := range decodeCandidates {
		names[i] = c.name
	}

	for _, candidate := range decodeCandidates {
		text, err := candidate.decode(content)
		if err != nil {
			continue
		}
		table, err := parseCSV(text)
		if err != nil {
			monitoring.Logf("failed to parse CSV as %s: %v", candidate.name, err)
			continue
		}
		monitoring.Logf("decoded CSV with %s encoding", candidate.name)
		return table, nil
	}

	return nil, &DecodeError{Encodings: names}
}

func parseCSV(text string) (*RawTable, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no columns to parse")
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		// pad or truncate data rows to header width
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	return &RawTable{Columns: header, Rows: rows}, nil
}
