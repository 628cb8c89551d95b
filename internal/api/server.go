// Package api is the HTTP boundary around the telemetry engine: upload
// handling, size/type limits, unit conversion and structured JSON responses.
// The engine stays pure; everything transport-shaped lives here.
package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apex-data/telemetry.report/internal/httputil"
	"github.com/apex-data/telemetry.report/internal/report"
	"github.com/apex-data/telemetry.report/internal/telemetry"
	"github.com/apex-data/telemetry.report/internal/timeutil"
	"github.com/apex-data/telemetry.report/internal/units"
	"github.com/apex-data/telemetry.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Comparison bounds: fewer than two sessions is not a comparison, more than
// ten makes the rankings unreadable.
const (
	minCompareSessions = 2
	maxCompareSessions = 10
)

// DefaultMaxUploadBytes caps telemetry uploads at 50MB unless configured
// otherwise.
const DefaultMaxUploadBytes = 50 << 20

// Server serves the telemetry API.
type Server struct {
	proc      *telemetry.Processor
	units     string
	maxUpload int64
	clock     timeutil.Clock
}

// Option configures a Server.
type Option func(*Server)

// WithUnits sets the display unit speeds are converted to.
func WithUnits(u string) Option {
	return func(s *Server) { s.units = u }
}

// WithMaxUpload sets the upload size limit in bytes.
func WithMaxUpload(limit int64) Option {
	return func(s *Server) { s.maxUpload = limit }
}

// WithClock sets the clock used for metadata dates and export filenames.
func WithClock(c timeutil.Clock) Option {
	return func(s *Server) {
		s.clock = c
		s.proc = telemetry.NewProcessorWithClock(c)
	}
}

// NewServer creates an API server with the given options.
func NewServer(opts ...Option) *Server {
	s := &Server{
		proc:      telemetry.NewProcessor(),
		units:     units.KPH,
		maxUpload: DefaultMaxUploadBytes,
		clock:     timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux mounts the telemetry API handlers.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/telemetry/process", s.handleProcess)
	mux.HandleFunc("/telemetry/analyze", s.handleAnalyze)
	mux.HandleFunc("/telemetry/compare", s.handleCompare)
	mux.HandleFunc("/telemetry/validate", s.handleValidate)
	mux.HandleFunc("/telemetry/capabilities", s.handleCapabilities)
	mux.HandleFunc("/telemetry/charts", s.handleCharts)
	mux.HandleFunc("/telemetry/export", s.handleExport)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

type processResponse struct {
	Success   bool   `json:"success"`
	Filename  string `json:"filename"`
	RequestID string `json:"request_id"`
	*telemetry.ProcessResult
}

type analyzeResponse struct {
	Success   bool   `json:"success"`
	Filename  string `json:"filename"`
	RequestID string `json:"request_id"`
	*telemetry.AnalysisResult
}

type compareResponse struct {
	Success          bool   `json:"success"`
	SessionsCompared int    `json:"sessions_compared"`
	RequestID        string `json:"request_id"`
	*telemetry.ComparisonReport
}

type validateResponse struct {
	Filename  string `json:"filename"`
	RequestID string `json:"request_id"`
	telemetry.ValidationReport
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.proc.Process(content, filename)
	if err != nil {
		log.Printf("failed to process %q: %v", filename, err)
		httputil.InternalServerError(w, fmt.Sprintf("failed to process telemetry file: %v", err))
		return
	}
	s.convertProcessResult(result, s.displayUnits(r))

	httputil.WriteJSONOK(w, processResponse{
		Success:       true,
		Filename:      filename,
		RequestID:     uuid.New().String(),
		ProcessResult: result,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.proc.Analyze(content, filename)
	if err != nil {
		log.Printf("failed to analyze %q: %v", filename, err)
		httputil.InternalServerError(w, fmt.Sprintf("failed to analyze telemetry file: %v", err))
		return
	}
	s.convertProcessResult(&result.ProcessResult, s.displayUnits(r))

	httputil.WriteJSONOK(w, analyzeResponse{
		Success:        true,
		Filename:       filename,
		RequestID:      uuid.New().String(),
		AnalysisResult: result,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload*maxCompareSessions)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		httputil.PayloadTooLarge(w, "upload exceeds size limit")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) < minCompareSessions {
		httputil.BadRequest(w, "at least 2 files are required for comparison")
		return
	}
	if len(headers) > maxCompareSessions {
		httputil.BadRequest(w, "maximum 10 files allowed for comparison")
		return
	}

	sessions := make([]telemetry.Session, 0, len(headers))
	for _, h := range headers {
		if !isCSV(h.Filename) {
			httputil.BadRequest(w, fmt.Sprintf("file %s is not a CSV file", h.Filename))
			return
		}
		content, err := readFileHeader(h)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to read %s: %v", h.Filename, err))
			return
		}
		session, err := s.proc.ProcessSession(content, h.Filename)
		if err != nil {
			log.Printf("failed to process comparison session %q: %v", h.Filename, err)
			httputil.InternalServerError(w, fmt.Sprintf("failed to process %s: %v", h.Filename, err))
			return
		}
		sessions = append(sessions, session)
	}

	comparison := telemetry.CompareSessions(sessions)
	httputil.WriteJSONOK(w, compareResponse{
		Success:          true,
		SessionsCompared: len(sessions),
		RequestID:        uuid.New().String(),
		ComparisonReport: comparison,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	httputil.WriteJSONOK(w, validateResponse{
		Filename:         filename,
		RequestID:        uuid.New().String(),
		ValidationReport: telemetry.ValidateBytes(content),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.proc.Process(content, filename)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to process telemetry file: %v", err))
		return
	}
	s.convertProcessResult(result, s.displayUnits(r))

	buf, err := report.SessionWorkbook(result)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to build workbook: %v", err))
		return
	}

	download := report.WorkbookFilename(filename, s.clock.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("failed to write workbook response: %v", err)
	}
}

type capabilitiesResponse struct {
	SupportedParameters []string     `json:"supported_parameters"`
	AnalysisTypes       []string     `json:"analysis_types"`
	ComparisonMetrics   []string     `json:"comparison_metrics"`
	SupportedFormats    []string     `json:"supported_formats"`
	MaxFileSize         string       `json:"max_file_size"`
	MaxFilesComparison  int          `json:"max_files_comparison"`
	Units               string       `json:"units"`
	Build               version.Info `json:"build"`
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, capabilitiesResponse{
		SupportedParameters: telemetry.SupportedParameters(),
		AnalysisTypes: []string{
			"lap_time_analysis", "speed_analysis", "g_force_analysis",
			"throttle_brake_analysis", "rpm_analysis",
		},
		ComparisonMetrics:  []string{"fastest_lap", "max_speed"},
		SupportedFormats:   []string{"CSV"},
		MaxFileSize:        fmt.Sprintf("%dMB", s.maxUpload>>20),
		MaxFilesComparison: maxCompareSessions,
		Units:              s.units,
		Build:              version.Get(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"status":  "ok",
		"service": "telemetry-report",
		"build":   version.Get(),
	})
}

// readUpload pulls the single "file" part out of a multipart POST, enforcing
// method, size and extension limits. On failure it has already written the
// error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return nil, "", false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.PayloadTooLarge(w, fmt.Sprintf("file size exceeds %dMB limit", s.maxUpload>>20))
			return nil, "", false
		}
		httputil.BadRequest(w, "missing file upload")
		return nil, "", false
	}
	defer file.Close()

	if !isCSV(header.Filename) {
		httputil.UnsupportedMediaType(w, "only CSV files are supported")
		return nil, "", false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.InternalServerError(w, "failed to read upload")
		return nil, "", false
	}
	return content, header.Filename, true
}

func readFileHeader(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isCSV(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// displayUnits resolves the target unit for a request: explicit query
// parameter first, server default otherwise.
func (s *Server) displayUnits(r *http.Request) string {
	if u := r.URL.Query().Get("units"); u != "" && units.IsValid(u) {
		return u
	}
	return s.units
}

// convertProcessResult applies display-unit conversion to every speed field.
// Data is km/h at rest; conversion happens only at the boundary.
func (s *Server) convertProcessResult(result *telemetry.ProcessResult, target string) {
	if target == units.KPH {
		return
	}
	result.PerformanceMetrics.MaxSpeed = units.ConvertSpeed(result.PerformanceMetrics.MaxSpeed, target)
	result.PerformanceMetrics.AvgSpeed = units.ConvertSpeed(result.PerformanceMetrics.AvgSpeed, target)
	for i := range result.LapAnalysis {
		result.LapAnalysis[i].MaxSpeed = units.ConvertSpeed(result.LapAnalysis[i].MaxSpeed, target)
		result.LapAnalysis[i].AvgSpeed = units.ConvertSpeed(result.LapAnalysis[i].AvgSpeed, target)
	}
}
