package httputil

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/apex-data/telemetry.report/internal/testutil"
)

func TestWriteJSONOK(t *testing.T) {
	rec := testutil.NewTestRecorder()
	WriteJSONOK(rec, map[string]string{"hello": "world"})

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body map[string]string
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantError  string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "nope") }, http.StatusBadRequest, "nope"},
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "missing") }, http.StatusNotFound, "missing"},
		{"internal error", func(w http.ResponseWriter) { InternalServerError(w, "boom") }, http.StatusInternalServerError, "boom"},
		{"payload too large", func(w http.ResponseWriter) { PayloadTooLarge(w, "too big") }, http.StatusRequestEntityTooLarge, "too big"},
		{"unsupported media type", func(w http.ResponseWriter) { UnsupportedMediaType(w, "csv only") }, http.StatusUnsupportedMediaType, "csv only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewTestRecorder()
			tt.write(rec)

			testutil.AssertStatusCode(t, rec.Code, tt.wantStatus)
			var body map[string]string
			testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}
