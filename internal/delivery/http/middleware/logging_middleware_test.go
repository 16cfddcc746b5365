package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRecoverWritesEnvelope(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := Recover(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not an envelope: %v (%s)", err, rec.Body.String())
	}
	if body.Success || body.Message != "Internal server error" || body.Error != "nil map write" {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestRecoverPassesThrough(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := Recover(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestAccessLogWritesToGivenWriter(t *testing.T) {
	var out bytes.Buffer
	h := AccessLog(&out, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/staff/count", nil))

	line := out.String()
	if !strings.Contains(line, `"GET /staff/count HTTP/1.1" 418`) {
		t.Errorf("unexpected access line %q", line)
	}
}
