package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/gmgapp/gmg/internal/app/features/errors"
	"github.com/gmgapp/gmg/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRenderPages(t *testing.T) {
	testutil.BootTemplates(t)

	tests := []struct {
		name   string
		render func(w http.ResponseWriter, r *http.Request)
		status int
		text   string
	}{
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderForbidden(w, r, "Join first.", "/")
		}, http.StatusForbidden, "Join first."},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderNotFound(w, r, "No such meeting.", "/")
		}, http.StatusNotFound, "No such meeting."},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderBadRequest(w, r, "Invalid form data.", "/")
		}, http.StatusBadRequest, "Invalid form data."},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderServerError(w, r, "A database error occurred.", "/")
		}, http.StatusInternalServerError, "A database error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.render(rec, httptest.NewRequest("GET", "/x", nil))
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.text) {
				t.Errorf("body does not contain %q", tt.text)
			}
		})
	}
}

func TestErrorLogger_LogServerError(t *testing.T) {
	testutil.BootTemplates(t)
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("POST", "/meetings", nil), "insert meeting failed", stderrors.New("boom"), "Could not create the meeting.", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	entries := logs.FilterMessage("insert meeting failed").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["path"] != "/meetings" {
		t.Errorf("path field = %v", entries[0].ContextMap()["path"])
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.JSONError(rec, http.StatusUnprocessableEntity, "bad gesture")

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "bad gesture" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestErrorLogger_LogJSONServerError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogJSONServerError(rec, httptest.NewRequest("POST", "/meetings/x/availability/gesture", nil), "save failed", stderrors.New("boom"), "Could not save.")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
	if logs.Len() != 1 {
		t.Errorf("log entries = %d, want 1", logs.Len())
	}
}
