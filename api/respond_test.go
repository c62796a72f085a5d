package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/rs/zerolog"
)

// countingWriter records every WriteHeader call, unlike httptest.ResponseRecorder
// which keeps only the first.
type countingWriter struct {
	*httptest.ResponseRecorder
	statuses []int
}

func (w *countingWriter) WriteHeader(code int) {
	w.statuses = append(w.statuses, code)
	w.ResponseRecorder.WriteHeader(code)
}

func TestWriteCreatedUnmarshalableIsSingle500(t *testing.T) {
	r := NewResponder(zerolog.Nop())
	w := &countingWriter{ResponseRecorder: httptest.NewRecorder()}

	r.WriteCreated(w, map[string]any{"bad": make(chan int)})

	if len(w.statuses) != 1 || w.statuses[0] != http.StatusInternalServerError {
		t.Errorf("WriteHeader calls = %v, want [500]", w.statuses)
	}
}

func TestWriteStatuses(t *testing.T) {
	r := NewResponder(zerolog.Nop())
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
		want  int
	}{
		{"created", func(w http.ResponseWriter) { r.WriteCreated(w, map[string]string{"id": "1"}) }, http.StatusCreated},
		{"json", func(w http.ResponseWriter) { r.WriteJSON(w, []int{1}) }, http.StatusOK},
		{"api error", func(w http.ResponseWriter) { r.WriteError(w, errs.NewNotFoundError("task")) }, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &countingWriter{ResponseRecorder: httptest.NewRecorder()}
			tt.write(w)
			if len(w.statuses) != 1 || w.statuses[0] != tt.want {
				t.Errorf("WriteHeader calls = %v, want [%d]", w.statuses, tt.want)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("content type = %q", ct)
			}
			if w.Body.Len() == 0 {
				t.Error("empty body")
			}
		})
	}
}
