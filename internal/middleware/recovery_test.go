package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/middleware"
)

func TestRecovery_NoPanic(t *testing.T) {
	logger, logs := newObservedLogger()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := middleware.Recovery(logger)(inner)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no logs, got %d", logs.Len())
	}
}

func TestRecovery_WithPanic(t *testing.T) {
	logger, logs := newObservedLogger()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	h := middleware.Recovery(logger)(inner)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	errObj, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in response")
	}
	if errObj["code"] != "INTERNAL_ERROR" {
		t.Errorf("expected code=INTERNAL_ERROR, got %v", errObj["code"])
	}
	if errObj["message"] != "internal server error" {
		t.Errorf("expected message='internal server error', got %v", errObj["message"])
	}

	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}

func TestRecovery_PanicAfterHeaderWritten(t *testing.T) {
	logger, logs := newObservedLogger()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"partial"}`))
		panic("panic after write")
	})

	h := middleware.Recovery(logger)(inner)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 (already written), got %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}
