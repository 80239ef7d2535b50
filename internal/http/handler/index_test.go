package handler_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/http/handler"
)

func TestIndexHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<h1>할 일</h1>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	h := handler.NewIndexHandler(path, zap.NewNop())

	w := serve(h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %s", ct)
	}
	if w.Body.String() != "<h1>할 일</h1>" {
		t.Errorf("unexpected body %q", w.Body.String())
	}

	if err := os.WriteFile(path, []byte("<h1>updated</h1>"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if w := serve(h, http.MethodGet, "/", ""); w.Body.String() != "<h1>updated</h1>" {
		t.Errorf("expected page re-read per request, got %q", w.Body.String())
	}
}

func TestIndexHandler_Errors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	missing := filepath.Join(t.TempDir(), "nope.html")
	h := handler.NewIndexHandler(missing, zap.New(core))

	w := serve(h, http.MethodGet, "/", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), missing) {
		t.Errorf("response leaks template path: %s", w.Body.String())
	}
	if logs.FilterMessage("failed to load template").Len() != 1 {
		t.Error("expected template failure to be logged")
	}

	if w := serve(h, http.MethodGet, "/unknown", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", w.Code)
	}
	if w := serve(h, http.MethodPost, "/", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
