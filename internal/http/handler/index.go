package handler

import (
	"net/http"
	"os"

	"go.uber.org/zap"
)

// IndexHandler serves the HTML page at TEMPLATE_PATH. The file is read on
// every request so edits show up without a restart.
type IndexHandler struct {
	path   string
	logger *zap.Logger
}

func NewIndexHandler(path string, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{path: path, logger: logger}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w)
		return
	}

	content, err := os.ReadFile(h.path)
	if err != nil {
		h.logger.Error("failed to load template", zap.String("path", h.path), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		h.logger.Debug("failed to write page", zap.Error(err))
	}
}
