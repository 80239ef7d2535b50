package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/service"
)

type RepeatingHandler struct {
	svc    *service.RepeatingService
	logger *zap.Logger
}

func NewRepeatingHandler(svc *service.RepeatingService, logger *zap.Logger) *RepeatingHandler {
	return &RepeatingHandler{svc: svc, logger: logger}
}

// ServeHTTP routes /repeating and /repeating/{id}
func (h *RepeatingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/repeating"), "/")

	if raw == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if strings.Contains(raw, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}

	id, ok := parseID(w, raw)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGetByID(w, r, id)
	case http.MethodPut:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (h *RepeatingHandler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, "repeating todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

func (h *RepeatingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input service.RepeatingInput
	if !decodeBody(w, r, &input, false) {
		return
	}

	item, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.logger, "repeating todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

func (h *RepeatingHandler) handleGetByID(w http.ResponseWriter, r *http.Request, id int) {
	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, "repeating todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

func (h *RepeatingHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int) {
	var input service.RepeatingInput
	if !decodeBody(w, r, &input, false) {
		return
	}

	item, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, r, h.logger, "repeating todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

func (h *RepeatingHandler) handleDelete(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, "repeating todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "repeating todo deleted"})
}
