package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/model"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/service"
)

type TodoHandler struct {
	svc    *service.TodoService
	logger *zap.Logger
}

func NewTodoHandler(svc *service.TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, logger: logger}
}

// ServeHTTP routes /todos, /todos/search, /todos/completed, /todos/{id} and
// /todos/{id}/complete.
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/todos")
	path = strings.Trim(path, "/")

	parts := strings.SplitN(path, "/", 2)
	head := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	switch {
	case head == "":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			methodNotAllowed(w)
		}

	case head == "search" && subPath == "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.handleSearch(w, r)

	case head == "completed" && subPath == "":
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		h.handleDeleteCompleted(w, r)

	case subPath == "complete":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		if id, ok := parseID(w, head); ok {
			h.handleToggleComplete(w, r, id)
		}

	case subPath == "":
		id, ok := parseID(w, head)
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodPatch:
			h.handlePatch(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			methodNotAllowed(w)
		}

	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	}
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input service.TodoInput
	if !decodeBody(w, r, &input, false) {
		return
	}

	todo, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleGetByID(w http.ResponseWriter, r *http.Request, id int) {
	todo, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int) {
	var input service.TodoInput
	if !decodeBody(w, r, &input, false) {
		return
	}

	todo, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handlePatch(w http.ResponseWriter, r *http.Request, id int) {
	var patch model.TodoPatch
	if !decodeBody(w, r, &patch, true) {
		return
	}

	todo, err := h.svc.Patch(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleToggleComplete(w http.ResponseWriter, r *http.Request, id int) {
	todo, err := h.svc.ToggleComplete(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, id int) {
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "todo deleted"})
}

func (h *TodoHandler) handleDeleteCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteCompleted(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, "todo", err)
		return
	}

	WriteJSON(w, http.StatusOK, DeleteCompletedResponse{
		Message: fmt.Sprintf("deleted %d completed todos", n),
		Deleted: n,
	})
}
