package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/middleware"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/repository"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/service"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("id must be an integer")

// decodeBody reads exactly one JSON object into v. Syntax errors and
// trailing data become INVALID_JSON; type mismatches are reported as
// validation failures.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(v)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body must contain a single JSON object")
			return false
		}
		return true
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	case errors.Is(err, io.EOF):
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body is empty")
	default:
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
	}
	return false
}

func parseID(w http.ResponseWriter, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errInvalidID.Error())
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// handleServiceError maps service and storage failures to responses. The
// underlying cause is logged, never returned to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, resource string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", resource+" not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusBadRequest, "CONFLICT", resource+" with this id already exists")
	case errors.Is(err, repository.ErrStorageRead):
		logger.Error("storage read failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(r)))
		WriteError(w, http.StatusInternalServerError, "STORAGE_READ_FAILURE", "failed to read "+resource+" storage")
	case errors.Is(err, repository.ErrStorageWrite):
		logger.Error("storage write failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(r)))
		WriteError(w, http.StatusInternalServerError, "STORAGE_WRITE_FAILURE", "failed to save "+resource+" storage")
	default:
		logger.Error("request failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(r)))
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// validationMessage strips the operation prefix the service adds while
// wrapping, keeping only the field details.
func validationMessage(err error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, service.ErrInvalidInput.Error()+": "); ok {
		return detail
	}
	return msg
}
