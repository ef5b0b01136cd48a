package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/logger"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, httpStatus int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("write response", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessList includes the element count alongside the collection.
func SuccessList(w http.ResponseWriter, count int, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Count: &count, Data: data})
}

func ErrorResponse(w http.ResponseWriter, httpStatus int, message string) {
	writeJSON(w, httpStatus, APIResponse{Success: false, Message: message})
}

// WriteError maps domain errors onto HTTP statuses. Anything unclassified is
// a 500 whose detail stays in the log, not in the response body.
func WriteError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		serr *domain.InvalidStateError
		cerr *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		ErrorResponse(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &nerr):
		ErrorResponse(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &serr):
		ErrorResponse(w, http.StatusBadRequest, serr.Error())
	case errors.As(err, &cerr):
		ErrorResponse(w, http.StatusConflict, cerr.Error())
	default:
		logger.Log.Error("request failed", zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
