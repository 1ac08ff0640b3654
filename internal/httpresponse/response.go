package httpresponse

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appErrors "chesslab/internal/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

// WriteError answers with {"error": ...} and the status that matches err.
func WriteError(log *zap.SugaredLogger, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorw("request failed", "status", status, "error", err)
	} else {
		log.Debugf("writeJSONError: %v", err)
	}
	WriteJSON(log, w, status, ErrorResponse{Error: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
