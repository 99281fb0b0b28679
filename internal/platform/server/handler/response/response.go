package response

import (
	"FlatDB/internal/domain"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("write response")
	}
}

func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusFor(err), ErrorResponse{Error: err.Error(), Code: domain.ErrorCode(err)})
}

func BadRequest(w http.ResponseWriter, err error) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: domain.ErrorCode(err)})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrKeyNotFound), errors.Is(err, domain.ErrDatabaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOpen), errors.Is(err, domain.ErrAlreadyOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRecordNumber):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
