package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/previewer-dev/previewer/shared/logger"
)

// StatusOf returns the HTTP status an error should be answered with.
func StatusOf(err error) int {
	var withStatus *internal_errors.ErrorWithStatusCode
	if errors.As(err, &withStatus) {
		return withStatus.StatusCode
	}
	var serviceErr *internal_errors.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.HTTPStatus()
	}
	// default error is 500
	return http.StatusInternalServerError
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusOf(err))
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encoding json response", "error", err)
	}
}
