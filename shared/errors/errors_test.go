package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := &ServiceError{Operation: "list run attachments", StatusCode: 500, Message: "boom"}
		assert.Equal(t, "list run attachments: results service returned status 500: boom", err.Error())

		err = &ServiceError{Operation: "get result", StatusCode: 404}
		assert.Equal(t, "get result: results service returned status 404", err.Error())
	})

	t.Run("status mapping", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, (&ServiceError{StatusCode: 404}).HTTPStatus())
		assert.Equal(t, http.StatusForbidden, (&ServiceError{StatusCode: 401}).HTTPStatus())
		assert.Equal(t, http.StatusForbidden, (&ServiceError{StatusCode: 403}).HTTPStatus())
		assert.Equal(t, http.StatusBadGateway, (&ServiceError{StatusCode: 503}).HTTPStatus())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", &ServiceError{StatusCode: 502})
		var se *ServiceError
		assert.True(t, errors.As(wrapped, &se))
		assert.Equal(t, 502, se.StatusCode)
	})
}
