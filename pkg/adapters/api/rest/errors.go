package rest

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials es la respuesta 401 de sign_in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailAlreadyRegistered es la respuesta 409 de sign_on.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrValidation se devuelve antes de enviar una petición con datos incompletos.
	ErrValidation = errors.New("validation failed")
)

// APIError es una respuesta no 2xx del backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s %s status=%d, body=%s", e.Method, e.Path, e.StatusCode, e.Body)
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func IsNotFound(err error) bool     { return statusIs(err, http.StatusNotFound) }
func IsConflict(err error) bool     { return statusIs(err, http.StatusConflict) }
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
