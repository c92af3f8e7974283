package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"NewsCuration/internal/domain"
)

const kindMalformed = "MalformedRequest"

// failureResponse is the body of every failed action or lookup.
type failureResponse struct {
	Success   bool   `json:"success"`
	ErrorKind string `json:"errorKind"`
	Detail    string `json:"detail"`
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingCategory),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(c echo.Context, err error) error {
	return c.JSON(statusFor(err), failureResponse{
		ErrorKind: domain.KindOf(err),
		Detail:    domain.DetailOf(err),
	})
}

func writeMalformed(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, failureResponse{ErrorKind: kindMalformed, Detail: detail})
}
