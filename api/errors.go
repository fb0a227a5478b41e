package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Vishalsongara77/Task-App/domain"
)

var errInvalidBody = errors.New("invalid body")

// errorStatus maps the domain error taxonomy onto HTTP without changing its meaning.
func errorStatus(err error) (int, errorResponse) {
	var vErr *domain.ValidationError
	var nfErr *domain.NotFoundError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, errorResponse{Error: vErr.Error(), Type: errTypeValidation, Field: vErr.Field}
	case errors.As(err, &nfErr):
		return http.StatusNotFound, errorResponse{Error: nfErr.Error(), Type: errTypeNotFound, ID: nfErr.ID}
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Type: errTypeValidation}
	default:
		return http.StatusInternalServerError, errorResponse{Error: err.Error(), Type: errTypeInternal}
	}
}

func writeError(c echo.Context, err error) error {
	status, body := errorStatus(err)
	return c.JSON(status, body)
}
