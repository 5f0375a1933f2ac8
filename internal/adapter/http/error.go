package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"qloan-backend/internal/domain/order"
	"qloan-backend/internal/domain/rating"
	"qloan-backend/internal/domain/schedule"
	"qloan-backend/internal/domain/session"
)

// writeErr maps domain sentinels onto the HTTP surface. Anything unmapped is
// a 500; retryable conflicts carry a Retry-After hint.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, order.ErrInvalidOrder), errors.Is(err, schedule.ErrInvalidTerms):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrNotFound), errors.Is(err, schedule.ErrNotFound), errors.Is(err, rating.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, rating.ErrDuplicateSettlement):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrInsufficientLiquidity):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrSessionInvalid):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrConcurrentModification):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
