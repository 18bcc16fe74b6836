package handlers

import (
	"errors"
	"net/http"

	"github.com/ecobite/backend/internal/lifecycle"
	"github.com/ecobite/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// actorClaims extracts the current actor set by the JWT middleware.
func actorClaims(c echo.Context) (*models.JwtCustomClaims, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication")
	}
	return claims, nil
}

// lifecycleHTTPError maps engine error taxonomy onto HTTP status codes.
// NotFound/Forbidden/InvalidOperation are business-rule violations surfaced
// as-is; anything else is a store failure already rolled back.
func lifecycleHTTPError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
