package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/connectly/backend/internal/middleware"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// httpError maps a domain error onto the matching HTTP status. Internal
// details are never written to the response.
func httpError(err error) *echo.HTTPError {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	switch appErr.Code {
	case models.CodeNotFound:
		return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
	case models.CodeDuplicateConnection, models.CodeInvalidTransition:
		return echo.NewHTTPError(http.StatusConflict, appErr.Message)
	case models.CodeValidation:
		return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
	case models.CodeUnauthenticated:
		return echo.NewHTTPError(http.StatusUnauthorized, appErr.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

func currentIdentity(c echo.Context) (models.Identity, error) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		return models.Identity{}, httpError(models.ErrUnauthenticated)
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(v), nil
}
