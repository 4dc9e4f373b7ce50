package middleware

import (
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// SetIdentity stores the verified caller on the request context.
func SetIdentity(c echo.Context, id models.Identity) {
	c.Set(identityKey, id)
}

// IdentityFromContext returns the verified caller, if any.
func IdentityFromContext(c echo.Context) (models.Identity, bool) {
	id, ok := c.Get(identityKey).(models.Identity)
	if !ok || id.UserID == "" {
		return models.Identity{}, false
	}
	return id, true
}
