package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxPrincipal extracts the identity injected by the Auth middleware.
// An empty username means the middleware did not run for this route.
func ctxPrincipal(c echo.Context) (username string, roles []string, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roles, _ = c.Get("roles").([]string)
	if roles == nil {
		roles = []string{}
	}
	return username, roles, nil
}
