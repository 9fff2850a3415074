package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/middleware"
)

// Page serves a named placeholder for routes the access-control middleware
// gates. The real UI is rendered by a separate frontend; these exist so the
// page routes are registered and protected. Gated pages greet the session
// the middleware decoded.
func Page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess := middleware.Session(c); sess != nil {
			return c.String(http.StatusOK, name+" ("+sess.Email+")")
		}
		return c.String(http.StatusOK, name)
	}
}
