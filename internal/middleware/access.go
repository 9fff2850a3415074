package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/config"
)

// sessionKey is the context key under which PageAccess stores the decoded
// session payload for downstream handlers.
const sessionKey = "session"

// Session returns the payload PageAccess stored in the context, or nil when
// the request carried no valid session.
func Session(c echo.Context) *auth.Payload {
	if p, ok := c.Get(sessionKey).(*auth.Payload); ok {
		return p
	}
	return nil
}

// PageAccess gates every page request by classifying its path against the
// configured prefix lists and deciding forward-or-redirect from the session
// state. It is the sole perimeter for pages; API routes sit on the Skip list
// and re-check the session in their handlers.
//
// The decision per path class:
//
//	public            always forwarded
//	auth-only         forwarded unless a valid session exists, which
//	                  redirects to the role landing page
//	protected         no cookie -> /login; invalid cookie -> cookie cleared,
//	                  /login; valid -> forwarded
//	admin-protected   as protected, plus role=user -> /profile
//
// An invalid cookie on an auth-only or public path is forwarded untouched —
// only protected paths clear it.
func PageAccess(sm *auth.SessionManager, rules config.RouteRules) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if hasPrefix(path, rules.Skip) {
				return next(c)
			}

			cookie, err := c.Cookie(auth.CookieName)
			hasCookie := err == nil && cookie.Value != ""
			sess := sm.Current(c) // nil when absent or invalid

			if hasPrefix(path, rules.AuthOnly) && sess != nil {
				return c.Redirect(http.StatusFound, landingFor(sess.Role))
			}

			if hasPrefix(path, rules.Protected) {
				if !hasCookie {
					return c.Redirect(http.StatusFound, "/login")
				}
				if sess == nil {
					// Invalid or expired token: clear it so the client does
					// not keep presenting a dead cookie.
					sm.Revoke(c)
					return c.Redirect(http.StatusFound, "/login")
				}
				if hasPrefix(path, rules.Admin) && sess.Role != "admin" {
					return c.Redirect(http.StatusFound, "/profile")
				}
			}

			if sess != nil {
				c.Set(sessionKey, sess)
			}
			return next(c)
		}
	}
}

// landingFor picks the post-login landing page for a role.
func landingFor(role string) string {
	if role == "admin" {
		return "/admin"
	}
	return "/profile"
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
