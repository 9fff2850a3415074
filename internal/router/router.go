package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/config"
	"github.com/naruebet/account-portal/internal/handler"
	"github.com/naruebet/account-portal/internal/middleware"
)

// RegisterPages installs the access-control middleware and the page routes
// it protects. The middleware redirects based on path class and session
// state; the page handlers themselves are thin placeholders for the
// frontend.
func RegisterPages(e *echo.Echo, sm *auth.SessionManager, rules config.RouteRules) {
	e.Use(middleware.PageAccess(sm, rules))

	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Page("home"))
	e.GET("/login", handler.Page("login"))
	e.GET("/register", handler.Page("register"))
	e.GET("/profile", handler.Page("profile"))
	e.GET("/admin", handler.Page("admin"))
	e.GET("/admin/users", handler.Page("admin users"))
}

// RegisterAPI registers the JSON endpoints. These live under /api, which is
// on the page middleware's skip list, so each handler enforces its own
// session and role checks. The rate limiter throttles the two credential
// endpoints only.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, u *handler.UsersHandler,
	rl config.RateLimitConfig, rdb *redis.Client) {

	limited := middleware.RateLimit(rl, rdb)

	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limited)
	g.POST("/login", a.Login, limited)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me)

	users := e.Group("/api/users")
	users.GET("", u.List)
	users.POST("", u.Create)
	users.GET("/:id", u.Get)
	users.PUT("/:id", u.Update)
	users.DELETE("/:id", u.Delete)
}
