// Package handler implements the JSON API and page endpoints. Every JSON
// response uses the same envelope: a success flag, an optional message and
// optional data. Store or crypto failures are logged server-side and
// reported to the client as a generic message only.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/model"
	"github.com/naruebet/account-portal/internal/repository"
)

// UserStore is the slice of the repository the handlers need. Accepting an
// interface here lets tests substitute an in-memory fake for MySQL.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Insert(ctx context.Context, name, email, digest, role string) (int64, error)
	List(ctx context.Context, excludeID int64) ([]model.User, error)
	Update(ctx context.Context, id int64, upd repository.UserUpdate) error
	SoftDelete(ctx context.Context, id int64) error
}

type apiResp struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, apiResp{Success: false, Message: msg})
}

func ok(c echo.Context, status int, msg string, data interface{}) error {
	return c.JSON(status, apiResp{Success: true, Message: msg, Data: data})
}

// reqCtx bounds every store call to a single request-scoped timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
