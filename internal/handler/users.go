package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/model"
	"github.com/naruebet/account-portal/internal/queue"
	"github.com/naruebet/account-portal/internal/repository"
	queue_publisher "github.com/naruebet/account-portal/internal/service"
)

// UsersHandler implements the admin roster endpoints. The page middleware
// already gates /admin, but these are API routes outside its matcher, so
// every handler re-checks the session and role itself.
type UsersHandler struct {
	Users    UserStore
	Hasher   auth.Hasher
	Sessions *auth.SessionManager
}

func NewUsersHandler(users UserStore, hasher auth.Hasher, sessions *auth.SessionManager) *UsersHandler {
	return &UsersHandler{Users: users, Hasher: hasher, Sessions: sessions}
}

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// admin returns the session when it belongs to an admin, else nil.
func (h *UsersHandler) admin(c echo.Context) *auth.Payload {
	sess := h.Sessions.Current(c)
	if sess == nil || sess.Role != model.RoleAdmin {
		return nil
	}
	return sess
}

func userIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// List returns all active users except the requesting admin, newest first.
func (h *UsersHandler) List(c echo.Context) error {
	sess := h.Sessions.Current(c)
	if sess == nil {
		return fail(c, http.StatusUnauthorized, "not logged in")
	}
	if sess.Role != model.RoleAdmin {
		return fail(c, http.StatusForbidden, "access denied")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, sess.UserID)
	if err != nil {
		c.Logger().Errorf("users: list failed: %v", err)
		return fail(c, http.StatusInternalServerError, "request failed")
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return ok(c, http.StatusOK, "", out)
}

// Create adds a user with an explicit role (defaults to "user").
func (h *UsersHandler) Create(c echo.Context) error {
	sess := h.admin(c)
	if sess == nil {
		return fail(c, http.StatusForbidden, "access denied")
	}

	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}
	if len(req.Password) < minPasswordLen {
		return fail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "unknown role")
	}

	digest, err := h.Hasher.Hash(req.Password)
	if err != nil {
		c.Logger().Errorf("users: hash failed: %v", err)
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.Insert(ctx, req.Name, req.Email, digest, role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already in use")
		}
		c.Logger().Errorf("users: insert failed: %v", err)
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	_ = queue_publisher.PublishAccountEvent(ctx, queue.AccountEvent{
		Action: queue.ActionCreated, UserID: id, Email: req.Email, Role: role, ActorID: sess.UserID,
	})
	return ok(c, http.StatusCreated, "user created", nil)
}

// Get returns a single active user.
func (h *UsersHandler) Get(c echo.Context) error {
	if h.admin(c) == nil {
		return fail(c, http.StatusForbidden, "access denied")
	}
	id, err := userIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("users: get failed: %v", err)
		return fail(c, http.StatusInternalServerError, "request failed")
	}
	return ok(c, http.StatusOK, "", u.Public())
}

// Update applies a partial update: blank fields in the body are left
// untouched. Changing the email re-checks uniqueness against every other
// active user; changing the password re-hashes it.
func (h *UsersHandler) Update(c echo.Context) error {
	sess := h.admin(c)
	if sess == nil {
		return fail(c, http.StatusForbidden, "access denied")
	}
	id, err := userIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("users: lookup failed: %v", err)
		return fail(c, http.StatusInternalServerError, "request failed")
	}

	var upd repository.UserUpdate
	if name := strings.TrimSpace(req.Name); name != "" {
		upd.Name = &name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		taken, err := h.Users.EmailTaken(ctx, email, id)
		if err != nil {
			c.Logger().Errorf("users: email check failed: %v", err)
			return fail(c, http.StatusInternalServerError, "request failed")
		}
		if taken {
			return fail(c, http.StatusConflict, "email already in use")
		}
		upd.Email = &email
	}
	if req.Password != "" {
		digest, err := h.Hasher.Hash(req.Password)
		if err != nil {
			c.Logger().Errorf("users: hash failed: %v", err)
			return fail(c, http.StatusInternalServerError, "request failed")
		}
		upd.PasswordDigest = &digest
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return fail(c, http.StatusBadRequest, "unknown role")
		}
		upd.Role = &req.Role
	}
	if upd.Empty() {
		return fail(c, http.StatusBadRequest, "nothing to update")
	}

	if err := h.Users.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return fail(c, http.StatusConflict, "email already in use")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "user not found")
		default:
			c.Logger().Errorf("users: update failed: %v", err)
			return fail(c, http.StatusInternalServerError, "update failed")
		}
	}

	_ = queue_publisher.PublishAccountEvent(ctx, queue.AccountEvent{
		Action: queue.ActionUpdated, UserID: id, ActorID: sess.UserID,
	})
	return ok(c, http.StatusOK, "user updated", nil)
}

// Delete soft-deletes a user. Admins cannot delete their own account.
func (h *UsersHandler) Delete(c echo.Context) error {
	sess := h.admin(c)
	if sess == nil {
		return fail(c, http.StatusForbidden, "access denied")
	}
	id, err := userIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	if id == sess.UserID {
		return fail(c, http.StatusBadRequest, "cannot delete your own account")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("users: delete failed: %v", err)
		return fail(c, http.StatusInternalServerError, "delete failed")
	}

	_ = queue_publisher.PublishAccountEvent(ctx, queue.AccountEvent{
		Action: queue.ActionDeleted, UserID: id, ActorID: sess.UserID,
	})
	return ok(c, http.StatusOK, "user deleted", nil)
}
