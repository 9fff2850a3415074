package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/model"
	"github.com/naruebet/account-portal/internal/repository"
)

// minPasswordLen applies to registration and admin user creation.
const minPasswordLen = 6

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users    UserStore
	Hasher   auth.Hasher
	Sessions *auth.SessionManager
}

func NewAuthHandler(users UserStore, hasher auth.Hasher, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{Users: users, Hasher: hasher, Sessions: sessions}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register: self-service signup, always with the "user" role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
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

	digest, err := h.Hasher.Hash(req.Password)
	if err != nil {
		c.Logger().Errorf("register: hash failed: %v", err)
		return fail(c, http.StatusInternalServerError, "registration failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.Insert(ctx, req.Name, req.Email, digest, model.RoleUser); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already in use")
		}
		c.Logger().Errorf("register: insert failed: %v", err)
		return fail(c, http.StatusInternalServerError, "registration failed")
	}
	return ok(c, http.StatusCreated, "registration successful", nil)
}

// Login: verify credentials and issue the session cookie. Unknown email and
// wrong password produce the same response so the endpoint does not confirm
// which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid email or password")
		}
		c.Logger().Errorf("login: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	if !h.Hasher.Verify(req.Password, u.PasswordDigest) {
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}

	if err := h.Sessions.Issue(c, auth.Payload{UserID: u.ID, Email: u.Email, Role: u.Role}); err != nil {
		c.Logger().Errorf("login: issue session failed: %v", err)
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	return ok(c, http.StatusOK, "login successful", u.Public())
}

// Logout clears the session cookie on this client. Tokens already issued to
// other clients stay valid until expiry; there is no revocation list.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Revoke(c)
	return ok(c, http.StatusOK, "logged out", nil)
}

// Me returns the live user record for the current session. The record is
// re-read so a user soft-deleted after issuance sees 404, not stale data.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := h.Sessions.Current(c)
	if sess == nil {
		return fail(c, http.StatusUnauthorized, "not logged in")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		c.Logger().Errorf("me: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, "request failed")
	}
	return ok(c, http.StatusOK, "", u.Public())
}
