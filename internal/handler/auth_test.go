package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naruebet/account-portal/internal/auth"
	"github.com/naruebet/account-portal/internal/model"
)

const testSecret = "test-secret"

func newAuthHandler(store *fakeStore) *AuthHandler {
	return NewAuthHandler(store, auth.SHA256Hasher{}, auth.NewSessionManager(testSecret, time.Hour, false))
}

// jsonRequest builds an echo context carrying a JSON body and optional
// session cookie.
func jsonRequest(method, target, body string, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeResp(t *testing.T, rec *httptest.ResponseRecorder) apiResp {
	t.Helper()
	var r apiResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func sessionCookieFor(t *testing.T, u model.User) *http.Cookie {
	t.Helper()
	tok, err := auth.EncodeSession(testSecret, auth.Payload{UserID: u.ID, Email: u.Email, Role: u.Role}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

func storedUser(t *testing.T, store *fakeStore, email, password, role string) model.User {
	t.Helper()
	digest, err := auth.SHA256Hasher{}.Hash(password)
	require.NoError(t, err)
	return store.add(model.User{
		Name:           "Test",
		Email:          email,
		PasswordDigest: digest,
		Role:           role,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	})
}

func TestRegister_Validation(t *testing.T) {
	h := newAuthHandler(newFakeStore())

	for name, body := range map[string]string{
		"missing name":   `{"email":"a@b.com","password":"secret123"}`,
		"missing email":  `{"name":"A","password":"secret123"}`,
		"short password": `{"name":"A","email":"a@b.com","password":"12345"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := jsonRequest(http.MethodPost, "/api/auth/register", body, nil)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decodeResp(t, rec).Success)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)

	c, rec := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"Alice@Example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	u, err := store.FindByEmail(c.Request().Context(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordDigest)
	assert.True(t, auth.SHA256Hasher{}.Verify("secret123", u.PasswordDigest))
}

func TestRegister_Conflict(t *testing.T) {
	store := newFakeStore()
	storedUser(t, store, "taken@example.com", "secret123", model.RoleUser)
	h := newAuthHandler(store)

	c, rec := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"B","email":"taken@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_SoftDeletedEmailIsReusable(t *testing.T) {
	store := newFakeStore()
	u := storedUser(t, store, "gone@example.com", "secret123", model.RoleUser)
	now := time.Now()
	u.DeletedAt = &now
	store.users[u.ID] = u
	h := newAuthHandler(store)

	c, rec := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"New","email":"gone@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	store := newFakeStore()
	u := storedUser(t, store, "a@example.com", "secret123", model.RoleAdmin)
	h := newAuthHandler(store)

	c, rec := jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"secret123"}`, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Session cookie carries the issued identity.
	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "no session cookie issued")
	p, err := auth.DecodeSession(testSecret, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, model.RoleAdmin, p.Role)

	// Response exposes the public projection only.
	assert.NotContains(t, rec.Body.String(), u.PasswordDigest)
	resp := decodeResp(t, rec)
	assert.True(t, resp.Success)
}

func TestLogin_BadCredentials(t *testing.T) {
	store := newFakeStore()
	storedUser(t, store, "a@example.com", "secret123", model.RoleUser)
	h := newAuthHandler(store)

	for name, body := range map[string]string{
		"unknown email":  `{"email":"nobody@example.com","password":"secret123"}`,
		"wrong password": `{"email":"a@example.com","password":"wrong-pass"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := jsonRequest(http.MethodPost, "/api/auth/login", body, nil)
			require.NoError(t, h.Login(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			// Same message either way: the endpoint must not confirm which
			// emails exist.
			assert.Equal(t, "invalid email or password", decodeResp(t, rec).Message)
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	store := newFakeStore()
	u := storedUser(t, store, "a@example.com", "secret123", model.RoleUser)
	h := newAuthHandler(store)

	c, rec := jsonRequest(http.MethodPost, "/api/auth/logout", "", sessionCookieFor(t, u))
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.CookieName && ck.Value == "" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie not expired")
}

func TestMe(t *testing.T) {
	store := newFakeStore()
	u := storedUser(t, store, "a@example.com", "secret123", model.RoleUser)
	h := newAuthHandler(store)

	t.Run("no session", func(t *testing.T) {
		c, rec := jsonRequest(http.MethodGet, "/api/auth/me", "", nil)
		require.NoError(t, h.Me(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		c, rec := jsonRequest(http.MethodGet, "/api/auth/me", "", sessionCookieFor(t, u))
		require.NoError(t, h.Me(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"a@example.com"`)
		assert.NotContains(t, rec.Body.String(), u.PasswordDigest)
	})

	t.Run("soft-deleted since issuance", func(t *testing.T) {
		cookie := sessionCookieFor(t, u)
		require.NoError(t, store.SoftDelete(context.Background(), u.ID))
		c, rec := jsonRequest(http.MethodGet, "/api/auth/me", "", cookie)
		require.NoError(t, h.Me(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
