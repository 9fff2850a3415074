package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie written by Issue and read by Current.
const CookieName = "session"

// SessionManager implements the stateless session lifecycle: a signed token
// in a single HTTP cookie, no server-side session table. Validity is fully
// determined by signature plus expiry, which means logout only clears the
// presenting client's cookie — a still-unexpired token held elsewhere
// remains valid until it naturally expires. That limitation is accepted, not
// a bug; there is no revocation list.
type SessionManager struct {
	Secret string
	TTL    time.Duration
	Secure bool // Secure cookie attribute; enable on HTTPS deployments
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{Secret: secret, TTL: ttl, Secure: secure}
}

// Issue signs a token for p and writes it as the session cookie on the
// outbound response. Repeated calls overwrite the cookie.
func (m *SessionManager) Issue(c echo.Context, p Payload) error {
	token, err := EncodeSession(m.Secret, p, m.TTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current reads the session cookie from the inbound request and decodes it.
// It returns nil when the cookie is absent or the token fails validation;
// callers cannot tell the two apart.
func (m *SessionManager) Current(c echo.Context) *Payload {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	p, err := DecodeSession(m.Secret, cookie.Value)
	if err != nil {
		return nil
	}
	return &p
}

// Revoke expires the session cookie on the outbound response. Revoking when
// no cookie was presented is a no-op from the client's point of view.
func (m *SessionManager) Revoke(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
