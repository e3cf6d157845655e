package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pillpal/pillpal/internal/session"
)

const (
	cookieName = "sessionID"
	ctxKey     = "sessionManager"
)

// Middleware makes sure the request carries a session cookie, restores the
// matching session manager and stashes it in the echo context.
func Middleware(reg *session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				key = cookie.Value
			} else {
				key = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    key,
					Path:     "/",
					Expires:  time.Now().Add(30 * 24 * time.Hour),
					HttpOnly: true,
					Secure:   true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ctxKey, reg.Manager(c.Request().Context(), key))
			return next(c)
		}
	}
}

// FromContext returns the request's session manager, nil when the
// middleware did not run.
func FromContext(c echo.Context) *session.Manager {
	if m, ok := c.Get(ctxKey).(*session.Manager); ok {
		return m
	}
	return nil
}

// Inject places a manager directly into the context. Used by tests that
// build echo contexts without the middleware.
func Inject(c echo.Context, m *session.Manager) {
	c.Set(ctxKey, m)
}
