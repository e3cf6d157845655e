package token

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func authCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (t *TokenService) refresh(c echo.Context) (string, error) {
	newAccess, newRefresh, role, err := t.CheckCookie(c)
	if err != nil {
		return "", err
	}

	if newRefresh != "" {
		c.SetCookie(authCookie("accessToken", newAccess, time.Now().Add(AccessTTL)))
		c.SetCookie(authCookie("refreshToken", newRefresh, time.Now().Add(RefreshTTL)))

		token, _ := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) { return t.JWTSecret, nil })
		if token != nil {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				setUserContext(c, claims)
			}
		}
	}
	return role, nil
}

// AutoRefreshMiddleware requires a logged-in session, silently rotating an
// expired access token through the refresh cookie.
func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := t.refresh(c); err != nil {
			return err
		}
		return next(c)
	}
}

// AutoRefreshMiddlewareAdmin additionally requires the admin role claim.
func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := t.refresh(c)
		if err != nil {
			return err
		}
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}
