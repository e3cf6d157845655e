package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/pillpal/pillpal/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"phone":    "1234567890",
		"password": "password123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User       models.User `json:"user"`
		RedirectTo string      `json:"redirectTo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "New User", resp.User.Name)
	require.Equal(t, "user", resp.User.Role)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "/", resp.RedirectTo)
	require.NotContains(t, rec.Body.String(), "password123")

	// the session is logged in right after signup
	snap := env.Mgr.Snapshot()
	require.True(t, snap.LoggedIn)
	require.Equal(t, "new@example.com", snap.User.Email)

	// a duplicate email is rejected
	_, cDup := env.doJSONRequest(http.MethodPost, "/api/v1/register", payload)
	err := env.Auth.Register(cDup)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "A",
		"email":    "not-an-email",
		"phone":    "12",
		"password": "short",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", payload)
	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("test@example.com", "password123", "user")

	payload := map[string]string{"email": "test@example.com", "password": "password123"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", payload)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, false, resp["is_admin"])

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")

	snap := env.Mgr.Snapshot()
	require.True(t, snap.LoggedIn)
	require.False(t, snap.IsAdmin)
	require.Equal(t, "test@example.com", snap.User.Email)

	badPayload := map[string]string{"email": "test@example.com", "password": "wrong"}
	_, cBad := env.doJSONRequest(http.MethodPost, "/api/v1/login", badPayload)
	err := env.Auth.Login(cBad)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLoginAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(testAdminEmail, "hunter22", "admin")

	payload := map[string]string{"email": testAdminEmail, "password": "hunter22"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", payload)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["is_admin"])
	require.True(t, env.Mgr.IsAdmin())
}

func TestLogOut(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("test@example.com", "password123", "user")

	payload := map[string]string{"email": "test@example.com", "password": "password123"}
	recLogin, cLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", payload)
	require.NoError(t, env.Auth.Login(cLogin))

	var refreshValue string
	for _, ck := range recLogin.Result().Cookies() {
		if ck.Name == "refreshToken" {
			refreshValue = ck.Value
		}
	}
	require.NotEmpty(t, refreshValue)

	env.Mgr.AddToCart(cLogin.Request().Context(), "1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil,
		&http.Cookie{Name: "refreshToken", Value: refreshValue})
	require.NoError(t, env.Auth.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("user_id = ?", user.ID).First(&stored).Error)
	require.True(t, stored.Revoked)

	snap := env.Mgr.Snapshot()
	require.False(t, snap.LoggedIn)
	require.Nil(t, snap.User)
	require.Empty(t, snap.Cart)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("test@example.com", "password123", "user")

	loginPayload := map[string]string{"email": "test@example.com", "password": "password123"}
	_, cLogin := env.doJSONRequest(http.MethodPost, "/api/v1/login", loginPayload)
	require.NoError(t, env.Auth.Login(cLogin))
	env.Mgr.AddToCart(cLogin.Request().Context(), "1")

	payload := map[string]string{"address": "42 New Street"}
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/profile", payload)
	c.Set("userID", user.ID)
	require.NoError(t, env.Auth.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, env.DB.First(&stored, user.ID).Error)
	require.Equal(t, "42 New Street", stored.Address)
	require.Equal(t, "Test User", stored.Name)

	// the session view follows, the cart does not move
	snap := env.Mgr.Snapshot()
	require.Equal(t, "42 New Street", snap.User.Address)
	require.Len(t, snap.Cart, 1)
}

func TestUpdateProfileRequiresUser(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"address": "42 New Street"}
	_, c := env.doJSONRequest(http.MethodPatch, "/api/v1/profile", payload)
	err := env.Auth.UpdateProfile(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestSeedAccounts(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, SeedAccounts(env.DB, testAdminEmail, "hunter22"))

	var admin models.User
	require.NoError(t, env.DB.Where("email = ?", testAdminEmail).First(&admin).Error)
	require.Equal(t, "admin", admin.Role)

	var test models.User
	require.NoError(t, env.DB.Where("email = ?", "test@example.com").First(&test).Error)
	require.Equal(t, "user", test.Role)

	// idempotent
	require.NoError(t, SeedAccounts(env.DB, testAdminEmail, "hunter22"))
	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}
