package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pillpal/pillpal/internal/hash"
	"github.com/pillpal/pillpal/internal/middleware/sessions"
	"github.com/pillpal/pillpal/internal/models"
	"github.com/pillpal/pillpal/internal/mykafka"
	"github.com/pillpal/pillpal/internal/service/token"
	"github.com/pillpal/pillpal/internal/session"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
	Validate      *validator.Validate
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required,min=10"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type profileUpdateRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2"`
	Phone   *string `json:"phone"   validate:"omitempty,min=10"`
	Address *string `json:"address"`
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// sessionUser maps an account row to the snapshot the session manager holds.
// The opaque password slot carries the hash, never the plaintext.
func sessionUser(u *models.User) session.User {
	return session.User{
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Password: u.PasswordHash,
		Address:  u.Address,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	var existing models.User
	err := h.DB.Where("lower(email) = lower(?)", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "This email address is already registered.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// a fresh signup goes straight into a logged-in session
	if mgr := sessions.FromContext(c); mgr != nil {
		mgr.Login(c.Request().Context(), sessionUser(&user))
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":    fmt.Sprintf("Welcome, %s! Your account has been created.", user.Name),
		"user":       user,
		"redirectTo": "/",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("lower(email) = lower(?)", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password.")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password.")
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}
	if err := token.SaveRefreshToken(h.DB, refreshToken, user.ID, user.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	if mgr := sessions.FromContext(c); mgr != nil {
		mgr.Login(c.Request().Context(), sessionUser(&user))
	}

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":    fmt.Sprintf("Login successful! Welcome back, %s.", user.Name),
		"user":       user,
		"is_admin":   user.Role == "admin",
		"redirectTo": "/",
	})
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	if refreshCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.DB.Model(&models.RefreshToken{}).
			Where("token = ?", refreshCookie.Value).
			Update("revoked", true).Error; err != nil {
			c.Logger().Errorf("refresh token revoke error: %v", err)
		}
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(CreateCookie("refreshToken", "", "/", expired))

	// logout always resets the session, cart included
	if mgr := sessions.FromContext(c); mgr != nil {
		mgr.Logout(c.Request().Context())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "logged out",
		"redirectTo": "/login",
	})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found. Please try logging in again.")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// reflect the confirmed change in the session view; cart stays as-is
	if mgr := sessions.FromContext(c); mgr != nil {
		mgr.UpdateCurrentUser(c.Request().Context(), sessionUser(&user))
	}

	h.publish(c, map[string]any{
		"type":   "user_profile_updated",
		"userID": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}

// SeedAccounts creates the fixed admin identity and the well-known test
// account when they are missing.
func SeedAccounts(db *gorm.DB, adminEmail, adminPassword string) error {
	seed := func(u models.User, password string) error {
		var existing models.User
		err := db.Where("lower(email) = lower(?)", u.Email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		passwordHash, err := hash.HashPassword(password)
		if err != nil {
			return err
		}
		u.PasswordHash = passwordHash
		return db.Create(&u).Error
	}

	if adminPassword != "" {
		admin := models.User{
			Name:  "PillPal Admin",
			Email: adminEmail,
			Phone: "0000000000",
			Role:  "admin",
		}
		if err := seed(admin, adminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	test := models.User{
		Name:    "Test User",
		Email:   "test@example.com",
		Phone:   "1234567890",
		Address: "123 Test St",
		Role:    "user",
	}
	if err := seed(test, "password123"); err != nil {
		return fmt.Errorf("seed test user: %w", err)
	}
	return nil
}
