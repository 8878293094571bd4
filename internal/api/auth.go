package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"medmarket/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a user --> POST /auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	token, _, err := h.authService.Signup(c.Request().Context(), body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		return writeError(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, map[string]string{
		"status":  "success",
		"message": "Registration successful",
		"token":   token,
	})
}

// Login verifies credentials --> POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return writeError(c, err)
	}

	setSessionCookie(c, token)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	})
}

// Logout is a stateless no-op beyond clearing the cookie; no
// revocation store exists --> POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the current user, or null when the request carries no
// usable token --> GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusOK, map[string]interface{}{"user": nil})
	}

	user, err := h.authService.Me(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"user": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
