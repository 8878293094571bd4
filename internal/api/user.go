package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medmarket/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List --> GET /user (admin)
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Users retrieved successfully",
		"data":    users,
	})
}

// Create --> POST /user (admin)
func (h *UserHandler) Create(c echo.Context) error {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.CreateUser(c.Request().Context(), body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

// AddAddress --> POST /user/address
func (h *UserHandler) AddAddress(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	body := struct {
		Street    string `json:"street"`
		Building  string `json:"building"`
		Floor     string `json:"floor"`
		Apartment string `json:"apartment"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	addr, err := h.userService.AddAddress(c.Request().Context(), p, body.Street, body.Building, body.Floor, body.Apartment)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":     "success",
		"message":    "Address added successfully",
		"address_id": addr.ID,
	})
}

// ListAddresses --> GET /user/address/all
func (h *UserHandler) ListAddresses(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	addrs, err := h.userService.ListAddresses(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": addrs})
}

// GetAddress --> GET /user/address/:id. Non-owned reads as not found.
func (h *UserHandler) GetAddress(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	addr, err := h.userService.GetAddress(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": addr})
}

// DeleteAddress --> DELETE /user/address/:id
func (h *UserHandler) DeleteAddress(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	if err := h.userService.DeleteAddress(c.Request().Context(), p, id); err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}
