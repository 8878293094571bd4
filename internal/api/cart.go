package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medmarket/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Add --> POST /cart
func (h *CartHandler) Add(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	body := struct {
		MedicineID int `json:"medicine_id"`
		Quantity   int `json:"quantity"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	item, err := h.cartService.Add(c.Request().Context(), p, body.MedicineID, body.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Item added to cart",
		"cart_id": item.ID,
	})
}

// ListAll --> GET /cart (admin)
func (h *CartHandler) ListAll(c echo.Context) error {
	lines, err := h.cartService.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": lines})
}

// MyCart --> GET /cart/my-cart
func (h *CartHandler) MyCart(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	lines, err := h.cartService.MyCart(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": lines})
}

// UpdateQuantity --> PUT /cart/:id
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.cartService.UpdateQuantity(c.Request().Context(), p, id, body.Quantity); err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cart item updated successfully"})
}

// Remove --> DELETE /cart/:id
func (h *CartHandler) Remove(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	if err := h.cartService.Remove(c.Request().Context(), p, id); err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart"})
}
