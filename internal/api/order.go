package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medmarket/internal/service"
)

type OrderHandler struct {
	checkoutService *service.CheckoutService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(checkoutService *service.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

// Checkout converts the buyer's cart into an order --> POST /order
func (h *OrderHandler) Checkout(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	addr := service.AddressInput{}
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	idempotencyKey := c.Request().Header.Get("Idempotent-Key")

	order, err := h.checkoutService.Checkout(c.Request().Context(), p, addr, idempotencyKey)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":       "success",
		"message":      "Order created successfully",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_price":  order.TotalPrice,
	})
}

// ListAll --> GET /order (admin)
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.checkoutService.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": orders})
}

// MyOrders --> GET /order/my-orders
func (h *OrderHandler) MyOrders(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	orders, err := h.checkoutService.MyOrders(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": orders})
}

// GetByID --> GET /order/:id. A non-owned order reads as not found.
func (h *OrderHandler) GetByID(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.checkoutService.GetOrder(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": order})
}

// UpdateStatus --> PUT /order/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if _, err := h.checkoutService.UpdateStatus(c.Request().Context(), id, body.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}
