package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the route handlers for registration.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Medicine *MedicineHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Feedback *FeedbackHandler
}

// Register wires every route onto e.
func Register(e *echo.Echo, h Handlers, m *Middleware) {
	e.POST("/auth/signup", h.Auth.Signup, m.TryAuth())
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/logout", h.Auth.Logout)
	e.GET("/auth/me", h.Auth.Me, m.TryAuth())

	e.GET("/user", h.User.List, m.RequireAdmin())
	e.POST("/user", h.User.Create, m.RequireAdmin())
	e.POST("/user/address", h.User.AddAddress, m.RequireAuth())
	e.GET("/user/address/all", h.User.ListAddresses, m.RequireAuth())
	e.GET("/user/address/:id", h.User.GetAddress, m.RequireAuth())
	e.DELETE("/user/address/:id", h.User.DeleteAddress, m.RequireAuth())

	e.GET("/medicine", h.Medicine.List)
	e.POST("/medicine", h.Medicine.Create, m.RequireAuth())
	e.GET("/medicine/:id", h.Medicine.GetByID, m.RequireAuth())
	e.PUT("/medicine/:id", h.Medicine.Update, m.RequireAuth())
	e.DELETE("/medicine/:id", h.Medicine.Delete, m.RequireAuth())

	e.POST("/cart", h.Cart.Add, m.RequireAuth())
	e.GET("/cart", h.Cart.ListAll, m.RequireAdmin())
	e.GET("/cart/my-cart", h.Cart.MyCart, m.RequireAuth())
	e.PUT("/cart/:id", h.Cart.UpdateQuantity, m.RequireAuth())
	e.DELETE("/cart/:id", h.Cart.Remove, m.RequireAuth())

	e.POST("/order", h.Order.Checkout, m.RequireAuth())
	e.GET("/order", h.Order.ListAll, m.RequireAdmin())
	e.GET("/order/my-orders", h.Order.MyOrders, m.RequireAuth())
	e.GET("/order/:id", h.Order.GetByID, m.RequireAuth())
	e.PUT("/order/:id/status", h.Order.UpdateStatus, m.RequireAdmin())

	e.POST("/feedback", h.Feedback.Add, m.RequireAuth())
	e.GET("/feedback", h.Feedback.ListAll, m.RequireAdmin())
	e.GET("/feedback/my", h.Feedback.My, m.RequireAuth())
	e.GET("/feedback/:id", h.Feedback.GetByID, m.RequireAuth())
	e.PUT("/feedback/:id", h.Feedback.Update, m.RequireAuth())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "medmarket",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
}
