package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medmarket/internal/service"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new instance of FeedbackHandler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Add dispatches on the payload: medicine_id means medicine feedback,
// order_id means order feedback --> POST /feedback
func (h *FeedbackHandler) Add(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	body := struct {
		MedicineID     int     `json:"medicine_id"`
		Rating         int     `json:"rating"`
		Comment        *string `json:"comment"`
		OrderID        int     `json:"order_id"`
		OrderQuality   int     `json:"order_quality"`
		DeliveryRating int     `json:"delivery_rating"`
		Comments       *string `json:"comments"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	ctx := c.Request().Context()
	switch {
	case body.MedicineID > 0:
		f, err := h.feedbackService.AddMedicineFeedback(ctx, p, body.MedicineID, body.Rating, body.Comment)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"status":      "success",
			"message":     "Feedback submitted successfully",
			"feedback_id": f.ID,
		})
	case body.OrderID > 0:
		f, err := h.feedbackService.AddOrderFeedback(ctx, p, body.OrderID, body.OrderQuality, body.DeliveryRating, body.Comments)
		if err != nil {
			return writeError(c, maskNotOwner(err))
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"status":      "success",
			"message":     "Feedback submitted successfully",
			"feedback_id": f.ID,
		})
	}
	return writeError(c, service.ErrFeedbackTargetUnset)
}

// ListAll --> GET /feedback (admin)
func (h *FeedbackHandler) ListAll(c echo.Context) error {
	feedback, err := h.feedbackService.ListMedicineFeedback(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": feedback})
}

// My --> GET /feedback/my
func (h *FeedbackHandler) My(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	feedback, err := h.feedbackService.MyOrderFeedback(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": feedback})
}

// GetByID --> GET /feedback/:id. Non-owned reads as not found.
func (h *FeedbackHandler) GetByID(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	f, err := h.feedbackService.GetOrderFeedback(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, maskNotOwner(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": f})
}

// Update --> PUT /feedback/:id
func (h *FeedbackHandler) Update(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		OrderQuality   *int    `json:"order_quality"`
		DeliveryRating *int    `json:"delivery_rating"`
		Comments       *string `json:"comments"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if _, err := h.feedbackService.UpdateOrderFeedback(c.Request().Context(), p, id, body.OrderQuality, body.DeliveryRating, body.Comments); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Feedback updated successfully"})
}
