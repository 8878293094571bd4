package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"medmarket/internal/entity"
	"medmarket/internal/service"
)

type MedicineHandler struct {
	medicineService *service.MedicineService
}

// NewMedicineHandler creates a new instance of MedicineHandler.
func NewMedicineHandler(medicineService *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

// List is the public catalog --> GET /medicine
func (h *MedicineHandler) List(c echo.Context) error {
	medicines, err := h.medicineService.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": medicines})
}

// Create adds a medicine --> POST /medicine
func (h *MedicineHandler) Create(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	body := struct {
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Stock       int             `json:"stock"`
		ExpiryDate  *string         `json:"expiry_date"`
		Description *string         `json:"description"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	m, err := h.medicineService.Create(c.Request().Context(), p, &entity.Medicine{
		Name:        body.Name,
		Price:       body.Price,
		Stock:       body.Stock,
		ExpiryDate:  body.ExpiryDate,
		Description: body.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":      "success",
		"message":     "Medicine added",
		"medicine_id": m.ID,
	})
}

// GetByID --> GET /medicine/:id
func (h *MedicineHandler) GetByID(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	m, err := h.medicineService.GetByID(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": m})
}

// Update --> PUT /medicine/:id
func (h *MedicineHandler) Update(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	update := entity.MedicineUpdate{}
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.medicineService.Update(c.Request().Context(), p, id, update); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medicine updated successfully"})
}

// Delete --> DELETE /medicine/:id
func (h *MedicineHandler) Delete(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	if err := h.medicineService.Delete(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Medicine deleted successfully"})
}
