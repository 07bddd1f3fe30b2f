package handlers

import (
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers exposes the stock ledger
type InventoryHandlers struct {
	stockService services.StockService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(stockService services.StockService) *InventoryHandlers {
	return &InventoryHandlers{stockService: stockService}
}

// ListStock handles ?itemId=&locationId=
func (h *InventoryHandlers) ListStock(c echo.Context) error {
	itemID, err := queryUUID(c, "itemId")
	if err != nil {
		return err
	}
	locationID, err := queryUUID(c, "locationId")
	if err != nil {
		return err
	}

	levels, err := h.stockService.List(c.Request().Context(), &models.StockFilter{ItemID: itemID, LocationID: locationID})
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, levels)
}

// GetStock returns the quantity of one item at one location. Missing rows read as zero.
func (h *InventoryHandlers) GetStock(c echo.Context) error {
	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return err
	}
	locationID, err := pathUUID(c, "locationId")
	if err != nil {
		return err
	}

	qty, err := h.stockService.GetStock(c.Request().Context(), itemID, locationID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"itemId":     itemID,
		"locationId": locationID,
		"quantity":   qty,
	})
}

// AdjustStock records receiving, write-offs and corrections
func (h *InventoryHandlers) AdjustStock(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.AdjustStockRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	level, err := h.stockService.Adjust(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, level)
}
