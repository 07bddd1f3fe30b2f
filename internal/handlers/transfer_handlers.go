package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// TransferHandlers drives stock transfers between locations
type TransferHandlers struct {
	transferService services.TransferService
}

func NewTransferHandlers(transferService services.TransferService) *TransferHandlers {
	return &TransferHandlers{transferService: transferService}
}

func (h *TransferHandlers) CreateTransfer(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.CreateTransferRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	transfer, err := h.transferService.Create(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, transfer)
}

// UpdateTransferStatusRequest is the body of PUT /transfers/:id
type UpdateTransferStatusRequest struct {
	Status models.TransferStatus `json:"status"`
}

// UpdateTransferStatus approves, completes or cancels a transfer. Stock moves
// are applied in the same transaction as the status change.
func (h *TransferHandlers) UpdateTransferStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTransferStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return fmt.Errorf("%w: status is required", common.ErrValidation)
	}

	transfer, err := h.transferService.Transition(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, transfer)
}

// GetTransfer returns the transfer and its audit trail
func (h *TransferHandlers) GetTransfer(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	transfer, err := h.transferService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, transfer)
}

// ListTransfers supports ?status=&itemId=&limit=&offset=
func (h *TransferHandlers) ListTransfers(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	itemID, err := queryUUID(c, "itemId")
	if err != nil {
		return err
	}

	filter := &models.TransferFilter{ItemID: itemID, Limit: limit, Offset: offset}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.TransferStatus(raw)
		filter.Status = &status
	}

	transfers, err := h.transferService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, transfers)
}
