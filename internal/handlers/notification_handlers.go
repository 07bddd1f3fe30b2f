package handlers

import (
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

type NotificationHandlers struct {
	notificationService services.NotificationService
}

func NewNotificationHandlers(notificationService services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

// ListAlerts returns the live low-stock alerts, optionally filtered by ?status.
func (h *NotificationHandlers) ListAlerts(c echo.Context) error {
	status := models.AlertStatus(c.QueryParam("status"))
	alerts, err := h.notificationService.ListAlerts(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, alerts)
}

func (h *NotificationHandlers) AcknowledgeAlert(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return err
	}

	alert, err := h.notificationService.AcknowledgeAlert(c.Request().Context(), actor, itemID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, alert)
}
