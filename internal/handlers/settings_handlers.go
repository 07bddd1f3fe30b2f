package handlers

import (
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsService services.SettingsService
}

func NewSettingsHandlers(settingsService services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsService: settingsService}
}

func (h *SettingsHandlers) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, settings)
}

// UpdateSettings replaces the booking policy. The body must carry every field.
func (h *SettingsHandlers) UpdateSettings(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req models.Settings
	if err := bindBody(c, &req); err != nil {
		return err
	}

	settings, err := h.settingsService.Update(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, settings)
}
