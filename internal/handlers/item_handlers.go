package handlers

import (
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// ItemHandlers handles catalog HTTP requests
type ItemHandlers struct {
	itemService services.ItemService
}

func NewItemHandlers(itemService services.ItemService) *ItemHandlers {
	return &ItemHandlers{itemService: itemService}
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.CreateItemRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	item, err := h.itemService.Create(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, item)
}

func (h *ItemHandlers) GetItem(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.itemService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, item)
}

// ListItems supports ?category=&active=&limit=&offset=
func (h *ItemHandlers) ListItems(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return err
	}

	filter := &models.ItemFilter{Active: active, Limit: limit, Offset: offset}
	if raw := c.QueryParam("category"); raw != "" {
		category := models.ItemCategory(raw)
		filter.Category = &category
	}

	items, err := h.itemService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, items)
}

// UpdateItem applies price and threshold edits
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req services.UpdateItemRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	item, err := h.itemService.Update(c.Request().Context(), actor, id, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, item)
}

// DeactivateItem soft-deletes an item. Stock history is kept.
func (h *ItemHandlers) DeactivateItem(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.itemService.Deactivate(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
