package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// LocationHandlers serves store rooms, branches and meeting rooms
type LocationHandlers struct {
	locationService services.LocationService
	bookingService  services.BookingService
}

func NewLocationHandlers(locationService services.LocationService, bookingService services.BookingService) *LocationHandlers {
	return &LocationHandlers{
		locationService: locationService,
		bookingService:  bookingService,
	}
}

func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	var req services.CreateLocationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	location, err := h.locationService.CreateLocation(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, location)
}

// ListLocations supports ?kind=store_room|branch
func (h *LocationHandlers) ListLocations(c echo.Context) error {
	var kind *models.LocationKind
	if raw := c.QueryParam("kind"); raw != "" {
		k := models.LocationKind(raw)
		if k != models.LocationStoreRoom && k != models.LocationBranch {
			return fmt.Errorf("%w: kind must be store_room or branch", common.ErrValidation)
		}
		kind = &k
	}

	locations, err := h.locationService.ListLocations(c.Request().Context(), kind)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, locations)
}

func (h *LocationHandlers) CreateRoom(c echo.Context) error {
	var req services.CreateRoomRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	room, err := h.locationService.CreateRoom(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, room)
}

// ListRooms supports ?locationId=
func (h *LocationHandlers) ListRooms(c echo.Context) error {
	locationID, err := queryUUID(c, "locationId")
	if err != nil {
		return err
	}

	rooms, err := h.locationService.ListRooms(c.Request().Context(), locationID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, rooms)
}

// RoomAvailability lists the free slots of a room on ?date=YYYY-MM-DD
func (h *LocationHandlers) RoomAvailability(c echo.Context) error {
	roomID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	date, err := common.ParseDate(c.QueryParam("date"), "date", h.bookingService.Location())
	if err != nil {
		return err
	}

	slots, err := h.bookingService.Availability(c.Request().Context(), roomID, date)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"roomId": roomID,
		"date":   date.Format(common.DateLayout),
		"slots":  slots,
	})
}
