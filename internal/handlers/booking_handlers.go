package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// BookingHandlers handles meeting room reservations
type BookingHandlers struct {
	bookingService services.BookingService
	rbacService    services.RBACService
	clock          clockwork.Clock
}

func NewBookingHandlers(bookingService services.BookingService, rbacService services.RBACService, clock clockwork.Clock) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		rbacService:    rbacService,
		clock:          clock,
	}
}

func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.CreateBookingRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Create(c.Request().Context(), actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, booking)
}

func (h *BookingHandlers) CancelBooking(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, booking)
}

// ListBookings supports ?date=&subjectId=&roomId=&status=
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	filter := &models.BookingFilter{}
	if filter.SubjectID, err = queryUUID(c, "subjectId"); err != nil {
		return err
	}
	if filter.RoomID, err = queryUUID(c, "roomId"); err != nil {
		return err
	}
	if raw := c.QueryParam("date"); raw != "" {
		date, err := common.ParseDate(raw, "date", h.bookingService.Location())
		if err != nil {
			return err
		}
		filter.Date = &date
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.BookingStatus(raw)
		switch status {
		case models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted:
		default:
			return fmt.Errorf("%w: unknown booking status %q", common.ErrValidation, raw)
		}
		filter.Status = &status
	}

	if !h.rbacService.HasPermission(actor.Role, services.PermBookingsReadAll) {
		if filter.SubjectID != nil && *filter.SubjectID != actor.ID {
			return fmt.Errorf("%w: cannot read another user's bookings", common.ErrForbidden)
		}
		filter.SubjectID = &actor.ID
	}

	bookings, err := h.bookingService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, bookings)
}

// Usage reports the caller's booked minutes against the caps for ?date=
// (default today).
func (h *BookingHandlers) Usage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	loc := h.bookingService.Location()
	date := h.clock.Now().In(loc)
	if raw := c.QueryParam("date"); raw != "" {
		if date, err = common.ParseDate(raw, "date", loc); err != nil {
			return err
		}
	}

	usage, err := h.bookingService.Usage(c.Request().Context(), actor.ID, date)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, usage)
}

