package handlers

import (
	"fmt"
	"net/http"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// TimeEntryHandlers handles check-in, check-out and attendance queries
type TimeEntryHandlers struct {
	timeEntryService services.TimeEntryService
	rbacService      services.RBACService
	loc              *time.Location
}

func NewTimeEntryHandlers(timeEntryService services.TimeEntryService, rbacService services.RBACService, loc *time.Location) *TimeEntryHandlers {
	return &TimeEntryHandlers{
		timeEntryService: timeEntryService,
		rbacService:      rbacService,
		loc:              loc,
	}
}

func (h *TimeEntryHandlers) CheckIn(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.CheckInRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	entry, err := h.timeEntryService.CheckIn(c.Request().Context(), actor.ID, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, entry)
}

func (h *TimeEntryHandlers) CheckOut(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	entry, err := h.timeEntryService.CheckOut(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, entry)
}

func (h *TimeEntryHandlers) Status(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	status, err := h.timeEntryService.CurrentStatus(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, status)
}

// ListTimeEntries handles ?startDate&endDate&subjectId=. Callers see their own
// entries unless their role may read everyone's; subjectId is optional then.
func (h *TimeEntryHandlers) ListTimeEntries(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	start, end, err := dateRange(c, h.loc)
	if err != nil {
		return err
	}
	subjectID, err := queryUUID(c, "subjectId")
	if err != nil {
		return err
	}

	readAll := h.rbacService.HasPermission(actor.Role, services.PermTimeReadAll)
	switch {
	case subjectID == nil && !readAll:
		subjectID = &actor.ID
	case subjectID != nil && *subjectID != actor.ID && !readAll:
		return fmt.Errorf("%w: cannot read another user's time entries", common.ErrForbidden)
	}

	report, err := h.timeEntryService.List(c.Request().Context(), &models.TimeEntryFilter{
		SubjectID: subjectID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, report)
}
