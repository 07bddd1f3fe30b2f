package handlers

import (
	"fmt"
	"strconv"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func bindBody(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: invalid request format", common.ErrValidation)
	}
	return nil
}

func currentActor(c echo.Context) (services.Actor, error) {
	return services.ActorFromContext(c.Request().Context())
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// queryUUID returns nil when the parameter is absent.
func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrValidation, name)
	}
	return v, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", common.ErrValidation, name)
	}
	return &v, nil
}

func pagination(c echo.Context) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return common.ValidatePaginationParams(limit, offset)
}

// dateRange parses startDate and endDate. Both are required.
func dateRange(c echo.Context, loc *time.Location) (time.Time, time.Time, error) {
	start, err := common.ParseDate(c.QueryParam("startDate"), "startDate", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := common.ParseDate(c.QueryParam("endDate"), "endDate", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := common.ValidateDateRange(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
