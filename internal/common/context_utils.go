package common

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for booking start/end times.
const ClockLayout = "15:04"

// ValidateUUID validates UUID format with comprehensive checks
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrValidation, fieldName)
	}
	if len(idStr) != 36 {
		return uuid.Nil, fmt.Errorf("%w: %s must be exactly 36 characters (including hyphens)", ErrValidation, fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", ErrValidation, fieldName)
	}
	return id, nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrValidation, fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%w: %s cannot exceed %d", ErrValidation, fieldName, maxValue)
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, fieldName)
	}
	return nil
}

// ValidateOptionalString trims an optional string and enforces a maximum length
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value == nil {
		return nil
	}
	*value = strings.TrimSpace(*value)
	if len(*value) > maxLength {
		return fmt.Errorf("%w: %s cannot exceed %d characters", ErrValidation, fieldName, maxLength)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date in the given location.
func ParseDate(dateStr, fieldName string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrValidation, fieldName)
	}
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be in YYYY-MM-DD format", ErrValidation, fieldName)
	}
	return date, nil
}

// ParseClock parses an HH:MM time of day and returns minutes since midnight.
func ParseClock(clock, fieldName string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be in HH:MM format", ErrValidation, fieldName)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the caller's role from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// WithActor stores the authenticated user and role on the context.
func WithActor(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("%w: offset cannot exceed 1,000,000", ErrValidation)
	}
	return limit, offset, nil
}

// ValidateDateRange validates date ranges to prevent abuse
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrValidation)
	}
	if endDate.Sub(startDate) > time.Hour*24*366*2 {
		return fmt.Errorf("%w: date range cannot exceed 2 years", ErrValidation)
	}
	return nil
}
