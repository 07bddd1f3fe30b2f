package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Room is a bookable meeting room at a branch.
type Room struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	LocationID uuid.UUID `json:"locationId" db:"location_id"`
	Capacity   int       `json:"capacity" db:"capacity"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

// Booking reserves a room for a subject on one day. Start and end are
// minutes since midnight in the configured timezone.
type Booking struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	RoomID          uuid.UUID     `json:"roomId" db:"room_id"`
	SubjectID       uuid.UUID     `json:"subjectId" db:"subject_id"`
	Date            time.Time     `json:"-" db:"booking_date"`
	StartMinute     int           `json:"-" db:"start_minute"`
	EndMinute       int           `json:"-" db:"end_minute"`
	DurationMinutes int           `json:"durationMinutes" db:"duration_minutes"`
	Status          BookingStatus `json:"status" db:"status"`
	Purpose         string        `json:"purpose" db:"purpose"`
	CancelledBy     *uuid.UUID    `json:"cancelledBy,omitempty" db:"cancelled_by"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// Overlaps reports whether the half-open interval [start, end) intersects b.
func (b *Booking) Overlaps(start, end int) bool {
	return b.StartMinute < end && start < b.EndMinute
}

// StartTime renders the start as HH:MM.
func (b *Booking) StartTime() string { return clock(b.StartMinute) }

// EndTime renders the end as HH:MM.
func (b *Booking) EndTime() string { return clock(b.EndMinute) }

func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		Date      string `json:"date"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}{alias(b), b.Date.Format("2006-01-02"), clock(b.StartMinute), clock(b.EndMinute)})
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	SubjectID *uuid.UUID
	RoomID    *uuid.UUID
	Date      *time.Time
	Status    *BookingStatus
}

// Slot is one bookable interval on a given day.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BookingUsage is the advisory usage figure shown on dashboards.
type BookingUsage struct {
	Date                time.Time `json:"-"`
	DailyUsedMinutes    int       `json:"dailyUsedMinutes"`
	DailyLimitMinutes   int       `json:"dailyLimitMinutes"`
	MonthlyUsedMinutes  int       `json:"monthlyUsedMinutes"`
	MonthlyLimitMinutes int       `json:"monthlyLimitMinutes"`
}
