package models

import (
	"time"

	"github.com/google/uuid"
)

type TimeEntryStatus string

const (
	TimeEntryCheckedIn  TimeEntryStatus = "Checked In"
	TimeEntryCheckedOut TimeEntryStatus = "Checked Out"
	// TimeEntryNever is only ever computed, it is never stored.
	TimeEntryNever TimeEntryStatus = "Never"
)

// TimeEntry is one check-in/check-out pair of a subject.
type TimeEntry struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SubjectID       uuid.UUID       `json:"subjectId" db:"subject_id"`
	CheckIn         time.Time       `json:"checkIn" db:"check_in"`
	CheckOut        *time.Time      `json:"checkOut,omitempty" db:"check_out"`
	DurationMinutes *int            `json:"durationMinutes,omitempty" db:"duration_minutes"`
	Status          TimeEntryStatus `json:"status" db:"status"`
	Date            time.Time       `json:"date" db:"entry_date"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	LocationID      *uuid.UUID      `json:"locationId,omitempty" db:"location_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// TimeEntryFilter selects entries by subject and check-in date range.
type TimeEntryFilter struct {
	SubjectID *uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// TimeEntryStats aggregates a set of closed entries.
type TimeEntryStats struct {
	TotalEntries       int     `json:"totalEntries"`
	TotalMinutes       int     `json:"totalMinutes"`
	TotalHours         float64 `json:"totalHours"`
	DaysTracked        int     `json:"daysTracked"`
	AverageHoursPerDay float64 `json:"averageHoursPerDay"`
}

// CurrentStatus is the computed projection of a subject's latest entry.
type CurrentStatus struct {
	Status TimeEntryStatus `json:"status"`
	Entry  *TimeEntry      `json:"entry,omitempty"`
}
