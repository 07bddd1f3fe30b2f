package models

import "time"

// Settings is the single authoritative booking policy record.
type Settings struct {
	DailyBookingLimitMinutes   int       `json:"dailyBookingLimitMinutes" db:"daily_booking_limit_minutes"`
	MonthlyBookingLimitMinutes int       `json:"monthlyBookingLimitMinutes" db:"monthly_booking_limit_minutes"`
	SlotMinutes                int       `json:"slotMinutes" db:"slot_minutes"`
	OpenHour                   int       `json:"openHour" db:"open_hour"`
	CloseHour                  int       `json:"closeHour" db:"close_hour"`
	UpdatedAt                  time.Time `json:"updatedAt" db:"updated_at"`
}
