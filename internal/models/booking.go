package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire/storage format for calendar dates.
const DateLayout = "2006-01-02"

// Booking represents an exclusive GPU reservation.
// EndDate, EndHour and the display timestamps are derived at creation
// time and never supplied independently.
type Booking struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Node          int       `json:"node"`
	GPU           int       `json:"gpu"`
	StartDate     time.Time `json:"start_date"`
	StartHour     int       `json:"start_hour"` // 0..23
	EndDate       time.Time `json:"end_date"`
	EndHour       int       `json:"end_hour"`
	DurationHours int       `json:"duration_hours"` // 1..24
	Start         string    `json:"start"`          // YYYY-MM-DDTHH:00:00, for calendar feeds
	End           string    `json:"end"`
	CreatedAt     time.Time `json:"created_at"`
}

// Finalize computes the derived fields from StartDate, StartHour and
// DurationHours: end date/hour and the display timestamps. The end hour
// wraps at midnight; the end date advances one day when the span crosses it.
func (b *Booking) Finalize() {
	sum := b.StartHour + b.DurationHours
	b.EndHour = sum % 24
	if sum >= 24 {
		b.EndDate = b.StartDate.AddDate(0, 0, 1)
	} else {
		b.EndDate = b.StartDate
	}
	b.Start = DisplayTime(b.StartDate, b.StartHour)
	b.End = DisplayTime(b.EndDate, b.EndHour)
}

// Span maps the booking's occupied interval onto the timeline anchored at
// the given date. The result is a half-open interval in hours.
func (b *Booking) Span(anchor time.Time) (start, end int) {
	return HoursSinceAnchor(anchor, b.StartDate, b.StartHour),
		HoursSinceAnchor(anchor, b.EndDate, b.EndHour)
}

// Describe renders the booking for user-facing conflict and listing text.
func (b *Booking) Describe() string {
	return fmt.Sprintf("GPU %d of node %d is booked by %s from %s %02d:00 to %s %02d:00",
		b.GPU, b.Node, b.Email,
		b.StartDate.Format(DateLayout), b.StartHour,
		b.EndDate.Format(DateLayout), b.EndHour)
}

// DisplayTime formats a date+hour pair as YYYY-MM-DDTHH:00:00. The format
// is consumed verbatim by calendar widgets and must round-trip losslessly.
func DisplayTime(date time.Time, hour int) string {
	return fmt.Sprintf("%sT%02d:00:00", date.Format(DateLayout), hour)
}

// ParseDisplayTime is the inverse of DisplayTime.
func ParseDisplayTime(s string) (time.Time, int, error) {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, 0, err
	}
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return date, t.Hour(), nil
}
