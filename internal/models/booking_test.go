package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Finalize(t *testing.T) {
	tests := []struct {
		name      string
		startHour int
		duration  int
		endHour   int
		nextDay   bool
	}{
		{"same day morning", 9, 3, 12, false},
		{"ends at last hour", 10, 13, 23, false},
		{"exactly to midnight", 20, 4, 0, true},
		{"spills past midnight", 22, 4, 2, true},
		{"full day from midnight", 0, 24, 0, true},
		{"single hour", 0, 1, 1, false},
	}

	startDate := day(2024, 3, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{StartDate: startDate, StartHour: tt.startHour, DurationHours: tt.duration}
			b.Finalize()

			assert.Equal(t, tt.endHour, b.EndHour)
			if tt.nextDay {
				assert.Equal(t, startDate.AddDate(0, 0, 1), b.EndDate)
			} else {
				assert.Equal(t, startDate, b.EndDate)
			}
		})
	}
}

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		hour     int
		expected string
	}{
		{"single digit hour is zero padded", day(2024, 3, 1), 9, "2024-03-01T09:00:00"},
		{"midnight", day(2024, 3, 2), 0, "2024-03-02T00:00:00"},
		{"ten", day(2024, 3, 1), 10, "2024-03-01T10:00:00"},
		{"double digit hour", day(2024, 12, 31), 23, "2024-12-31T23:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayTime(tt.date, tt.hour)
			assert.Equal(t, tt.expected, got)

			// Must round-trip losslessly back to (date, hour).
			date, hour, err := ParseDisplayTime(got)
			assert.NoError(t, err)
			assert.Equal(t, tt.date, date)
			assert.Equal(t, tt.hour, hour)
		})
	}
}

func TestBooking_FinalizeDisplayStrings(t *testing.T) {
	b := &Booking{StartDate: day(2024, 3, 1), StartHour: 22, DurationHours: 4}
	b.Finalize()

	assert.Equal(t, "2024-03-01T22:00:00", b.Start)
	assert.Equal(t, "2024-03-02T02:00:00", b.End)
}

func TestBooking_Describe(t *testing.T) {
	b := &Booking{
		Email: "user@example.com", Node: 60, GPU: 1,
		StartDate: day(2024, 3, 1), StartHour: 22, DurationHours: 4,
	}
	b.Finalize()

	assert.Equal(t,
		"GPU 1 of node 60 is booked by user@example.com from 2024-03-01 22:00 to 2024-03-02 02:00",
		b.Describe())
}

func TestGPUColor(t *testing.T) {
	assert.Equal(t, "rgb(252, 128, 128)", GPUColor(1))
	assert.Equal(t, "rgb(252, 194, 3)", GPUColor(2))
	assert.Equal(t, "rgb(3, 161, 252)", GPUColor(3))
	assert.Equal(t, "rgb(3, 252, 128)", GPUColor(4))
	assert.Equal(t, "rgb(3, 252, 128)", GPUColor(17))
}

func TestEventFor(t *testing.T) {
	b := &Booking{
		Email: "user@example.com", Node: 60, GPU: 2,
		StartDate: day(2024, 3, 1), StartHour: 8, DurationHours: 2,
	}
	b.Finalize()

	ev := EventFor(b)
	assert.Equal(t, "GPU 2 is currently used by user@example.com for 2 hours", ev.Title)
	assert.Equal(t, b.Start, ev.Start)
	assert.Equal(t, b.End, ev.End)
	assert.Equal(t, GPUColor(2), ev.Color)
}
