package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Helper function to create a date
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestHoursSinceAnchor(t *testing.T) {
	anchor := day(2024, 3, 2)

	tests := []struct {
		name     string
		date     time.Time
		hour     int
		expected int
	}{
		{"same day keeps hour", day(2024, 3, 2), 13, 13},
		{"same day midnight", day(2024, 3, 2), 0, 0},
		{"previous day shifts back", day(2024, 3, 1), 22, -2},
		{"next day shifts forward", day(2024, 3, 3), 2, 26},
		{"previous day midnight", day(2024, 3, 1), 0, -24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HoursSinceAnchor(anchor, tt.date, tt.hour))
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		overlap                    bool
	}{
		{"disjoint before", 0, 2, 3, 5, false},
		{"disjoint after", 6, 8, 3, 5, false},
		{"touching endpoints do not overlap", 0, 3, 3, 5, false},
		{"touching endpoints reversed", 3, 5, 0, 3, false},
		{"partial overlap", 1, 4, 3, 5, true},
		{"containment", 1, 10, 3, 5, true},
		{"identical", 3, 5, 3, 5, true},
		{"negative coordinates", -2, 2, 1, 3, true},
		{"negative disjoint", -24, -20, 0, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// The law is symmetric in its two intervals.
			assert.Equal(t, tt.overlap, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestSpanAcrossMidnight(t *testing.T) {
	// Existing booking 2024-03-01 22:00 + 4h ends 2024-03-02 02:00.
	b := &Booking{StartDate: day(2024, 3, 1), StartHour: 22, DurationHours: 4}
	b.Finalize()

	start, end := b.Span(day(2024, 3, 2))
	assert.Equal(t, -2, start)
	assert.Equal(t, 2, end)

	// Anchored at its own start date the span is just start/end hours.
	start, end = b.Span(day(2024, 3, 1))
	assert.Equal(t, 22, start)
	assert.Equal(t, 26, end)
}
