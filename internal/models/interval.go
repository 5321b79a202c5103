package models

import "time"

// HoursSinceAnchor places a date+hour point onto a continuous hour timeline
// relative to the anchor date: a point on the anchor date keeps its hour, a
// point on the previous day is shifted by -24, on the next day by +24.
// Dates are expected to be midnight-normalized in the same location.
func HoursSinceAnchor(anchor, date time.Time, hour int) int {
	days := int(date.Sub(anchor).Hours() / 24)
	return days*24 + hour
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at an endpoint do
// not overlap. This is the single overlap test used for conflict detection.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
