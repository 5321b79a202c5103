package models

import "fmt"

// Event is a calendar-widget entry for one booking. Start and End carry the
// booking's display timestamps unchanged.
type Event struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Color string `json:"color"`
}

// gpuColors maps a GPU unit number to its calendar color. Units outside the
// table fall back to defaultGPUColor.
var gpuColors = map[int]string{
	1: "rgb(252, 128, 128)",
	2: "rgb(252, 194, 3)",
	3: "rgb(3, 161, 252)",
}

const defaultGPUColor = "rgb(3, 252, 128)"

// GPUColor returns the calendar color for a GPU unit number.
func GPUColor(gpu int) string {
	if c, ok := gpuColors[gpu]; ok {
		return c
	}
	return defaultGPUColor
}

// EventFor renders a booking as a calendar event.
func EventFor(b *Booking) Event {
	return Event{
		Title: fmt.Sprintf("GPU %d is currently used by %s for %d hours", b.GPU, b.Email, b.DurationHours),
		Start: b.Start,
		End:   b.End,
		Color: GPUColor(b.GPU),
	}
}
