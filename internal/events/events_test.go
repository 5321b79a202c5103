package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []Event
	bus.Subscribe(TypeBookingCreated, func(e Event) error {
		got = append(got, e)
		return nil
	})

	err := bus.PublishJSON(TypeBookingCreated, map[string]int{"id": 7})
	assert.NoError(t, err)

	// Unrelated types do not reach the handler.
	err = bus.PublishJSON(TypeBookingCancelled, map[string]int{"id": 8})
	assert.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, TypeBookingCreated, got[0].Type)
	assert.False(t, got[0].CreatedAt.IsZero())

	var payload map[string]int
	assert.NoError(t, json.Unmarshal(got[0].Payload, &payload))
	assert.Equal(t, 7, payload["id"])
}

func TestEventBusNilSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(TypeBookingCreated, "payload"))
}
