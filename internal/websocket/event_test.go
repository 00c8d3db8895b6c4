package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinesEntityAndType(t *testing.T) {
	event := NewEvent(EventTypeStatusChanged, EntityTypeRental, map[string]string{"id": "r1"})

	assert.Equal(t, "rental.status_changed", event.Type)
	assert.Equal(t, EntityTypeRental, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_ToJSON(t *testing.T) {
	event := PaymentRecorded(map[string]interface{}{
		"rentalId": "r1",
		"amount":   "2500.00",
	})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "payment.recorded", decoded["type"])
	assert.Equal(t, "payment", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2500.00", payload["amount"])
}

func TestEventConstructors(t *testing.T) {
	assert.Equal(t, "rental.created", RentalCreated(nil).Type)
	assert.Equal(t, "rental.updated", RentalUpdated(nil).Type)
	assert.Equal(t, "rental.status_changed", RentalStatusChanged(nil).Type)
	assert.Equal(t, "payment.recorded", PaymentRecorded(nil).Type)
	assert.Equal(t, "site.updated", SiteUpdated(nil).Type)
}
