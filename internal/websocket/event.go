package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated       EventType = "created"
	EventTypeUpdated       EventType = "updated"
	EventTypeStatusChanged EventType = "status_changed"
	EventTypeRecorded      EventType = "recorded"
	EventTypeDeleted       EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeRental  EntityType = "rental"
	EntityTypePayment EntityType = "payment"
	EntityTypeSite    EntityType = "site"
	EntityTypeStats   EntityType = "stats"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "rental.status_changed"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "rental"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RentalCreated creates a rental.created event
func RentalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeRental, payload)
}

// RentalUpdated creates a rental.updated event
func RentalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeRental, payload)
}

// RentalStatusChanged creates a rental.status_changed event
func RentalStatusChanged(payload interface{}) Event {
	return NewEvent(EventTypeStatusChanged, EntityTypeRental, payload)
}

// PaymentRecorded creates a payment.recorded event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypePayment, payload)
}

// SiteUpdated creates a site.updated event
func SiteUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSite, payload)
}
