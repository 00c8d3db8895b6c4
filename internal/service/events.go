package service

import (
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/websocket"
)

// publishRentalEvent fans an event out to the admin channel and, when the
// rental belongs to a registered client, that client's channel as well
func publishRentalEvent(p websocket.EventPublisher, rental *domain.Rental, event websocket.Event) {
	if p == nil {
		return
	}
	p.Publish(websocket.ChannelAdmin, event)
	if rental.ClientID != nil {
		p.Publish(websocket.ClientChannel(*rental.ClientID), event)
	}
}
