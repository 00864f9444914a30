// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/reservas/internal/model"
)

// Event types published on every successful mutation.
const (
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"
)

// ReservationEvent is published after a reservation is created, updated or
// deleted. Deleted events only carry the id.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	Name          string `json:"name,omitempty"`
	Datetime      string `json:"datetime,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent builds an event for r stamped with a fresh id.
func NewReservationEvent(eventType string, r model.Reservation, now time.Time) ReservationEvent {
	ev := ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		OccurredAt:    now.UTC().Format(model.TimestampLayout),
	}
	if eventType != EventReservationDeleted {
		ev.Name = r.Name
		ev.Datetime = r.Datetime.String()
	}
	return ev
}
