// Package events defines the reservation events emitted after the stores have been updated.
package events

import (
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/google/uuid"
)

const (
	TypeReservationCreated   = "reservation_created"
	TypeReservationCancelled = "reservation_cancelled"
)

type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	OrderID       int64     `json:"order_id"`
	FlightID      int64     `json:"flight_id"`
	Seat          string    `json:"seat"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r domain.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: int64(r.ID),
		OrderID:       int64(r.OrderID),
		FlightID:      int64(r.FlightID),
		Seat:          r.Seat.String(),
		OccurredAt:    at.UTC(),
	}
}

// Key is the partition/routing key: events of one order stay ordered.
func (e ReservationEvent) Key() string {
	return domain.OrderID(e.OrderID).String()
}
