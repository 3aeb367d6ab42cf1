package domain

import "time"

// Reservation links an order to a booked seat on a flight.
// It is a plain value and is never mutated after creation.
type Reservation struct {
	ID        ReservationID `json:"id"`
	OrderID   OrderID       `json:"order_id"`
	FlightID  FlightID      `json:"flight_id"`
	Seat      Seat          `json:"seat"`
	CreatedAt time.Time     `json:"created_at"`
}
