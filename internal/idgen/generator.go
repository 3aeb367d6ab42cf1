// Package idgen issues process-scoped identifiers for flights, orders and reservations.
package idgen

import (
	"sync/atomic"

	"github.com/Domenick1991/seatbooking/internal/domain"
)

// Generator hands out monotonically increasing identifiers, one counter per
// kind, starting at 1. Values are never reused within the lifetime of a
// Generator. A Generator must not be copied after first use.
type Generator struct {
	flights      atomic.Int64
	orders       atomic.Int64
	reservations atomic.Int64
}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) NextFlightID() domain.FlightID {
	return domain.FlightID(g.flights.Add(1))
}

func (g *Generator) NextOrderID() domain.OrderID {
	return domain.OrderID(g.orders.Add(1))
}

func (g *Generator) NextReservationID() domain.ReservationID {
	return domain.ReservationID(g.reservations.Add(1))
}
