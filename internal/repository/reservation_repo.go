package repository

import (
	"sync"

	"github.com/Domenick1991/seatbooking/internal/domain"
)

type ReservationRepository interface {
	Add(reservation domain.Reservation)
	Get(id domain.ReservationID) (domain.Reservation, bool)
	ListByOrder(orderID domain.OrderID) []domain.Reservation
}

type InMemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[domain.ReservationID]domain.Reservation
}

func NewReservationRepository() *InMemoryReservationRepository {
	return &InMemoryReservationRepository{reservations: make(map[domain.ReservationID]domain.Reservation)}
}

// Add stores the reservation, replacing any record with the same id.
// No business validation is done here.
func (r *InMemoryReservationRepository) Add(reservation domain.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[reservation.ID] = reservation
}

func (r *InMemoryReservationRepository) Get(id domain.ReservationID) (domain.Reservation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	return res, ok
}

// ListByOrder returns the order's reservations in no particular order.
func (r *InMemoryReservationRepository) ListByOrder(orderID domain.OrderID) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reservation, 0)
	for _, res := range r.reservations {
		if res.OrderID == orderID {
			out = append(out, res)
		}
	}
	return out
}

var _ ReservationRepository = (*InMemoryReservationRepository)(nil)
