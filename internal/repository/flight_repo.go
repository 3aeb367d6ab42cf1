package repository

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/Domenick1991/seatbooking/internal/domain"
)

type FlightRepository interface {
	Get(id domain.FlightID) (*domain.Flight, bool)
	Search(origin, destination domain.AirportCode) []domain.Flight
	List() []domain.Flight
	Upsert(flight *domain.Flight)
	Replace(flight *domain.Flight, dropBookings bool) error
	// TryBookSeat atomically books the seat. It reports false, without
	// mutating anything, when the flight is unknown, the seat does not fit
	// the flight geometry or the seat is already taken.
	TryBookSeat(id domain.FlightID, seat domain.Seat) bool
	ReleaseSeat(id domain.FlightID, seat domain.Seat)
}

// InMemoryFlightRepository keeps every flight behind a single RWMutex.
// Readers run in parallel; any write excludes all readers and writers of the
// whole repository, not only of the flight being written.
type InMemoryFlightRepository struct {
	mu      sync.RWMutex
	flights map[domain.FlightID]*domain.Flight
}

func NewFlightRepository() *InMemoryFlightRepository {
	return &InMemoryFlightRepository{flights: make(map[domain.FlightID]*domain.Flight)}
}

// Get returns a snapshot of the flight; mutating it does not affect the repository.
func (r *InMemoryFlightRepository) Get(id domain.FlightID) (*domain.Flight, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flights[id]
	if !ok {
		return nil, false
	}
	return f.Clone(), true
}

// Search returns the flights matching both airports, ordered by ascending id.
func (r *InMemoryFlightRepository) Search(origin, destination domain.AirportCode) []domain.Flight {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Flight, 0)
	for _, f := range r.flights {
		if f.Origin() == origin && f.Destination() == destination {
			out = append(out, *f.Clone())
		}
	}
	sortByID(out)
	return out
}

func (r *InMemoryFlightRepository) List() []domain.Flight {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		out = append(out, *f.Clone())
	}
	sortByID(out)
	return out
}

// Upsert inserts the flight or replaces the stored one with the same id,
// booked seats included.
func (r *InMemoryFlightRepository) Upsert(flight *domain.Flight) {
	c := flight.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.flights[c.ID()] = c
}

// Replace swaps an existing flight for a new definition. Unless dropBookings is
// set it refuses to discard booked seats; the check and the swap happen under
// one write lock.
func (r *InMemoryFlightRepository) Replace(flight *domain.Flight, dropBookings bool) error {
	c := flight.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.flights[c.ID()]
	if !ok {
		return fmt.Errorf("flight %d: %w", c.ID(), ErrNotFound)
	}
	if existing.BookedCount() > 0 && !dropBookings {
		return fmt.Errorf("flight %d: %w", c.ID(), ErrHasBookings)
	}
	r.flights[c.ID()] = c
	return nil
}

func (r *InMemoryFlightRepository) TryBookSeat(id domain.FlightID, seat domain.Seat) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[id]
	if !ok {
		return false
	}
	if !f.IsSeatValid(seat) || f.IsBooked(seat) {
		return false
	}
	return f.BookSeat(seat) == nil
}

func (r *InMemoryFlightRepository) ReleaseSeat(id domain.FlightID, seat domain.Seat) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.flights[id]; ok {
		f.ReleaseSeat(seat)
	}
}

func sortByID(flights []domain.Flight) {
	slices.SortFunc(flights, func(a, b domain.Flight) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

var _ FlightRepository = (*InMemoryFlightRepository)(nil)
