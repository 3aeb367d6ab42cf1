package domain

import (
	"fmt"
	"slices"
	"time"
)

const maxSeatsPerRow = 26

// Flight owns the seat map of one scheduled departure.
//
// Flight is not safe for concurrent use. Callers that share a Flight between
// goroutines (the inventory repository) must serialize access themselves.
type Flight struct {
	id          FlightID
	origin      AirportCode
	destination AirportCode
	departure   time.Time
	rows        int
	seatsPerRow int

	booked map[Seat]struct{}
}

func NewFlight(id FlightID, origin, destination AirportCode, departure time.Time, rows, seatsPerRow int) (*Flight, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: flight id must be positive", ErrInvalidValue)
	}
	if origin.IsZero() || destination.IsZero() {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidValue)
	}
	if rows < 1 || rows > 0xFFFF {
		return nil, fmt.Errorf("%w: rows must be between 1 and 65535, got %d", ErrInvalidValue, rows)
	}
	if seatsPerRow < 1 || seatsPerRow > maxSeatsPerRow {
		return nil, fmt.Errorf("%w: seats per row must be between 1 and %d (A-Z), got %d", ErrInvalidValue, maxSeatsPerRow, seatsPerRow)
	}
	return &Flight{
		id:          id,
		origin:      origin,
		destination: destination,
		departure:   departure,
		rows:        rows,
		seatsPerRow: seatsPerRow,
		booked:      make(map[Seat]struct{}),
	}, nil
}

func (f *Flight) ID() FlightID             { return f.id }
func (f *Flight) Origin() AirportCode      { return f.origin }
func (f *Flight) Destination() AirportCode { return f.destination }
func (f *Flight) Departure() time.Time     { return f.departure }
func (f *Flight) Rows() int                { return f.rows }
func (f *Flight) SeatsPerRow() int         { return f.seatsPerRow }
func (f *Flight) Capacity() int            { return f.rows * f.seatsPerRow }
func (f *Flight) BookedCount() int         { return len(f.booked) }
func (f *Flight) Available() int           { return f.Capacity() - len(f.booked) }

// IsSeatValid checks the seat against the flight geometry only.
func (f *Flight) IsSeatValid(seat Seat) bool {
	if seat.Row() < 1 || seat.Row() > f.rows {
		return false
	}
	maxLetter := rune('A' + f.seatsPerRow - 1)
	return seat.Letter() >= 'A' && seat.Letter() <= maxLetter
}

func (f *Flight) IsBooked(seat Seat) bool {
	_, ok := f.booked[seat]
	return ok
}

func (f *Flight) BookSeat(seat Seat) error {
	if !f.IsSeatValid(seat) {
		return fmt.Errorf("%w: %s on flight %d", ErrInvalidSeat, seat, f.id)
	}
	if f.IsBooked(seat) {
		return fmt.Errorf("%w: %s on flight %d", ErrAlreadyBooked, seat, f.id)
	}
	f.booked[seat] = struct{}{}
	return nil
}

// ReleaseSeat frees the seat. Releasing a free seat is a no-op.
func (f *Flight) ReleaseSeat(seat Seat) {
	delete(f.booked, seat)
}

// BookedSeats returns the booked seats ordered by row, then letter.
func (f *Flight) BookedSeats() []Seat {
	seats := make([]Seat, 0, len(f.booked))
	for s := range f.booked {
		seats = append(seats, s)
	}
	slices.SortFunc(seats, Seat.Compare)
	return seats
}

// Clone returns a copy that shares no mutable state with f.
func (f *Flight) Clone() *Flight {
	c := *f
	c.booked = make(map[Seat]struct{}, len(f.booked))
	for s := range f.booked {
		c.booked[s] = struct{}{}
	}
	return &c
}

// FlightSummary is the part of a flight that does not change with bookings.
type FlightSummary struct {
	ID          FlightID  `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Rows        int       `json:"rows"`
	SeatsPerRow int       `json:"seats_per_row"`
	Capacity    int       `json:"capacity"`
}

func (f *Flight) Summary() FlightSummary {
	return FlightSummary{
		ID:          f.id,
		Origin:      f.origin.String(),
		Destination: f.destination.String(),
		Departure:   f.departure,
		Rows:        f.rows,
		SeatsPerRow: f.seatsPerRow,
		Capacity:    f.Capacity(),
	}
}
