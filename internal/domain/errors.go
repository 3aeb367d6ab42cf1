package domain

import "errors"

var (
	// ErrInvalidValue is returned when a value object is constructed from malformed input.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidSeat is returned when a seat does not fit the geometry of a flight.
	ErrInvalidSeat = errors.New("seat is not valid for this flight")
	// ErrAlreadyBooked is returned when a seat is already in the booked set of a flight.
	ErrAlreadyBooked = errors.New("seat already booked")
)
