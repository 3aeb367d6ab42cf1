package repository

import "errors"

var (
	// ErrNotFound is returned when the flight to replace does not exist.
	ErrNotFound = errors.New("not found")
	// ErrHasBookings is returned when a replace would drop booked seats
	// and the caller did not ask for a reset.
	ErrHasBookings = errors.New("flight has booked seats")
)
