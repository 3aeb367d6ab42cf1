package domain

import (
	"fmt"
	"strconv"
)

// FlightID, OrderID and ReservationID share an int64 representation but are
// distinct types, so one can never be passed where another is expected.
type (
	FlightID      int64
	OrderID       int64
	ReservationID int64
)

func (id FlightID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id OrderID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id ReservationID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseFlightID(s string) (FlightID, error) {
	v, err := parseID(s)
	return FlightID(v), err
}

func ParseOrderID(s string) (OrderID, error) {
	v, err := parseID(s)
	return OrderID(v), err
}

func ParseReservationID(s string) (ReservationID, error) {
	v, err := parseID(s)
	return ReservationID(v), err
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive integer", ErrInvalidValue, s)
	}
	return v, nil
}
