package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
)

// Seat is an airline seat position such as 12A.
// The zero value is not a valid seat; use NewSeat or ParseSeat.
type Seat struct {
	row    uint16
	letter byte
}

func NewSeat(row int, letter rune) (Seat, error) {
	if row < 1 || row > 0xFFFF {
		return Seat{}, fmt.Errorf("%w: seat row %d must be >= 1", ErrInvalidValue, row)
	}
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return Seat{}, fmt.Errorf("%w: seat letter %q must be A-Z", ErrInvalidValue, letter)
	}
	return Seat{row: uint16(row), letter: byte(letter)}, nil
}

// ParseSeat accepts the printed form of a seat, e.g. "12A" or "3c".
func ParseSeat(s string) (Seat, error) {
	if len(s) < 2 {
		return Seat{}, fmt.Errorf("%w: seat %q", ErrInvalidValue, s)
	}
	row, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Seat{}, fmt.Errorf("%w: seat %q has no row number", ErrInvalidValue, s)
	}
	return NewSeat(row, rune(s[len(s)-1]))
}

func MustSeat(row int, letter rune) Seat {
	s, err := NewSeat(row, letter)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Seat) Row() int       { return int(s.row) }
func (s Seat) Letter() rune   { return rune(s.letter) }
func (s Seat) String() string { return strconv.Itoa(int(s.row)) + string(rune(s.letter)) }
func (s Seat) IsZero() bool   { return s.row == 0 }

// Compare orders seats by row, then by letter.
func (s Seat) Compare(other Seat) int {
	if c := cmp.Compare(s.row, other.row); c != 0 {
		return c
	}
	return cmp.Compare(s.letter, other.letter)
}

func (s Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Seat) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeat(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
