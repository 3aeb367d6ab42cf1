package domain

import (
	"encoding/json"
	"fmt"
)

// AirportCode is a 3-letter IATA-like location code, always uppercase.
type AirportCode struct {
	code string
}

func NewAirportCode(code string) (AirportCode, error) {
	if len(code) != 3 {
		return AirportCode{}, fmt.Errorf("%w: airport code %q must be exactly 3 characters", ErrInvalidValue, code)
	}
	b := []byte(code)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
			b[i] = c
		}
		if c < 'A' || c > 'Z' {
			return AirportCode{}, fmt.Errorf("%w: airport code %q must contain only letters", ErrInvalidValue, code)
		}
	}
	return AirportCode{code: string(b)}, nil
}

// MustAirportCode is NewAirportCode for literals known to be valid.
func MustAirportCode(code string) AirportCode {
	a, err := NewAirportCode(code)
	if err != nil {
		panic(err)
	}
	return a
}

func (a AirportCode) String() string { return a.code }

// IsZero reports whether a was never constructed.
func (a AirportCode) IsZero() bool { return a.code == "" }

func (a AirportCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.code)
}

func (a *AirportCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewAirportCode(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
