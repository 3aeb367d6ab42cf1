package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	fid, err := ParseFlightID("42")
	require.NoError(t, err)
	assert.Equal(t, FlightID(42), fid)

	oid, err := ParseOrderID("7")
	require.NoError(t, err)
	assert.Equal(t, "7", oid.String())

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseReservationID(raw)
		assert.ErrorIs(t, err, ErrInvalidValue, raw)
	}
}
