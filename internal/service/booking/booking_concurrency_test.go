package booking

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/idgen"
	"github.com/Domenick1991/seatbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fixture struct {
	flights      *repository.InMemoryFlightRepository
	reservations *repository.InMemoryReservationRepository
	ids          *idgen.Generator
	service      *BookingService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fx := fixture{
		flights:      repository.NewFlightRepository(),
		reservations: repository.NewReservationRepository(),
		ids:          idgen.New(),
	}
	fx.service = NewBookingService(fx.flights, fx.reservations, fx.ids, WithClock(fixedClock))
	return fx
}

func (fx fixture) seedFlight(t *testing.T, rows, seatsPerRow int) domain.FlightID {
	t.Helper()
	f, err := domain.NewFlight(fx.ids.NextFlightID(), domain.MustAirportCode("WAW"), domain.MustAirportCode("FRA"), time.Now(), rows, seatsPerRow)
	require.NoError(t, err)
	fx.flights.Upsert(f)
	return f.ID()
}

func TestBookSeat_OnlyOneGoroutineWinsSameSeat(t *testing.T) {
	fx := newFixture(t)
	flightID := fx.seedFlight(t, 10, 6)
	orderID := fx.service.NewOrder(context.Background())
	seat := domain.MustSeat(1, 'A')

	const racers = 16
	var wins atomic.Int32
	var g errgroup.Group
	for i := 0; i < racers; i++ {
		g.Go(func() error {
			res := fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: flightID, OrderID: orderID, Seat: seat})
			if res.Success {
				wins.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	list := fx.service.ListByOrder(context.Background(), orderID)
	require.Len(t, list, 1)
	assert.Equal(t, "1A", list[0].Seat.String())
	assert.Equal(t, flightID, list[0].FlightID)
}

func TestBookSeat_ManySeatsManyOrders(t *testing.T) {
	fx := newFixture(t)
	flightID := fx.seedFlight(t, 5, 4)

	orders := []domain.OrderID{fx.ids.NextOrderID(), fx.ids.NextOrderID(), fx.ids.NextOrderID()}
	var g errgroup.Group
	for _, order := range orders {
		for row := 1; row <= 5; row++ {
			for _, letter := range "ABCD" {
				seat := domain.MustSeat(row, letter)
				g.Go(func() error {
					fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: flightID, OrderID: order, Seat: seat})
					return nil
				})
			}
		}
	}
	require.NoError(t, g.Wait())

	total := 0
	seen := make(map[domain.Seat]struct{})
	for _, order := range orders {
		for _, r := range fx.service.ListByOrder(context.Background(), order) {
			_, dup := seen[r.Seat]
			assert.False(t, dup, "seat %s reserved twice", r.Seat)
			seen[r.Seat] = struct{}{}
			total++
		}
	}
	assert.Equal(t, 20, total)

	f, ok := fx.flights.Get(flightID)
	require.True(t, ok)
	assert.Zero(t, f.Available())
}

func TestBookSeat_ReservationConsistency(t *testing.T) {
	fx := newFixture(t)
	flightID := fx.seedFlight(t, 10, 6)
	orderID := fx.ids.NextOrderID()
	seat := domain.MustSeat(7, 'e')

	res := fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: flightID, OrderID: orderID, Seat: seat})
	require.True(t, res.Success)

	list := fx.service.ListByOrder(context.Background(), orderID)
	require.Len(t, list, 1)
	assert.Equal(t, flightID, list[0].FlightID)
	assert.Equal(t, seat, list[0].Seat)
	assert.Equal(t, fixedNow, list[0].CreatedAt)

	got, ok := fx.service.GetReservation(context.Background(), res.Reservation.ID)
	require.True(t, ok)
	assert.Equal(t, *res.Reservation, got)
}

func TestBookSeat_UnknownFlightMutatesNothing(t *testing.T) {
	fx := newFixture(t)
	known := fx.seedFlight(t, 10, 6)
	orderID := fx.ids.NextOrderID()

	res := fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: known + 100, OrderID: orderID, Seat: domain.MustSeat(1, 'A')})

	assert.False(t, res.Success)
	assert.Equal(t, ReasonSeatUnavailable, res.Error)
	assert.Empty(t, fx.service.ListByOrder(context.Background(), orderID))
	f, _ := fx.flights.Get(known)
	assert.Zero(t, f.BookedCount())
	assert.Equal(t, domain.ReservationID(1), fx.ids.NextReservationID(), "no reservation id consumed")
}

func TestCancel_ReleasesSeatButKeepsRecord(t *testing.T) {
	fx := newFixture(t)
	flightID := fx.seedFlight(t, 10, 6)
	orderID := fx.ids.NextOrderID()
	seat := domain.MustSeat(2, 'C')

	first := fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: flightID, OrderID: orderID, Seat: seat})
	require.True(t, first.Success)

	assert.True(t, fx.service.Cancel(context.Background(), first.Reservation.ID))
	assert.True(t, fx.service.Cancel(context.Background(), first.Reservation.ID), "cancel is repeatable")
	assert.False(t, fx.service.Cancel(context.Background(), 999))

	f, _ := fx.flights.Get(flightID)
	assert.False(t, f.IsBooked(seat))
	assert.Len(t, fx.service.ListByOrder(context.Background(), orderID), 1)

	second := fx.service.BookSeat(context.Background(), BookSeatCommand{FlightID: flightID, OrderID: orderID, Seat: seat})
	require.True(t, second.Success)
	assert.NotEqual(t, first.Reservation.ID, second.Reservation.ID)
	assert.Len(t, fx.service.ListByOrder(context.Background(), orderID), 2)
}
