package booking

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/idgen"
	"github.com/Domenick1991/seatbooking/internal/logger"
	"github.com/Domenick1991/seatbooking/internal/queue"
	"github.com/Domenick1991/seatbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBookSeat_StalledRabbitMQDoesNotHoldBookings(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	accepted := make(chan net.Conn, 16)
	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		_ = lis.Close()
		for {
			select {
			case conn := <-accepted:
				_ = conn.Close()
			default:
				return
			}
		}
	})

	publisher := queue.NewPublisher("amqp://guest:guest@"+lis.Addr().String()+"/", logger.Discard())
	defer publisher.Close()

	flights := repository.NewFlightRepository()
	ids := idgen.New()
	service := NewBookingService(flights, repository.NewReservationRepository(), ids,
		WithClock(fixedClock),
		WithProducer(publisher, "reservations"),
	)
	flight, err := domain.NewFlight(ids.NextFlightID(), domain.MustAirportCode("WAW"), domain.MustAirportCode("FRA"), time.Now(), 10, 6)
	require.NoError(t, err)
	flights.Upsert(flight)

	start := time.Now()
	var g errgroup.Group
	for _, seat := range []domain.Seat{domain.MustSeat(1, 'A'), domain.MustSeat(1, 'B')} {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			res := service.BookSeat(ctx, BookSeatCommand{FlightID: flight.ID(), OrderID: 1, Seat: seat})
			assert.True(t, res.Success)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Less(t, time.Since(start), 2*time.Second)
	stored, _ := flights.Get(flight.ID())
	assert.Equal(t, 2, stored.BookedCount())
}
