package repository

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFlight(t *testing.T, id domain.FlightID, from, to string, rows, seatsPerRow int) *domain.Flight {
	t.Helper()
	f, err := domain.NewFlight(id, domain.MustAirportCode(from), domain.MustAirportCode(to), time.Now().Add(6*time.Hour), rows, seatsPerRow)
	require.NoError(t, err)
	return f
}

func TestNewFlightRepository(t *testing.T) {
	repo := NewFlightRepository()
	assert.NotNil(t, repo)
	assert.Empty(t, repo.List())
}

func TestFlightRepository_GetReturnsSnapshot(t *testing.T) {
	repo := NewFlightRepository()
	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))

	got, ok := repo.Get(1)
	require.True(t, ok)
	require.NoError(t, got.BookSeat(domain.MustSeat(1, 'A')))

	again, ok := repo.Get(1)
	require.True(t, ok)
	assert.False(t, again.IsBooked(domain.MustSeat(1, 'A')))

	_, ok = repo.Get(2)
	assert.False(t, ok)
}

func TestFlightRepository_UpsertCopiesInput(t *testing.T) {
	repo := NewFlightRepository()
	f := mustFlight(t, 1, "WAW", "FRA", 10, 6)
	repo.Upsert(f)

	require.NoError(t, f.BookSeat(domain.MustSeat(2, 'B')))

	stored, _ := repo.Get(1)
	assert.False(t, stored.IsBooked(domain.MustSeat(2, 'B')))
}

func TestFlightRepository_UpsertReplaces(t *testing.T) {
	repo := NewFlightRepository()
	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))
	require.True(t, repo.TryBookSeat(1, domain.MustSeat(1, 'A')))

	repo.Upsert(mustFlight(t, 1, "WAW", "CDG", 20, 4))

	got, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, "CDG", got.Destination().String())
	assert.Equal(t, 80, got.Capacity())
	assert.Zero(t, got.BookedCount())
}

func TestFlightRepository_SearchOrderedByID(t *testing.T) {
	repo := NewFlightRepository()
	for _, id := range []domain.FlightID{9, 3, 7, 1, 5} {
		repo.Upsert(mustFlight(t, id, "WAW", "FRA", 10, 6))
	}
	repo.Upsert(mustFlight(t, 4, "WAW", "CDG", 10, 6))
	repo.Upsert(mustFlight(t, 2, "FRA", "WAW", 10, 6))

	for i := 0; i < 5; i++ {
		found := repo.Search(domain.MustAirportCode("waw"), domain.MustAirportCode("FRA"))
		ids := make([]domain.FlightID, 0, len(found))
		for _, f := range found {
			ids = append(ids, f.ID())
		}
		assert.Equal(t, []domain.FlightID{1, 3, 5, 7, 9}, ids)
	}

	assert.Empty(t, repo.Search(domain.MustAirportCode("CDG"), domain.MustAirportCode("WAW")))
}

func TestFlightRepository_TryBookSeat(t *testing.T) {
	repo := NewFlightRepository()
	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))

	assert.True(t, repo.TryBookSeat(1, domain.MustSeat(1, 'A')))
	assert.False(t, repo.TryBookSeat(1, domain.MustSeat(1, 'A')), "already booked")
	assert.False(t, repo.TryBookSeat(1, domain.MustSeat(11, 'A')), "row out of range")
	assert.False(t, repo.TryBookSeat(1, domain.MustSeat(1, 'G')), "letter out of range")
	assert.False(t, repo.TryBookSeat(99, domain.MustSeat(1, 'A')), "unknown flight")

	f, _ := repo.Get(1)
	assert.Equal(t, []domain.Seat{domain.MustSeat(1, 'A')}, f.BookedSeats())
}

func TestFlightRepository_ReleaseSeatIdempotent(t *testing.T) {
	repo := NewFlightRepository()
	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))
	seat := domain.MustSeat(4, 'D')

	repo.ReleaseSeat(1, seat)
	repo.ReleaseSeat(42, seat)

	require.True(t, repo.TryBookSeat(1, seat))
	repo.ReleaseSeat(1, seat)
	repo.ReleaseSeat(1, seat)

	assert.True(t, repo.TryBookSeat(1, seat))
}

func TestFlightRepository_TryBookSeat_MutualExclusion(t *testing.T) {
	for _, racers := range []int{2, 16, 128} {
		repo := NewFlightRepository()
		repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))
		seat := domain.MustSeat(1, 'A')

		var (
			wins  atomic.Int32
			start = make(chan struct{})
			wg    sync.WaitGroup
		)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if repo.TryBookSeat(1, seat) {
					wins.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load(), "racers=%d", racers)
	}
}

func TestFlightRepository_ConcurrentReadersAndWriters(t *testing.T) {
	repo := NewFlightRepository()
	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))
	repo.Upsert(mustFlight(t, 2, "WAW", "FRA", 10, 6))

	var wg sync.WaitGroup
	for row := 1; row <= 10; row++ {
		for _, letter := range "ABCDEF" {
			seat := domain.MustSeat(row, letter)
			wg.Add(2)
			go func() {
				defer wg.Done()
				repo.TryBookSeat(1, seat)
				repo.ReleaseSeat(1, seat)
				repo.TryBookSeat(1, seat)
			}()
			go func() {
				defer wg.Done()
				for _, f := range repo.Search(domain.MustAirportCode("WAW"), domain.MustAirportCode("FRA")) {
					for _, s := range f.BookedSeats() {
						assert.True(t, f.IsSeatValid(s))
					}
				}
			}()
		}
	}
	wg.Wait()

	f, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, 60, f.BookedCount())
	assert.Zero(t, f.Available())
}

func TestFlightRepository_Replace(t *testing.T) {
	repo := NewFlightRepository()

	err := repo.Replace(mustFlight(t, 1, "WAW", "FRA", 10, 6), false)
	assert.ErrorIs(t, err, ErrNotFound)

	repo.Upsert(mustFlight(t, 1, "WAW", "FRA", 10, 6))
	require.NoError(t, repo.Replace(mustFlight(t, 1, "WAW", "FRA", 12, 6), false))

	require.True(t, repo.TryBookSeat(1, domain.MustSeat(12, 'F')))
	err = repo.Replace(mustFlight(t, 1, "WAW", "FRA", 10, 6), false)
	assert.ErrorIs(t, err, ErrHasBookings)

	f, _ := repo.Get(1)
	assert.Equal(t, 12, f.Rows())
	assert.True(t, f.IsBooked(domain.MustSeat(12, 'F')))

	require.NoError(t, repo.Replace(mustFlight(t, 1, "WAW", "FRA", 10, 6), true))
	f, _ = repo.Get(1)
	assert.Equal(t, 10, f.Rows())
	assert.Zero(t, f.BookedCount())
}
