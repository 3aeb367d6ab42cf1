package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/seatbooking/config"
	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/service/flights"
)

// Seed creates the configured flights, departing relative to now.
func Seed(ctx context.Context, svc flights.FlightUseCase, seeds []config.SeedFlight, now time.Time) ([]*domain.Flight, error) {
	created := make([]*domain.Flight, 0, len(seeds))
	for i, seed := range seeds {
		origin, err := domain.NewAirportCode(seed.Origin)
		if err != nil {
			return created, fmt.Errorf("seed flight %d: origin: %w", i, err)
		}
		destination, err := domain.NewAirportCode(seed.Destination)
		if err != nil {
			return created, fmt.Errorf("seed flight %d: destination: %w", i, err)
		}

		flight, err := svc.Create(ctx, flights.FlightInput{
			Origin:      origin,
			Destination: destination,
			Departure:   now.Add(time.Duration(seed.DepartureInHours) * time.Hour),
			Rows:        seed.Rows,
			SeatsPerRow: seed.SeatsPerRow,
		})
		if err != nil {
			return created, fmt.Errorf("seed flight %d: %w", i, err)
		}
		created = append(created, flight)
	}
	return created, nil
}
