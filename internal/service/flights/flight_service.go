package flights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/logger"
	"github.com/Domenick1991/seatbooking/internal/repository"
	"github.com/go-kratos/kratos/v2/log"
)

var (
	ErrFlightNotFound    = errors.New("flight not found")
	ErrFlightHasBookings = errors.New("flight has booked seats, pass reset to replace it")
)

type FlightUseCase interface {
	Search(ctx context.Context, origin, destination domain.AirportCode) []domain.FlightSummary
	List(ctx context.Context) []domain.Flight
	GetByID(ctx context.Context, id domain.FlightID) (*domain.Flight, bool)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Replace(ctx context.Context, id domain.FlightID, input FlightInput, reset bool) (*domain.Flight, error)
}

// SearchCache caches search results per route. Implementations return nil, nil on a miss.
type SearchCache interface {
	GetSearch(ctx context.Context, origin, destination domain.AirportCode) ([]domain.FlightSummary, error)
	SetSearch(ctx context.Context, origin, destination domain.AirportCode, flights []domain.FlightSummary) error
	InvalidateSearch(ctx context.Context, origin, destination domain.AirportCode) error
}

type IDGenerator interface {
	NextFlightID() domain.FlightID
}

type FlightInput struct {
	Origin      domain.AirportCode
	Destination domain.AirportCode
	Departure   time.Time
	Rows        int
	SeatsPerRow int
}

type FlightService struct {
	repo  repository.FlightRepository
	ids   IDGenerator
	cache SearchCache
	log   *log.Helper

	// generations counts writes per route so a search that raced a write
	// does not leave its stale result in the cache.
	genMu       sync.Mutex
	generations map[route]uint64
}

type route struct {
	origin, destination domain.AirportCode
}

type FlightServiceOption func(*FlightService)

// WithCache enables the search cache. A nil cache leaves it disabled.
func WithCache(cache SearchCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithLogger(logger *log.Helper) FlightServiceOption {
	return func(s *FlightService) {
		s.log = logger
	}
}

func NewFlightService(repo repository.FlightRepository, ids IDGenerator, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, ids: ids, log: logger.Discard(), generations: make(map[route]uint64)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns flights on the route ordered by id. Cache failures fall back to the repository.
func (s *FlightService) Search(ctx context.Context, origin, destination domain.AirportCode) []domain.FlightSummary {
	if s.cache != nil {
		cached, err := s.cache.GetSearch(ctx, origin, destination)
		if err != nil {
			s.log.Warnf("search cache get %s-%s: %v", origin, destination, err)
		} else if cached != nil {
			return cached
		}
	}

	r := route{origin, destination}
	gen := s.generation(r)

	found := s.repo.Search(origin, destination)
	summaries := make([]domain.FlightSummary, 0, len(found))
	for i := range found {
		summaries = append(summaries, found[i].Summary())
	}

	if s.cache != nil && s.generation(r) == gen {
		if err := s.cache.SetSearch(ctx, origin, destination, summaries); err != nil {
			s.log.Warnf("search cache set %s-%s: %v", origin, destination, err)
		}
		// A write that landed while the entry was being stored may have
		// invalidated before our set; drop the entry again.
		if s.generation(r) != gen {
			s.dropSearch(ctx, origin, destination)
		}
	}
	return summaries
}

func (s *FlightService) List(_ context.Context) []domain.Flight {
	return s.repo.List()
}

func (s *FlightService) GetByID(_ context.Context, id domain.FlightID) (*domain.Flight, bool) {
	return s.repo.Get(id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight, err := domain.NewFlight(s.ids.NextFlightID(), input.Origin, input.Destination, input.Departure, input.Rows, input.SeatsPerRow)
	if err != nil {
		return nil, err
	}
	s.repo.Upsert(flight)
	s.invalidate(ctx, flight.Origin(), flight.Destination())

	s.log.Infof("flight %d created: %s-%s, %d seats", flight.ID(), flight.Origin(), flight.Destination(), flight.Capacity())
	return flight, nil
}

// Replace redefines an existing flight. Booked seats are only discarded when reset is true.
func (s *FlightService) Replace(ctx context.Context, id domain.FlightID, input FlightInput, reset bool) (*domain.Flight, error) {
	previous, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrFlightNotFound
	}
	flight, err := domain.NewFlight(id, input.Origin, input.Destination, input.Departure, input.Rows, input.SeatsPerRow)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Replace(flight, reset); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrFlightNotFound
		case errors.Is(err, repository.ErrHasBookings):
			return nil, ErrFlightHasBookings
		}
		return nil, fmt.Errorf("replace flight %d: %w", id, err)
	}

	s.invalidate(ctx, previous.Origin(), previous.Destination())
	if previous.Origin() != flight.Origin() || previous.Destination() != flight.Destination() {
		s.invalidate(ctx, flight.Origin(), flight.Destination())
	}
	if reset && previous.BookedCount() > 0 {
		s.log.Warnf("flight %d replaced with reset, %d booked seats dropped", id, previous.BookedCount())
	}
	return flight, nil
}

// invalidate must run after the repository write: the generation bump
// precedes the cache delete so racing searches observe it.
func (s *FlightService) invalidate(ctx context.Context, origin, destination domain.AirportCode) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	s.generations[route{origin, destination}]++
	s.genMu.Unlock()

	s.dropSearch(ctx, origin, destination)
}

func (s *FlightService) dropSearch(ctx context.Context, origin, destination domain.AirportCode) {
	if err := s.cache.InvalidateSearch(ctx, origin, destination); err != nil {
		s.log.Warnf("search cache invalidate %s-%s: %v", origin, destination, err)
	}
}

func (s *FlightService) generation(r route) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[r]
}

var _ FlightUseCase = (*FlightService)(nil)
