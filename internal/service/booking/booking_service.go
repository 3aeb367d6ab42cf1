package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/events"
	"github.com/Domenick1991/seatbooking/internal/logger"
	"github.com/Domenick1991/seatbooking/internal/repository"
	"github.com/go-kratos/kratos/v2/log"
)

// ReasonSeatUnavailable is reported when the seat cannot be booked: unknown
// flight, seat outside the flight geometry, or seat already taken.
const ReasonSeatUnavailable = "seat not available or invalid"

type BookingUseCase interface {
	BookSeat(ctx context.Context, cmd BookSeatCommand) BookSeatResult
	Cancel(ctx context.Context, id domain.ReservationID) bool
	GetReservation(ctx context.Context, id domain.ReservationID) (domain.Reservation, bool)
	ListByOrder(ctx context.Context, orderID domain.OrderID) []domain.Reservation
	NewOrder(ctx context.Context) domain.OrderID
}

type IDGenerator interface {
	NextReservationID() domain.ReservationID
	NextOrderID() domain.OrderID
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Clock is the time source for reservation timestamps.
type Clock func() time.Time

type BookSeatCommand struct {
	FlightID domain.FlightID
	OrderID  domain.OrderID
	Seat     domain.Seat
}

// BookSeatResult carries the outcome of a booking attempt. Callers must check
// Success before reading Reservation.
type BookSeatResult struct {
	Success     bool
	Reservation *domain.Reservation
	Error       string
}

type BookingService struct {
	flights      repository.FlightRepository
	reservations repository.ReservationRepository
	ids          IDGenerator
	now          Clock
	producer     Producer
	topic        string
	log          *log.Helper
}

type BookingServiceOption func(*BookingService)

func WithClock(clock Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.now = clock
	}
}

// WithProducer enables reservation events on topic.
func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(logger *log.Helper) BookingServiceOption {
	return func(s *BookingService) {
		s.log = logger
	}
}

func NewBookingService(
	flights repository.FlightRepository,
	reservations repository.ReservationRepository,
	ids IDGenerator,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		flights:      flights,
		reservations: reservations,
		ids:          ids,
		now:          time.Now,
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookSeat reserves cmd.Seat for cmd.OrderID. The seat check-and-set in the
// flight repository is the only gate; once it succeeds the reservation is
// always recorded. There is no compensation if recording were to fail.
func (s *BookingService) BookSeat(ctx context.Context, cmd BookSeatCommand) BookSeatResult {
	if !s.flights.TryBookSeat(cmd.FlightID, cmd.Seat) {
		s.log.Debugf("seat %s on flight %d unavailable for order %d", cmd.Seat, cmd.FlightID, cmd.OrderID)
		return BookSeatResult{Success: false, Error: ReasonSeatUnavailable}
	}

	reservation := domain.Reservation{
		ID:        s.ids.NextReservationID(),
		OrderID:   cmd.OrderID,
		FlightID:  cmd.FlightID,
		Seat:      cmd.Seat,
		CreatedAt: s.now(),
	}
	s.reservations.Add(reservation)

	s.log.Infof("reservation %d: flight %d seat %s order %d", reservation.ID, reservation.FlightID, reservation.Seat, reservation.OrderID)
	s.publish(ctx, events.TypeReservationCreated, reservation)
	return BookSeatResult{Success: true, Reservation: &reservation}
}

// Cancel frees the seat held by the reservation. The reservation record is
// kept and stays visible through ListByOrder.
func (s *BookingService) Cancel(ctx context.Context, id domain.ReservationID) bool {
	reservation, ok := s.reservations.Get(id)
	if !ok {
		return false
	}
	s.flights.ReleaseSeat(reservation.FlightID, reservation.Seat)

	s.log.Infof("reservation %d cancelled, seat %s on flight %d released", id, reservation.Seat, reservation.FlightID)
	s.publish(ctx, events.TypeReservationCancelled, reservation)
	return true
}

func (s *BookingService) GetReservation(_ context.Context, id domain.ReservationID) (domain.Reservation, bool) {
	return s.reservations.Get(id)
}

func (s *BookingService) ListByOrder(_ context.Context, orderID domain.OrderID) []domain.Reservation {
	return s.reservations.ListByOrder(orderID)
}

func (s *BookingService) NewOrder(_ context.Context) domain.OrderID {
	return s.ids.NextOrderID()
}

// publish never affects the booking outcome; failures are only logged.
func (s *BookingService) publish(ctx context.Context, eventType string, reservation domain.Reservation) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := events.NewReservationEvent(eventType, reservation, s.now())
	if err := s.producer.Publish(ctx, s.topic, event.Key(), event); err != nil {
		s.log.Warnf("failed to publish %s event for reservation %d: %v", eventType, reservation.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
