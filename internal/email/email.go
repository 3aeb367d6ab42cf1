package email

import (
	"context"

	"github.com/Domenick1991/seatbooking/internal/events"
	"github.com/go-kratos/kratos/v2/log"
)

// Sender notifies the owner of an order about reservation changes.
// There is no mail transport yet; notifications are written to the log.
type Sender struct {
	log *log.Helper
}

func NewSender(logger *log.Helper) *Sender {
	return &Sender{log: logger}
}

func (s *Sender) Send(ctx context.Context, event events.ReservationEvent) error {
	s.log.WithContext(ctx).Infow(
		"msg", "send notification",
		"order_id", event.OrderID,
		"event", event.Type,
		"reservation_id", event.ReservationID,
		"flight_id", event.FlightID,
		"seat", event.Seat,
	)
	return nil
}
