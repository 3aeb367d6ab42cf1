package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/Domenick1991/seatbooking/config"
	"github.com/Domenick1991/seatbooking/internal/kafka"
	"github.com/Domenick1991/seatbooking/internal/queue"
	"github.com/Domenick1991/seatbooking/internal/service/booking"
	"github.com/go-kratos/kratos/v2/log"
)

// EventPublisher publishes reservation events and owns a broker connection.
type EventPublisher interface {
	booking.Producer
	io.Closer
}

// NewEventPublisher picks the broker for reservation events. It returns nil for the "none" driver.
func NewEventPublisher(ctx context.Context, cfg config.EventsConfig, logger *log.Helper) (EventPublisher, error) {
	switch cfg.Driver {
	case config.EventsDriverNone, "":
		return nil, nil
	case config.EventsDriverKafka:
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err := producer.CheckConnection(ctx); err != nil {
			logger.Warnf("kafka not reachable at startup: %v", err)
		}
		return producer, nil
	case config.EventsDriverRabbitMQ:
		return queue.NewPublisher(cfg.RabbitMQ.URL, logger), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
