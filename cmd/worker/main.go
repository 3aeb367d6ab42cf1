package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/seatbooking/config"
	"github.com/Domenick1991/seatbooking/internal/email"
	"github.com/Domenick1991/seatbooking/internal/events"
	"github.com/Domenick1991/seatbooking/internal/kafka"
	"github.com/Domenick1991/seatbooking/internal/logger"
	"github.com/Domenick1991/seatbooking/internal/queue"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded, using process environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	l := log.NewHelper(logger.New(os.Stdout, "seatbooking-worker", cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emailSender := email.NewSender(l)
	handle := func(ctx context.Context, payload []byte) error {
		var event events.ReservationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			l.Errorf("decode event error: %v", err)
			return nil
		}
		return emailSender.Send(ctx, event)
	}

	topic := cfg.Events.ReservationsTopic
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		consumer := kafka.NewConsumer(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.GroupID, topic, l)
		defer consumer.Close()
		err = consumer.Consume(ctx, handle)
	case config.EventsDriverRabbitMQ:
		err = queue.Consume(ctx, cfg.Events.RabbitMQ.URL, topic, l, handle)
	default:
		l.Warnf("events driver %q has nothing to consume, exiting", cfg.Events.Driver)
		return
	}

	if err != nil && ctx.Err() == nil {
		l.Errorf("consumer stopped: %v", err)
		return
	}
	l.Info("worker stopped")
}
