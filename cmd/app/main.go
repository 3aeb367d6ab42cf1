package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/seatbooking/config"
	"github.com/Domenick1991/seatbooking/internal/bootstrap"
	"github.com/Domenick1991/seatbooking/internal/cache"
	"github.com/Domenick1991/seatbooking/internal/idgen"
	"github.com/Domenick1991/seatbooking/internal/logger"
	"github.com/Domenick1991/seatbooking/internal/repository"
	"github.com/Domenick1991/seatbooking/internal/service/booking"
	"github.com/Domenick1991/seatbooking/internal/service/flights"
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

	l := log.NewHelper(logger.New(os.Stdout, "seatbooking-app", cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids := idgen.New()
	flightRepo := repository.NewFlightRepository()
	reservationRepo := repository.NewReservationRepository()

	flightOpts := []flights.FlightServiceOption{flights.WithLogger(l)}
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.SearchTTL())
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			l.Warnf("redis unavailable, search cache disabled: %v", err)
		} else {
			flightOpts = append(flightOpts, flights.WithCache(redisCache))
		}
		cancel()
	}
	flightService := flights.NewFlightService(flightRepo, ids, flightOpts...)

	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(l)}
	publisher, err := bootstrap.NewEventPublisher(ctx, cfg.Events, l)
	if err != nil {
		l.Fatalf("events: %v", err)
	}
	if publisher != nil {
		defer publisher.Close()
		bookingOpts = append(bookingOpts, booking.WithProducer(publisher, cfg.Events.ReservationsTopic))
	}
	bookingService := booking.NewBookingService(flightRepo, reservationRepo, ids, bookingOpts...)

	seeded, err := bootstrap.Seed(ctx, flightService, cfg.Seed.Flights, time.Now())
	if err != nil {
		l.Fatalf("seed flights: %v", err)
	}
	for _, f := range seeded {
		l.Infof("seeded flight %d %s-%s departing %s, %d seats", f.ID(), f.Origin(), f.Destination(), f.Departure().Format(time.RFC3339), f.Capacity())
	}

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, os.Stdout, l); err != nil {
		l.Fatalf("server error: %v", err)
	}
}
