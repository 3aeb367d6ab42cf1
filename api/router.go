package api

import (
	"io"
	"net/http"

	"github.com/Domenick1991/seatbooking/internal/service/booking"
	"github.com/Domenick1991/seatbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestIDHeader = "X-Request-ID"

// RouterConfig wires the use cases and ambient settings into the HTTP surface.
type RouterConfig struct {
	Flights    flights.FlightUseCase
	Bookings   booking.BookingUseCase
	LogWriter  io.Writer
	SwaggerDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	if cfg.LogWriter != nil {
		router.Use(gin.LoggerWithWriter(cfg.LogWriter, "/healthz"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/inventory.swagger.json"))))
	}

	v1 := router.Group("/api/v1")
	NewFlightHandler(cfg.Flights).Register(v1.Group("/flights"))

	bookings := NewBookingHandler(cfg.Bookings)
	bookings.Register(v1.Group("/bookings"))
	bookings.RegisterOrders(v1.Group("/orders"))

	return router
}

// requestID propagates an incoming X-Request-ID or issues a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
