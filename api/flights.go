package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightRequest struct {
	Origin      string    `json:"origin" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	Departure   time.Time `json:"departure" binding:"required"`
	Rows        int       `json:"rows" binding:"required"`
	SeatsPerRow int       `json:"seats_per_row" binding:"required"`
}

type flightResponse struct {
	ID          domain.FlightID `json:"id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Departure   string          `json:"departure"`
	Rows        int             `json:"rows"`
	SeatsPerRow int             `json:"seats_per_row"`
	Capacity    int             `json:"capacity"`
	Available   int             `json:"available"`
	BookedSeats []string        `json:"booked_seats"`
}

type flightSummaryResponse struct {
	ID          domain.FlightID `json:"id"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Departure   string          `json:"departure"`
	Capacity    int             `json:"capacity"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.replace)
}

// list searches by route when origin/destination are given, otherwise lists every flight.
func (h *FlightHandler) list(c *gin.Context) {
	origin, destination := c.Query("origin"), c.Query("destination")
	if origin == "" && destination == "" {
		all := h.service.List(c.Request.Context())
		resp := make([]flightResponse, 0, len(all))
		for i := range all {
			resp = append(resp, toFlightResponse(&all[i]))
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	from, err := domain.NewAirportCode(origin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := domain.NewAirportCode(destination)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found := h.service.Search(c.Request.Context(), from, to)
	resp := make([]flightSummaryResponse, 0, len(found))
	for _, f := range found {
		resp = append(resp, flightSummaryResponse{
			ID:          f.ID,
			Origin:      f.Origin,
			Destination: f.Destination,
			Departure:   f.Departure.Format(time.RFC3339),
			Capacity:    f.Capacity,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, ok := h.service.GetByID(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": flights.ErrFlightNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	input, ok := bindFlightInput(c)
	if !ok {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

// replace redefines a flight; ?reset=true allows dropping booked seats.
func (h *FlightHandler) replace(c *gin.Context) {
	id, err := domain.ParseFlightID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	input, ok := bindFlightInput(c)
	if !ok {
		return
	}

	flight, err := h.service.Replace(c.Request.Context(), id, input, c.Query("reset") == "true")
	switch {
	case errors.Is(err, flights.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, flights.ErrFlightHasBookings):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, toFlightResponse(flight))
	}
}

func bindFlightInput(c *gin.Context) (flights.FlightInput, bool) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return flights.FlightInput{}, false
	}
	origin, err := domain.NewAirportCode(req.Origin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return flights.FlightInput{}, false
	}
	destination, err := domain.NewAirportCode(req.Destination)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return flights.FlightInput{}, false
	}
	return flights.FlightInput{
		Origin:      origin,
		Destination: destination,
		Departure:   req.Departure,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
	}, true
}

func toFlightResponse(f *domain.Flight) flightResponse {
	booked := f.BookedSeats()
	seats := make([]string, 0, len(booked))
	for _, s := range booked {
		seats = append(seats, s.String())
	}
	return flightResponse{
		ID:          f.ID(),
		Origin:      f.Origin().String(),
		Destination: f.Destination().String(),
		Departure:   f.Departure().Format(time.RFC3339),
		Rows:        f.Rows(),
		SeatsPerRow: f.SeatsPerRow(),
		Capacity:    f.Capacity(),
		Available:   f.Available(),
		BookedSeats: seats,
	}
}
