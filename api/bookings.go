package api

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// createBookingRequest accepts the seat either as "12A" or as row + letter.
type createBookingRequest struct {
	FlightID int64  `json:"flight_id" binding:"required"`
	OrderID  int64  `json:"order_id" binding:"required"`
	Seat     string `json:"seat"`
	Row      int    `json:"row"`
	Letter   string `json:"letter"`
}

type reservationResponse struct {
	ID        domain.ReservationID `json:"id"`
	OrderID   domain.OrderID       `json:"order_id"`
	FlightID  domain.FlightID      `json:"flight_id"`
	Seat      string               `json:"seat"`
	CreatedAt string               `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

// RegisterOrders mounts the order routes: issuing ids and listing reservations.
func (h *BookingHandler) RegisterOrders(router *gin.RouterGroup) {
	router.POST("", h.newOrder)
	router.GET("/:id/reservations", h.listByOrder)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FlightID <= 0 || req.OrderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flight_id and order_id must be positive"})
		return
	}
	seat, err := req.seat()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.BookSeat(c.Request.Context(), booking.BookSeatCommand{
		FlightID: domain.FlightID(req.FlightID),
		OrderID:  domain.OrderID(req.OrderID),
		Seat:     seat,
	})
	if !result.Success {
		c.JSON(http.StatusConflict, gin.H{"error": result.Error})
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(*result.Reservation))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := domain.ParseReservationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	reservation, ok := h.service.GetReservation(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := domain.ParseReservationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if !h.service.Cancel(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation_id": id, "cancelled": true})
}

func (h *BookingHandler) newOrder(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"order_id": h.service.NewOrder(c.Request.Context())})
}

func (h *BookingHandler) listByOrder(c *gin.Context) {
	id, err := domain.ParseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	list := h.service.ListByOrder(c.Request.Context(), id)
	slices.SortFunc(list, func(a, b domain.Reservation) int { return cmp.Compare(a.ID, b.ID) })

	resp := make([]reservationResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, toReservationResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (r createBookingRequest) seat() (domain.Seat, error) {
	if r.Seat != "" {
		return domain.ParseSeat(r.Seat)
	}
	letter := []rune(r.Letter)
	if len(letter) != 1 {
		return domain.NewSeat(r.Row, 0)
	}
	return domain.NewSeat(r.Row, letter[0])
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        r.ID,
		OrderID:   r.OrderID,
		FlightID:  r.FlightID,
		Seat:      r.Seat.String(),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
