package inventory_service_api

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/Domenick1991/seatbooking/internal/service/booking"
	"github.com/Domenick1991/seatbooking/internal/service/flights"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "seatbooking.v1.InventoryService"

// InventoryServer is the handler type of the inventory service. Requests and
// responses are google.protobuf.Struct documents.
type InventoryServer interface {
	SearchFlights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	BookSeat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CancelReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListReservations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchFlights", Handler: unary("SearchFlights", InventoryServer.SearchFlights)},
		{MethodName: "GetFlight", Handler: unary("GetFlight", InventoryServer.GetFlight)},
		{MethodName: "CreateOrder", Handler: unary("CreateOrder", InventoryServer.CreateOrder)},
		{MethodName: "BookSeat", Handler: unary("BookSeat", InventoryServer.BookSeat)},
		{MethodName: "CancelReservation", Handler: unary("CancelReservation", InventoryServer.CancelReservation)},
		{MethodName: "ListReservations", Handler: unary("ListReservations", InventoryServer.ListReservations)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "seatbooking/v1/inventory.proto",
}

func RegisterInventoryServer(r grpc.ServiceRegistrar, srv InventoryServer) {
	r.RegisterService(&ServiceDesc, srv)
}

func unary(method string, call func(InventoryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InventoryServer), ctx, req.(*structpb.Struct))
		})
	}
}

// Server implements InventoryServer on top of the flight and booking use cases.
type Server struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
}

func NewServer(flights flights.FlightUseCase, bookings booking.BookingUseCase) *Server {
	return &Server{flights: flights, bookings: bookings}
}

func (s *Server) SearchFlights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	origin, err := airportField(req, "origin")
	if err != nil {
		return nil, err
	}
	destination, err := airportField(req, "destination")
	if err != nil {
		return nil, err
	}

	found := s.flights.Search(ctx, origin, destination)
	list := make([]interface{}, 0, len(found))
	for _, f := range found {
		list = append(list, map[string]interface{}{
			"id":          int64(f.ID),
			"origin":      f.Origin,
			"destination": f.Destination,
			"departure":   f.Departure.Format(time.RFC3339),
			"capacity":    f.Capacity,
		})
	}
	return newStruct(map[string]interface{}{"flights": list})
}

func (s *Server) GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "id")
	if err != nil {
		return nil, err
	}
	flight, ok := s.flights.GetByID(ctx, domain.FlightID(id))
	if !ok {
		return nil, status.Errorf(codes.NotFound, "flight %d not found", id)
	}

	booked := make([]interface{}, 0, flight.BookedCount())
	for _, seat := range flight.BookedSeats() {
		booked = append(booked, seat.String())
	}
	return newStruct(map[string]interface{}{
		"id":            int64(flight.ID()),
		"origin":        flight.Origin().String(),
		"destination":   flight.Destination().String(),
		"departure":     flight.Departure().Format(time.RFC3339),
		"rows":          flight.Rows(),
		"seats_per_row": flight.SeatsPerRow(),
		"capacity":      flight.Capacity(),
		"available":     flight.Available(),
		"booked_seats":  booked,
	})
}

func (s *Server) CreateOrder(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{"order_id": int64(s.bookings.NewOrder(ctx))})
}

func (s *Server) BookSeat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	flightID, err := idField(req, "flight_id")
	if err != nil {
		return nil, err
	}
	orderID, err := idField(req, "order_id")
	if err != nil {
		return nil, err
	}
	seat, err := domain.ParseSeat(req.GetFields()["seat"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result := s.bookings.BookSeat(ctx, booking.BookSeatCommand{
		FlightID: domain.FlightID(flightID),
		OrderID:  domain.OrderID(orderID),
		Seat:     seat,
	})
	if !result.Success {
		return nil, status.Error(codes.FailedPrecondition, result.Error)
	}
	return newStruct(reservationFields(*result.Reservation))
}

func (s *Server) CancelReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "id")
	if err != nil {
		return nil, err
	}
	if !s.bookings.Cancel(ctx, domain.ReservationID(id)) {
		return nil, status.Errorf(codes.NotFound, "reservation %d not found", id)
	}
	return newStruct(map[string]interface{}{"reservation_id": id, "cancelled": true})
}

func (s *Server) ListReservations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	orderID, err := idField(req, "order_id")
	if err != nil {
		return nil, err
	}
	found := s.bookings.ListByOrder(ctx, domain.OrderID(orderID))
	slices.SortFunc(found, func(a, b domain.Reservation) int { return cmp.Compare(a.ID, b.ID) })

	list := make([]interface{}, 0, len(found))
	for _, r := range found {
		list = append(list, reservationFields(r))
	}
	return newStruct(map[string]interface{}{"reservations": list})
}

func reservationFields(r domain.Reservation) map[string]interface{} {
	return map[string]interface{}{
		"id":         int64(r.ID),
		"order_id":   int64(r.OrderID),
		"flight_id":  int64(r.FlightID),
		"seat":       r.Seat.String(),
		"created_at": r.CreatedAt.Format(time.RFC3339),
	}
}

// idField reads a positive integer field; Struct numbers arrive as float64.
func idField(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	n := v.GetNumberValue()
	if n < 1 || n != float64(int64(n)) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a positive integer", name)
	}
	return int64(n), nil
}

func airportField(req *structpb.Struct, name string) (domain.AirportCode, error) {
	code, err := domain.NewAirportCode(req.GetFields()[name].GetStringValue())
	if err != nil {
		return domain.AirportCode{}, status.Errorf(codes.InvalidArgument, "%s: %v", name, err)
	}
	return code, nil
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
