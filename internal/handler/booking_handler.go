package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/application"
	"github.com/rent-wheels/service-rental/internal/domain"
	bookingDomain "github.com/rent-wheels/service-rental/internal/domain/booking"
	"github.com/rent-wheels/service-rental/internal/middleware"
	"github.com/rent-wheels/service-rental/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.RentalService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.RentalService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers the booking routes. The deployed API addresses
// both mutations by query parameter, not path segment.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, verifier *middleware.TokenVerifier) {
	authMW := middleware.Auth(verifier)

	r.PATCH("/book", authMW, h.BookCar)
	r.PATCH("/removeBooking", authMW, h.ResolveBooking)
	r.GET("/my-bookings", authMW, h.MyBookings)
}

// BookCar handles PATCH /book?id={carId}.
func (h *BookingHandler) BookCar(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	carID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.BookCar(c.Request.Context(), ident, carID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ResolveBooking handles PATCH /removeBooking?id={bookingId} with body
// {"action": "complete"|"cancel"}.
func (h *BookingHandler) ResolveBooking(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	bookingID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req api.ResolveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ResolveBooking(c.Request.Context(), ident, bookingID, bookingDomain.Action(req.Action))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// MyBookings handles GET /my-bookings?email=.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	bookings, err := h.service.MyBookings(c.Request.Context(), ident, c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bookings)
}

func errUnauthenticated() error {
	return domain.NewUnauthenticatedError("you're not logged in")
}
