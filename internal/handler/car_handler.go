// Package handler exposes the rental service over its deployed REST surface.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/application"
	"github.com/rent-wheels/service-rental/internal/middleware"
	"github.com/rent-wheels/service-rental/internal/response"
)

// CarHandler handles HTTP requests for listing operations.
type CarHandler struct {
	service *application.RentalService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.RentalService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers the listing routes. Path names match the
// deployed API, including the /cars alias the home page uses.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, verifier *middleware.TokenVerifier) {
	authMW := middleware.Auth(verifier)

	r.GET("/all-cars", h.ListCars)
	r.GET("/cars", h.ListCars)
	r.GET("/car-details/:id", authMW, h.GetCar)
	r.POST("/add-car", authMW, h.AddCar)
	r.PUT("/cars/:id", authMW, h.UpdateCar)
	r.DELETE("/cars/:id", authMW, h.DeleteCar)
	r.GET("/my-listing", authMW, h.MyListings)
}

// ListCars handles GET /all-cars and GET /cars.
func (h *CarHandler) ListCars(c *gin.Context) {
	cars, err := h.service.ListCars(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cars)
}

// GetCar handles GET /car-details/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddCar handles POST /add-car.
func (h *CarHandler) AddCar(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	var req api.AddCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := h.service.AddCar(c.Request.Context(), ident, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, api.AddCarResponse{InsertedID: id.String()})
}

// UpdateCar handles PUT /cars/:id, including the availability toggle.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req api.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), ident, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteCar handles DELETE /cars/:id.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), ident, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// MyListings handles GET /my-listing?email=.
func (h *CarHandler) MyListings(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, errUnauthenticated())
		return
	}

	cars, err := h.service.MyListings(c.Request.Context(), ident, c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cars)
}
