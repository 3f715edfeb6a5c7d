// Package api defines the wire representations of the rental service's REST
// surface. Field names follow the deployed JSON contract, so consumers built
// against the original API keep working unchanged.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/domain/booking"
	"github.com/rent-wheels/service-rental/internal/domain/car"
)

// Car is the wire representation of a listing.
type Car struct {
	ID            string    `json:"_id"`
	CarName       string    `json:"carName"`
	Description   string    `json:"description,omitempty"`
	CarType       string    `json:"carType,omitempty"`
	RentPrice     float64   `json:"rentPrice"`
	Location      string    `json:"location,omitempty"`
	CarImgURL     string    `json:"carImgUrl,omitempty"`
	ProviderName  string    `json:"providerName,omitempty"`
	ProviderEmail string    `json:"providerEmail"`
	CarStatus     string    `json:"carStatus"`
	BookedBy      string    `json:"bookedBy,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Booking is the wire representation of a reservation. Car fields are
// denormalized for list views; CarID is the authoritative reference.
type Booking struct {
	ID          string    `json:"_id"`
	CarID       string    `json:"carId"`
	RenterEmail string    `json:"renterEmail"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	CarName   string  `json:"carName,omitempty"`
	CarImgURL string  `json:"carImgUrl,omitempty"`
	RentPrice float64 `json:"rentPrice,omitempty"`
	Location  string  `json:"location,omitempty"`
}

// AddCarRequest is the body of POST /add-car. Provider identity and status
// are taken from the server side regardless of what the client sends.
type AddCarRequest struct {
	CarName     string  `json:"carName" binding:"required"`
	Description string  `json:"description"`
	CarType     string  `json:"carType"`
	RentPrice   float64 `json:"rentPrice"`
	Location    string  `json:"location"`
	CarImgURL   string  `json:"carImgUrl"`
	CarStatus   string  `json:"carStatus"`
}

// AddCarResponse is the body answered by POST /add-car.
type AddCarResponse struct {
	InsertedID string `json:"insertedId"`
}

// UpdateCarRequest is the body of PUT /cars/:id. Zero values leave the
// stored field unchanged; CarStatus performs the availability toggle.
type UpdateCarRequest struct {
	CarName     string   `json:"carName"`
	Description string   `json:"description"`
	CarType     string   `json:"carType"`
	RentPrice   *float64 `json:"rentPrice"`
	Location    string   `json:"location"`
	CarImgURL   string   `json:"carImgUrl"`
	CarStatus   string   `json:"carStatus"`
}

// BookCarResponse is the body answered by PATCH /book: the claimed car and
// the booking created for it.
type BookCarResponse struct {
	Car     Car     `json:"car"`
	Booking Booking `json:"booking"`
}

// ResolveBookingRequest is the body of PATCH /removeBooking.
type ResolveBookingRequest struct {
	Action string `json:"action" binding:"required"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FromCar converts a domain car to its wire form.
func FromCar(c *car.Car) Car {
	return Car{
		ID:            c.ID().String(),
		CarName:       c.Name(),
		Description:   c.Description(),
		CarType:       c.CarType(),
		RentPrice:     c.DailyRate(),
		Location:      c.Location(),
		CarImgURL:     c.ImageURL(),
		ProviderName:  c.ProviderName(),
		ProviderEmail: c.ProviderEmail(),
		CarStatus:     c.Status().String(),
		BookedBy:      c.BookedBy(),
		Rating:        c.Rating(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

// ToCar converts a wire car back to the domain form, applying the
// permissive status default for unknown values.
func ToCar(w Car) (*car.Car, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, err
	}
	return car.ReconstructCar(
		id,
		w.CarName, w.Description, w.CarType, w.Location, w.CarImgURL,
		w.RentPrice,
		car.ParseStatus(w.CarStatus),
		w.ProviderName, w.ProviderEmail, w.BookedBy,
		w.Rating,
		0,
		w.CreatedAt, w.UpdatedAt,
	), nil
}

// FromBooking converts a domain booking to its wire form. The car argument
// may be nil when the listing has been deleted.
func FromBooking(b *booking.Booking, c *car.Car) Booking {
	w := Booking{
		ID:          b.ID().String(),
		CarID:       b.CarID().String(),
		RenterEmail: b.RenterEmail(),
		Status:      b.Status().String(),
		CreatedAt:   b.CreatedAt(),
	}
	if c != nil {
		w.CarName = c.Name()
		w.CarImgURL = c.ImageURL()
		w.RentPrice = c.DailyRate()
		w.Location = c.Location()
	}
	return w
}

// ToBooking converts a wire booking back to the domain form, applying the
// confirmed default for missing status values.
func ToBooking(w Booking) (*booking.Booking, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, err
	}
	carID, err := uuid.Parse(w.CarID)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		id, carID,
		w.RenterEmail,
		booking.ParseStatus(w.Status),
		nil,
		0,
		w.CreatedAt,
	), nil
}
