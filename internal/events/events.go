package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopicRentalEvents carries every lifecycle event of this service.
const TopicRentalEvents = "rental.events"

// Event types published on TopicRentalEvents.
const (
	CarListed              = "rental.car.listed"
	CarAvailabilityChanged = "rental.car.availability_changed"
	CarDeleted             = "rental.car.deleted"
	BookingCreated         = "rental.booking.created"
	BookingCompleted       = "rental.booking.completed"
	BookingCancelled       = "rental.booking.cancelled"
)

// Publisher is the outbound port the application service publishes through.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, ce CloudEvent) error
}

// CarListedEvent is published when a provider lists a new car.
type CarListedEvent struct {
	CarID         uuid.UUID `json:"car_id"`
	ProviderEmail string    `json:"provider_email"`
	CarName       string    `json:"car_name"`
	RentPrice     float64   `json:"rent_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CarAvailabilityChangedEvent is published when an owner toggles a listing.
type CarAvailabilityChangedEvent struct {
	CarID      uuid.UUID `json:"car_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CarDeletedEvent is published when an owner removes a listing.
type CarDeletedEvent struct {
	CarID         uuid.UUID `json:"car_id"`
	ProviderEmail string    `json:"provider_email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCreatedEvent is published when a renter successfully claims a car.
type BookingCreatedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CarID       uuid.UUID `json:"car_id"`
	RenterEmail string    `json:"renter_email"`
	RentPrice   float64   `json:"rent_price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingResolvedEvent is the payload for both terminal booking events.
type BookingResolvedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CarID       uuid.UUID `json:"car_id"`
	RenterEmail string    `json:"renter_email"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
