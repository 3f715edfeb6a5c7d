package car

import (
	"time"

	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/domain"
)

// Car is the aggregate root for a rentable listing.
type Car struct {
	id            uuid.UUID
	name          string
	description   string
	carType       string
	location      string
	imageURL      string
	dailyRate     float64
	status        Status
	providerName  string
	providerEmail string
	bookedBy      string
	rating        float64

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewCar creates a new listing with status=available. Provider identity is
// set once here and never changed by renter-facing flows.
func NewCar(name, description, carType, location, imageURL string, dailyRate float64, provider domain.Identity) (*Car, error) {
	if name == "" {
		return nil, domain.NewValidationError("car name is required")
	}
	if dailyRate < 0 {
		return nil, domain.NewValidationError("rent price must not be negative")
	}
	if provider.IsZero() {
		return nil, domain.NewValidationError("provider identity is required")
	}

	now := time.Now().UTC()
	return &Car{
		id:            uuid.New(),
		name:          name,
		description:   description,
		carType:       carType,
		location:      location,
		imageURL:      imageURL,
		dailyRate:     dailyRate,
		status:        StatusAvailable,
		providerName:  provider.Name,
		providerEmail: provider.Email,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCar rebuilds a Car from persistence data (no validation).
func ReconstructCar(
	id uuid.UUID,
	name, description, carType, location, imageURL string,
	dailyRate float64,
	status Status,
	providerName, providerEmail, bookedBy string,
	rating float64,
	version int64,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:            id,
		name:          name,
		description:   description,
		carType:       carType,
		location:      location,
		imageURL:      imageURL,
		dailyRate:     dailyRate,
		status:        status,
		providerName:  providerName,
		providerEmail: providerEmail,
		bookedBy:      bookedBy,
		rating:        rating,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the car's unique identifier.
func (c *Car) ID() uuid.UUID { return c.id }

// Name returns the listing name.
func (c *Car) Name() string { return c.name }

// Description returns the free-text description.
func (c *Car) Description() string { return c.description }

// CarType returns the car type label.
func (c *Car) CarType() string { return c.carType }

// Location returns the listing location.
func (c *Car) Location() string { return c.location }

// ImageURL returns the listing image URL.
func (c *Car) ImageURL() string { return c.imageURL }

// DailyRate returns the rent price per day.
func (c *Car) DailyRate() float64 { return c.dailyRate }

// Status returns the current market status.
func (c *Car) Status() Status { return c.status }

// ProviderName returns the listing owner's display name.
func (c *Car) ProviderName() string { return c.providerName }

// ProviderEmail returns the listing owner's email.
func (c *Car) ProviderEmail() string { return c.providerEmail }

// BookedBy returns the email of the active renter, or "" when not booked.
func (c *Car) BookedBy() string { return c.bookedBy }

// Rating returns the listing rating; zero means unrated.
func (c *Car) Rating() float64 { return c.rating }

// Version returns the entity version for optimistic locking.
func (c *Car) Version() int64 { return c.version }

// CreatedAt returns the creation timestamp.
func (c *Car) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// IsOwnedBy reports whether the given caller listed this car.
func (c *Car) IsOwnedBy(ident domain.Identity) bool {
	return !ident.IsZero() && c.providerEmail == ident.Email
}

// --- Behavior ---

// MarkBooked records a successful claim by the given renter.
func (c *Car) MarkBooked(renterEmail string) error {
	if !c.status.CanBook() {
		return domain.NewConflictError("car is no longer available")
	}
	c.status = StatusUnavailable
	c.bookedBy = renterEmail
	c.updatedAt = time.Now().UTC()
	return nil
}

// Release puts the car back on the market after a booking reaches a
// terminal state.
func (c *Car) Release() {
	c.status = StatusAvailable
	c.bookedBy = ""
	c.updatedAt = time.Now().UTC()
}

// SetAvailability toggles the market status directly, independent of any
// booking. Setting the status the car already has is a no-op, not an error.
func (c *Car) SetAvailability(target Status) {
	if c.status == target {
		return
	}
	c.status = target
	if target == StatusAvailable {
		c.bookedBy = ""
	}
	c.updatedAt = time.Now().UTC()
}

// UpdateDetails applies a partial metadata update. Empty strings and
// negative rates leave the current value in place.
func (c *Car) UpdateDetails(name, description, carType, location, imageURL string, dailyRate float64) {
	if name != "" {
		c.name = name
	}
	if description != "" {
		c.description = description
	}
	if carType != "" {
		c.carType = carType
	}
	if location != "" {
		c.location = location
	}
	if imageURL != "" {
		c.imageURL = imageURL
	}
	if dailyRate >= 0 {
		c.dailyRate = dailyRate
	}
	c.updatedAt = time.Now().UTC()
}

// SetRating records a listing rating.
func (c *Car) SetRating(rating float64) {
	c.rating = rating
	c.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (c *Car) IncrementVersion() {
	c.version++
	c.updatedAt = time.Now().UTC()
}
