package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for the booking aggregate.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRenterEmail retrieves a renter's bookings, newest first.
	FindByRenterEmail(ctx context.Context, email string) ([]*Booking, error)

	// FindActiveByCarID retrieves the confirmed booking holding the given
	// car, or a not-found error when the car is unreserved.
	FindActiveByCarID(ctx context.Context, carID uuid.UUID) (*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic
	// locking; a stale version yields a conflict.
	Update(ctx context.Context, b *Booking) error
}
