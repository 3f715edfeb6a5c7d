package car

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for the car aggregate.
type Repository interface {
	// FindByID retrieves a car by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// FindAll retrieves every listing, newest first.
	FindAll(ctx context.Context) ([]*Car, error)

	// FindByProviderEmail retrieves the listings owned by a provider.
	FindByProviderEmail(ctx context.Context, email string) ([]*Car, error)

	// Save persists a new listing.
	Save(ctx context.Context, c *Car) error

	// Update persists changes to an existing listing with optimistic
	// locking; a stale version yields a conflict.
	Update(ctx context.Context, c *Car) error

	// Claim atomically transitions an available car to unavailable on
	// behalf of renterEmail and returns the updated car. A car that is not
	// available yields a conflict; the check and the write are one
	// statement, so concurrent claims cannot both succeed.
	Claim(ctx context.Context, id uuid.UUID, renterEmail string) (*Car, error)

	// Delete removes a listing.
	Delete(ctx context.Context, id uuid.UUID) error
}
