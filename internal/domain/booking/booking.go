package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/domain"
)

// Booking is the aggregate root for a reservation. It holds a weak
// reference to the car it reserves; the car may outlive the booking and
// vice versa.
type Booking struct {
	id          uuid.UUID
	carID       uuid.UUID
	renterEmail string
	status      Status
	resolvedAt  *time.Time

	version   int64
	createdAt time.Time
}

// NewBooking creates a confirmed booking for the given car and renter.
// Only the book command creates bookings; resolve commands mutate them.
func NewBooking(carID uuid.UUID, renterEmail string) (*Booking, error) {
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if renterEmail == "" {
		return nil, domain.NewUnauthenticatedError("renter identity is required")
	}
	return &Booking{
		id:          uuid.New(),
		carID:       carID,
		renterEmail: renterEmail,
		status:      StatusConfirmed,
		version:     1,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, carID uuid.UUID,
	renterEmail string,
	status Status,
	resolvedAt *time.Time,
	version int64,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		carID:       carID,
		renterEmail: renterEmail,
		status:      status,
		resolvedAt:  resolvedAt,
		version:     version,
		createdAt:   createdAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CarID returns the identifier of the reserved car.
func (b *Booking) CarID() uuid.UUID { return b.carID }

// RenterEmail returns the identity of the requester.
func (b *Booking) RenterEmail() string { return b.renterEmail }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// ResolvedAt returns the time the booking reached a terminal state, or nil.
func (b *Booking) ResolvedAt() *time.Time { return b.resolvedAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp, set once.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// IsHeldBy reports whether the given caller made this booking.
func (b *Booking) IsHeldBy(ident domain.Identity) bool {
	return !ident.IsZero() && b.renterEmail == ident.Email
}

// --- Behavior ---

// Complete transitions the booking from confirmed to completed.
func (b *Booking) Complete() error {
	if !b.status.CanComplete() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.resolvedAt = &now
	return nil
}

// Cancel transitions the booking from confirmed to cancelled.
func (b *Booking) Cancel() error {
	if !b.status.CanCancel() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.resolvedAt = &now
	return nil
}

// Resolve applies the given action.
func (b *Booking) Resolve(action Action) error {
	switch action {
	case ActionComplete:
		return b.Complete()
	case ActionCancel:
		return b.Cancel()
	default:
		return domain.NewValidationError("unknown booking action: " + string(action))
	}
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
