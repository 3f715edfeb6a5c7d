// Package application orchestrates the rental use cases end to end.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
	bookingDomain "github.com/rent-wheels/service-rental/internal/domain/booking"
	carDomain "github.com/rent-wheels/service-rental/internal/domain/car"
	"github.com/rent-wheels/service-rental/internal/events"
	"go.uber.org/zap"
)

const eventSource = "service-rental"

// RentalService is the application service for listings and bookings. It is
// the only component that mutates either collection; the server-side
// availability invariant is enforced here and in the repository claim.
type RentalService struct {
	cars      carDomain.Repository
	bookings  bookingDomain.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewRentalService creates a new RentalService.
func NewRentalService(
	cars carDomain.Repository,
	bookings bookingDomain.Repository,
	publisher events.Publisher,
	logger *zap.Logger,
) *RentalService {
	return &RentalService{
		cars:      cars,
		bookings:  bookings,
		publisher: publisher,
		logger:    logger,
	}
}

// ListCars returns every listing, newest first.
func (s *RentalService) ListCars(ctx context.Context) ([]api.Car, error) {
	cars, err := s.cars.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCarDTOs(cars), nil
}

// GetCar returns one listing by id.
func (s *RentalService) GetCar(ctx context.Context, id uuid.UUID) (*api.Car, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := api.FromCar(c)
	return &dto, nil
}

// AddCar lists a new car for the authenticated provider. Status is forced
// to available and provider identity comes from the token, regardless of
// what the request carried.
func (s *RentalService) AddCar(ctx context.Context, ident domain.Identity, req api.AddCarRequest) (uuid.UUID, error) {
	if ident.IsZero() {
		return uuid.Nil, domain.NewUnauthenticatedError("login required to list a car")
	}

	c, err := carDomain.NewCar(req.CarName, req.Description, req.CarType, req.Location, req.CarImgURL, req.RentPrice, ident)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.cars.Save(ctx, c); err != nil {
		return uuid.Nil, err
	}

	s.publishEvent(ctx, events.CarListed, c.ID().String(), events.CarListedEvent{
		CarID:         c.ID(),
		ProviderEmail: c.ProviderEmail(),
		CarName:       c.Name(),
		RentPrice:     c.DailyRate(),
		OccurredAt:    time.Now().UTC(),
	})

	return c.ID(), nil
}

// UpdateCar applies a partial update to an owned listing. A carStatus field
// is the owner's availability toggle: idempotent when the status already
// matches, rejected with a conflict only when forcing a booked car back to
// available.
func (s *RentalService) UpdateCar(ctx context.Context, ident domain.Identity, id uuid.UUID, req api.UpdateCarRequest) (*api.Car, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("login required")
	}

	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsOwnedBy(ident) {
		return nil, domain.NewForbiddenError("only the provider may modify this listing")
	}

	rate := -1.0
	if req.RentPrice != nil {
		if *req.RentPrice < 0 {
			return nil, domain.NewValidationError("rent price must not be negative")
		}
		rate = *req.RentPrice
	}
	c.UpdateDetails(req.CarName, req.Description, req.CarType, req.Location, req.CarImgURL, rate)

	statusChanged := false
	if req.CarStatus != "" {
		target := carDomain.Status(req.CarStatus)
		if !target.IsValid() {
			return nil, domain.NewValidationError("unknown car status: " + req.CarStatus)
		}
		if target != c.Status() {
			if target == carDomain.StatusAvailable {
				if _, err := s.bookings.FindActiveByCarID(ctx, id); err == nil {
					return nil, domain.NewConflictError("car is held by an active booking")
				}
			}
			c.SetAvailability(target)
			statusChanged = true
		}
	}

	c.IncrementVersion()
	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}

	if statusChanged {
		s.publishEvent(ctx, events.CarAvailabilityChanged, c.ID().String(), events.CarAvailabilityChangedEvent{
			CarID:      c.ID(),
			Status:     c.Status().String(),
			OccurredAt: time.Now().UTC(),
		})
	}

	dto := api.FromCar(c)
	return &dto, nil
}

// SetAvailability toggles a listing's market status directly.
func (s *RentalService) SetAvailability(ctx context.Context, ident domain.Identity, id uuid.UUID, status carDomain.Status) (*api.Car, error) {
	return s.UpdateCar(ctx, ident, id, api.UpdateCarRequest{CarStatus: status.String()})
}

// DeleteCar removes an owned listing. Listings held by an active booking
// cannot be deleted; the booking must be resolved first.
func (s *RentalService) DeleteCar(ctx context.Context, ident domain.Identity, id uuid.UUID) error {
	if ident.IsZero() {
		return domain.NewUnauthenticatedError("login required")
	}

	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsOwnedBy(ident) {
		return domain.NewForbiddenError("only the provider may remove this listing")
	}
	if _, err := s.bookings.FindActiveByCarID(ctx, id); err == nil {
		return domain.NewConflictError("car is held by an active booking")
	}

	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, events.CarDeleted, id.String(), events.CarDeletedEvent{
		CarID:         id,
		ProviderEmail: c.ProviderEmail(),
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}

// BookCar claims an available car for the authenticated renter and creates
// the confirmed booking. The claim is a single conditional write; of any
// number of concurrent calls for the same car, exactly one succeeds and the
// rest get a conflict.
func (s *RentalService) BookCar(ctx context.Context, ident domain.Identity, carID uuid.UUID) (*api.BookCarResponse, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("login required to book a car")
	}

	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !c.Status().CanBook() {
		return nil, domain.NewConflictError("car is no longer available")
	}

	claimed, err := s.cars.Claim(ctx, carID, ident.Email)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(carID, ident.Email)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, bk); err != nil {
		// The claim already went through; put the car back on the market
		// rather than stranding it without a booking row.
		claimed.Release()
		claimed.IncrementVersion()
		if relErr := s.cars.Update(ctx, claimed); relErr != nil {
			s.logger.Error("failed to release car after booking save failure",
				zap.String("car_id", carID.String()),
				zap.Error(relErr),
			)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), events.BookingCreatedEvent{
		BookingID:   bk.ID(),
		CarID:       carID,
		RenterEmail: ident.Email,
		RentPrice:   claimed.DailyRate(),
		OccurredAt:  time.Now().UTC(),
	})

	return &api.BookCarResponse{
		Car:     api.FromCar(claimed),
		Booking: api.FromBooking(bk, claimed),
	}, nil
}

// ResolveBooking completes or cancels the renter's confirmed booking. Both
// actions are terminal and release the car back to available; the history
// lives in the booking row.
func (s *RentalService) ResolveBooking(ctx context.Context, ident domain.Identity, bookingID uuid.UUID, action bookingDomain.Action) (*api.Booking, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("login required")
	}
	if !action.IsValid() {
		return nil, domain.NewValidationError("unknown booking action: " + string(action))
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsHeldBy(ident) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Resolve(action); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	// Release the car; a deleted listing leaves nothing to release.
	var released *carDomain.Car
	if c, err := s.cars.FindByID(ctx, bk.CarID()); err == nil {
		c.Release()
		c.IncrementVersion()
		if err := s.cars.Update(ctx, c); err != nil {
			s.logger.Error("failed to release car after booking resolve",
				zap.String("car_id", bk.CarID().String()),
				zap.Error(err),
			)
		} else {
			released = c
		}
	}

	eventType := events.BookingCompleted
	if action == bookingDomain.ActionCancel {
		eventType = events.BookingCancelled
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), events.BookingResolvedEvent{
		BookingID:   bk.ID(),
		CarID:       bk.CarID(),
		RenterEmail: bk.RenterEmail(),
		Status:      bk.Status().String(),
		OccurredAt:  time.Now().UTC(),
	})

	dto := api.FromBooking(bk, released)
	return &dto, nil
}

// MyBookings returns the caller's bookings with denormalized car details.
// The queried email must match the authenticated identity.
func (s *RentalService) MyBookings(ctx context.Context, ident domain.Identity, email string) ([]api.Booking, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("login required")
	}
	if email != ident.Email {
		return nil, domain.NewForbiddenError("cannot read another user's bookings")
	}

	bookings, err := s.bookings.FindByRenterEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	dtos := make([]api.Booking, len(bookings))
	for i, bk := range bookings {
		c, err := s.cars.FindByID(ctx, bk.CarID())
		if err != nil {
			c = nil // listing deleted; the booking still renders
		}
		dtos[i] = api.FromBooking(bk, c)
	}
	return dtos, nil
}

// MyListings returns the caller's own listings. The queried email must
// match the authenticated identity.
func (s *RentalService) MyListings(ctx context.Context, ident domain.Identity, email string) ([]api.Car, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("login required")
	}
	if email != ident.Email {
		return nil, domain.NewForbiddenError("cannot read another user's listings")
	}

	cars, err := s.cars.FindByProviderEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toCarDTOs(cars), nil
}

// --- Helpers ---

func toCarDTOs(cars []*carDomain.Car) []api.Car {
	dtos := make([]api.Car, len(cars))
	for i, c := range cars {
		dtos[i] = api.FromCar(c)
	}
	return dtos
}

func (s *RentalService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	ce, err := events.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.TopicRentalEvents, key, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
