//go:build integration

package main_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
	bookingDomain "github.com/rent-wheels/service-rental/internal/domain/booking"
	"github.com/rent-wheels/service-rental/internal/events"
)

// TestBookingLifecycle_AgainstPostgresAndKafka drives a full book/complete
// cycle through the real repositories and broker: the conditional claim in
// PostgreSQL admits exactly one of the concurrent renters, and both lifecycle
// events land on rental.events.
func TestBookingLifecycle_AgainstPostgresAndKafka(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	provider := domain.Identity{Email: "provider@integration.test", Name: "Provider"}

	carID, err := stack.Service.AddCar(ctx, provider, api.AddCarRequest{
		CarName:   "Suzuki Swift",
		CarType:   "hatchback",
		RentPrice: 38,
		Location:  "Chattogram",
	})
	require.NoError(t, err)

	// Race several renters for the one car against the real database.
	const renters = 8
	results := make([]*api.BookCarResponse, renters)
	errs := make([]error, renters)
	var wg sync.WaitGroup
	for i := 0; i < renters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ident := domain.Identity{Email: fmt.Sprintf("renter%d@integration.test", i)}
			results[i], errs[i] = stack.Service.BookCar(ctx, ident, carID)
		}(i)
	}
	wg.Wait()

	winner := -1
	for i := range errs {
		if errs[i] == nil {
			require.Equal(t, -1, winner, "two renters both booked the car")
			winner = i
		} else {
			assert.True(t, domain.IsCode(errs[i], domain.CodeConflict),
				"loser %d expected a conflict, got %v", i, errs[i])
		}
	}
	require.NotEqual(t, -1, winner, "nobody booked the car")

	// The winner's claim is visible in the cars table.
	model := waitForCarStatus(t, infra.DB, carID, "unavailable", 10*time.Second)
	assert.Equal(t, results[winner].Car.BookedBy, model.BookedBy)

	// And announced on the broker.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicRentalEvents,
		events.BookingCreated, 15*time.Second)
	var created events.BookingCreatedEvent
	require.NoError(t, ce.ParseData(&created))
	assert.Equal(t, carID, created.CarID)
	assert.Equal(t, results[winner].Booking.RenterEmail, created.RenterEmail)

	// Completing the booking releases the car.
	winnerIdent := domain.Identity{Email: results[winner].Booking.RenterEmail}
	bookingID := uuid.MustParse(results[winner].Booking.ID)
	resolved, err := stack.Service.ResolveBooking(ctx, winnerIdent, bookingID, bookingDomain.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, "completed", resolved.Status)

	waitForCarStatus(t, infra.DB, carID, "available", 10*time.Second)

	ce = consumeOneEvent(t, infra.KafkaBrokers, events.TopicRentalEvents,
		events.BookingCompleted, 15*time.Second)
	var completed events.BookingResolvedEvent
	require.NoError(t, ce.ParseData(&completed))
	assert.Equal(t, bookingID, completed.BookingID)
	assert.Equal(t, "completed", completed.Status)
}
