package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rent-wheels/service-rental/internal/domain"
)

func newTestCar(t *testing.T) *Car {
	t.Helper()
	c, err := NewCar("Tesla Model 3", "long range", "sedan", "Dhaka", "https://img.test/m3.jpg", 99,
		domain.Identity{Email: "owner@test.dev", Name: "Owner"})
	require.NoError(t, err)
	return c
}

func TestNewCar_StartsAvailable(t *testing.T) {
	c := newTestCar(t)

	assert.Equal(t, StatusAvailable, c.Status())
	assert.Empty(t, c.BookedBy())
	assert.Equal(t, "owner@test.dev", c.ProviderEmail())
	assert.Equal(t, int64(1), c.Version())
}

func TestNewCar_Validation(t *testing.T) {
	owner := domain.Identity{Email: "owner@test.dev"}

	_, err := NewCar("", "", "", "", "", 50, owner)
	assert.True(t, domain.IsCode(err, domain.CodeValidation), "empty name must be rejected")

	_, err = NewCar("Civic", "", "", "", "", -1, owner)
	assert.True(t, domain.IsCode(err, domain.CodeValidation), "negative rate must be rejected")

	_, err = NewCar("Civic", "", "", "", "", 50, domain.Identity{})
	assert.True(t, domain.IsCode(err, domain.CodeValidation), "anonymous provider must be rejected")
}

func TestMarkBooked_OnlyWhenAvailable(t *testing.T) {
	c := newTestCar(t)

	require.NoError(t, c.MarkBooked("renter@test.dev"))
	assert.Equal(t, StatusUnavailable, c.Status())
	assert.Equal(t, "renter@test.dev", c.BookedBy())

	err := c.MarkBooked("other@test.dev")
	assert.True(t, domain.IsCode(err, domain.CodeConflict))
	assert.Equal(t, "renter@test.dev", c.BookedBy(), "losing claim must not overwrite the renter")
}

func TestRelease_ReturnsCarToMarket(t *testing.T) {
	c := newTestCar(t)
	require.NoError(t, c.MarkBooked("renter@test.dev"))

	c.Release()

	assert.Equal(t, StatusAvailable, c.Status())
	assert.Empty(t, c.BookedBy())
}

func TestSetAvailability_IdempotentAndClearsRenter(t *testing.T) {
	c := newTestCar(t)

	c.SetAvailability(StatusAvailable) // already available, no-op
	assert.Equal(t, StatusAvailable, c.Status())

	c.SetAvailability(StatusUnavailable)
	assert.Equal(t, StatusUnavailable, c.Status())

	c.bookedBy = "renter@test.dev"
	c.SetAvailability(StatusAvailable)
	assert.Empty(t, c.BookedBy(), "going available clears the renter")
}

func TestUpdateDetails_ZeroValuesKeepCurrent(t *testing.T) {
	c := newTestCar(t)

	c.UpdateDetails("", "", "", "", "", -1)
	assert.Equal(t, "Tesla Model 3", c.Name())
	assert.Equal(t, 99.0, c.DailyRate())

	c.UpdateDetails("Tesla Model Y", "", "", "", "", 120)
	assert.Equal(t, "Tesla Model Y", c.Name())
	assert.Equal(t, 120.0, c.DailyRate())
	assert.Equal(t, "sedan", c.CarType(), "unset fields stay")
}

func TestIsOwnedBy(t *testing.T) {
	c := newTestCar(t)

	assert.True(t, c.IsOwnedBy(domain.Identity{Email: "owner@test.dev"}))
	assert.False(t, c.IsOwnedBy(domain.Identity{Email: "renter@test.dev"}))
	assert.False(t, c.IsOwnedBy(domain.Identity{}), "anonymous caller owns nothing")
}

func TestStatus_CanBook(t *testing.T) {
	assert.True(t, StatusAvailable.CanBook())
	assert.False(t, StatusUnavailable.CanBook())
}

func TestParseStatus_DefaultsToAvailable(t *testing.T) {
	assert.Equal(t, StatusUnavailable, ParseStatus("unavailable"))
	assert.Equal(t, StatusAvailable, ParseStatus("available"))
	assert.Equal(t, StatusAvailable, ParseStatus(""), "missing status renders as available")
	assert.Equal(t, StatusAvailable, ParseStatus("Booked"), "unknown status renders as available")
}
