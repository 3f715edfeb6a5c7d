package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
	bookingDomain "github.com/rent-wheels/service-rental/internal/domain/booking"
	carDomain "github.com/rent-wheels/service-rental/internal/domain/car"
	"go.uber.org/zap"
)

// ErrConfirmationDeclined is returned when the actor backs out of the
// confirm step before a resolve command is sent. Nothing was transmitted
// and nothing changed.
var ErrConfirmationDeclined = errors.New("confirmation declined")

// CommandState tracks one in-flight command against one entity.
type CommandState int

const (
	StatePending CommandState = iota + 1
	StateConfirmed
	StateRejected
)

// String returns the string representation of the state.
func (s CommandState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ConfirmFunc asks the actor to confirm a resolve action before it is sent.
type ConfirmFunc func(action bookingDomain.Action, b api.Booking) bool

// CommandHandler orchestrates the state-changing user actions end to end:
// precondition checks against the cached view, the remote call, and the
// cache patch once the outcome is known. It is the only component that
// mutates the ListingStore outside of snapshot fetches. Commands are never
// retried automatically, and the cache is only touched on confirmed
// success; every failure leaves it exactly as it was.
type CommandHandler struct {
	api    *Client
	store  *ListingStore
	logger *zap.Logger

	// Confirm, when set, gates complete/cancel the way the UI's confirm
	// dialog does. Nil means proceed.
	Confirm ConfirmFunc

	mu       sync.Mutex
	inflight map[string]bool
	states   map[string]CommandState
}

// NewCommandHandler creates a CommandHandler over the given client and store.
func NewCommandHandler(apiClient *Client, store *ListingStore, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{
		api:      apiClient,
		store:    store,
		logger:   logger,
		inflight: make(map[string]bool),
		states:   make(map[string]CommandState),
	}
}

// LastState reports the most recent command state for an entity, letting a
// view disable controls while pending.
func (h *CommandHandler) LastState(entityID string) (CommandState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.states[entityID]
	return s, ok
}

// begin marks a command pending. A second command against the same entity
// while one is pending is refused outright; the control should have been
// disabled.
func (h *CommandHandler) begin(entityID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inflight[entityID] {
		return domain.NewConflictError("a command for this entity is still pending")
	}
	h.inflight[entityID] = true
	h.states[entityID] = StatePending
	return nil
}

// finish resolves the pending command to confirmed or rejected.
func (h *CommandHandler) finish(entityID string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, entityID)
	if ok {
		h.states[entityID] = StateConfirmed
	} else {
		h.states[entityID] = StateRejected
	}
}

// Book claims the car for the given identity. The cached status is checked
// first for fast feedback, but that check is advisory only; the server
// decides, and a lost race comes back as a conflict distinct from
// network/server failures.
func (h *CommandHandler) Book(ctx context.Context, ident domain.Identity, carID string) (*api.Car, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("you must be logged in to book a car")
	}
	if cached, ok := h.store.Car(carID); ok {
		if !carDomain.ParseStatus(cached.CarStatus).CanBook() {
			return nil, domain.NewConflictError("car is no longer available")
		}
	}
	if err := h.begin(carID); err != nil {
		return nil, err
	}

	resp, err := h.api.BookCar(ctx, carID)
	if err != nil {
		h.finish(carID, false)
		return nil, err
	}

	h.store.ApplyCar(resp.Car)
	h.store.ApplyBooking(resp.Booking)
	h.finish(carID, true)

	h.logger.Info("car booked",
		zap.String("car_id", carID),
		zap.String("booking_id", resp.Booking.ID),
	)
	return &resp.Car, nil
}

// Resolve completes or cancels the identity's booking. The confirm step
// runs before anything is sent; terminal bookings are refused locally with
// the same conflict the server would answer.
func (h *CommandHandler) Resolve(ctx context.Context, ident domain.Identity, bookingID string, action bookingDomain.Action) (*api.Booking, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("you must be logged in")
	}
	if !action.IsValid() {
		return nil, domain.NewValidationError("unknown booking action: " + string(action))
	}

	cached, ok := h.store.Booking(bookingID)
	if ok && bookingDomain.ParseStatus(cached.Status).IsTerminal() {
		return nil, domain.NewConflictError("booking is already " + cached.Status)
	}
	if h.Confirm != nil && !h.Confirm(action, cached) {
		return nil, ErrConfirmationDeclined
	}

	if err := h.begin(bookingID); err != nil {
		return nil, err
	}

	resolved, err := h.api.ResolveBooking(ctx, bookingID, action)
	if err != nil {
		h.finish(bookingID, false)
		return nil, err
	}

	h.store.ApplyBooking(*resolved)
	// Both terminal outcomes put the car back on the market server-side;
	// mirror that on the cached car when we hold it.
	if c, ok := h.store.Car(resolved.CarID); ok {
		c.CarStatus = carDomain.StatusAvailable.String()
		c.BookedBy = ""
		h.store.ApplyCar(c)
	}
	h.finish(bookingID, true)

	h.logger.Info("booking resolved",
		zap.String("booking_id", bookingID),
		zap.String("action", string(action)),
	)
	return resolved, nil
}

// SetAvailability toggles an owned listing's market status. Repeating the
// same target status is a no-op success, unlike book, where a repeat is a
// conflict.
func (h *CommandHandler) SetAvailability(ctx context.Context, ident domain.Identity, carID string, status carDomain.Status) (*api.Car, error) {
	if ident.IsZero() {
		return nil, domain.NewUnauthenticatedError("you must be logged in")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("unknown car status: " + status.String())
	}
	if err := h.begin(carID); err != nil {
		return nil, err
	}

	updated, err := h.api.UpdateCar(ctx, carID, api.UpdateCarRequest{CarStatus: status.String()})
	if err != nil {
		h.finish(carID, false)
		return nil, err
	}

	h.store.ApplyCar(*updated)
	h.finish(carID, true)
	return updated, nil
}

// Delete removes an owned listing and drops it from the cache.
func (h *CommandHandler) Delete(ctx context.Context, ident domain.Identity, carID string) error {
	if ident.IsZero() {
		return domain.NewUnauthenticatedError("you must be logged in")
	}
	if err := h.begin(carID); err != nil {
		return err
	}

	if err := h.api.DeleteCar(ctx, carID); err != nil {
		h.finish(carID, false)
		return err
	}

	h.store.RemoveCar(carID)
	h.finish(carID, true)
	return nil
}
