package booking

// Status represents the current state of a booking in its lifecycle.
// A booking moves strictly forward: confirmed is the only live state and
// completed/cancelled are terminal and mutually exclusive.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[Status][]Status{
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanComplete returns true only for a live (confirmed) booking.
func (s Status) CanComplete() bool {
	return s.CanTransitionTo(StatusCompleted)
}

// CanCancel returns true only for a live (confirmed) booking.
func (s Status) CanCancel() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a wire value to a Status. Bookings written before the
// status column existed carry no status at all; those rows are live, so the
// explicit default for unknown or missing values is confirmed.
func ParseStatus(s string) Status {
	status := Status(s)
	if !status.IsValid() {
		return StatusConfirmed
	}
	return status
}

// Action is the renter's resolve command against a live booking.
type Action string

const (
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// IsValid returns true if the action is a recognized booking action.
func (a Action) IsValid() bool {
	return a == ActionComplete || a == ActionCancel
}

// TargetStatus returns the terminal status this action drives toward.
func (a Action) TargetStatus() Status {
	if a == ActionComplete {
		return StatusCompleted
	}
	return StatusCancelled
}
