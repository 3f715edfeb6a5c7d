package car

// Status is the market-facing availability of a car. The deployed wire
// contract is binary; the booking lifecycle itself lives on the Booking
// aggregate.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// IsValid returns true if the status is a recognized car status.
func (s Status) IsValid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// CanBook returns true only when a new booking may be accepted. This is the
// single rule that prevents double-booking; the server re-checks it
// atomically, the consumer uses it for advisory fast feedback.
func (s Status) CanBook() bool {
	return s == StatusAvailable
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus maps a wire value to a Status. Unknown or missing values
// deliberately default to available: the deployed listings render an absent
// carStatus as an available car, and this permissive fallback is part of the
// contract rather than an accident.
func ParseStatus(s string) Status {
	if Status(s) == StatusUnavailable {
		return StatusUnavailable
	}
	return StatusAvailable
}
