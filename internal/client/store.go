package client

import (
	"sort"
	"sync"

	"github.com/rent-wheels/service-rental/internal/api"
)

// ListingStore is the cached view of the server's cars and bookings. It has
// exactly two sanctioned write paths: a full snapshot replace from a fetch,
// and a single-entity patch from a confirmed command. A generation counter
// orders the two so a slow fetch that raced a command can never clobber the
// newer single-entity state: snapshots are judged by when their fetch began,
// patches always win over fetches that began before them.
type ListingStore struct {
	mu       sync.Mutex
	cars     map[string]api.Car
	bookings map[string]api.Booking

	gen                 uint64
	lastCarMutation     uint64
	lastBookingMutation uint64
}

// NewListingStore creates an empty store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		cars:     make(map[string]api.Car),
		bookings: make(map[string]api.Booking),
	}
}

// BeginFetch marks the start of a fetch and returns its generation. The
// caller passes the generation back with the snapshot so the store can tell
// whether a command landed in between.
func (s *ListingStore) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// ApplyCarSnapshot replaces the car collection with a fetched snapshot.
// A snapshot whose fetch began before the latest confirmed car mutation is
// stale by definition and is discarded; the next refresh carries the
// mutation anyway. Returns whether the snapshot was applied.
func (s *ListingStore) ApplyCarSnapshot(fetchGen uint64, cars []api.Car) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fetchGen <= s.lastCarMutation {
		return false
	}
	s.cars = make(map[string]api.Car, len(cars))
	for _, c := range cars {
		s.cars[c.ID] = c
	}
	return true
}

// ApplyBookingSnapshot replaces the booking collection with a fetched
// snapshot, under the same staleness rule as ApplyCarSnapshot.
func (s *ListingStore) ApplyBookingSnapshot(fetchGen uint64, bookings []api.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fetchGen <= s.lastBookingMutation {
		return false
	}
	s.bookings = make(map[string]api.Booking, len(bookings))
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return true
}

// ApplyCar patches one car after a confirmed command, leaving the rest of
// the collection untouched.
func (s *ListingStore) ApplyCar(c api.Car) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.lastCarMutation = s.gen
	s.cars[c.ID] = c
}

// RemoveCar drops one car after a confirmed delete.
func (s *ListingStore) RemoveCar(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.lastCarMutation = s.gen
	delete(s.cars, id)
}

// ApplyBooking patches one booking after a confirmed command.
func (s *ListingStore) ApplyBooking(b api.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.lastBookingMutation = s.gen
	s.bookings[b.ID] = b
}

// Car returns the cached car with the given id.
func (s *ListingStore) Car(id string) (api.Car, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	return c, ok
}

// Cars returns a copy of the cached cars, newest first.
func (s *ListingStore) Cars() []api.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	cars := make([]api.Car, 0, len(s.cars))
	for _, c := range s.cars {
		cars = append(cars, c)
	}
	sort.Slice(cars, func(i, j int) bool {
		if !cars[i].CreatedAt.Equal(cars[j].CreatedAt) {
			return cars[i].CreatedAt.After(cars[j].CreatedAt)
		}
		return cars[i].ID < cars[j].ID
	})
	return cars
}

// Booking returns the cached booking with the given id.
func (s *ListingStore) Booking(id string) (api.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

// Bookings returns a copy of the cached bookings, newest first.
func (s *ListingStore) Bookings() []api.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := make([]api.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings
}
