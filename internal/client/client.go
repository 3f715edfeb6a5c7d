// Package client is the consumer-side core of the rental marketplace: a
// typed API client, a generation-guarded listing cache, and the booking
// command handler that keeps the two honest in the presence of concurrent
// bookings. The server is the sole arbiter of availability; everything this
// package holds is a cache that may be stale.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
	bookingDomain "github.com/rent-wheels/service-rental/internal/domain/booking"
	"go.uber.org/zap"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client talks to the rental REST API and classifies failures into the
// domain error taxonomy. It never retries; the caller re-triggers.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets the bearer-token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates a Client for the given API base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   func() string { return "" },
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCars fetches the full public listing snapshot.
func (c *Client) ListCars(ctx context.Context) ([]api.Car, error) {
	var cars []api.Car
	if err := c.do(ctx, http.MethodGet, "/all-cars", nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// GetCar fetches one listing.
func (c *Client) GetCar(ctx context.Context, id string) (*api.Car, error) {
	var car api.Car
	if err := c.do(ctx, http.MethodGet, "/car-details/"+url.PathEscape(id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// AddCar lists a new car and returns the inserted id.
func (c *Client) AddCar(ctx context.Context, req api.AddCarRequest) (string, error) {
	var resp api.AddCarResponse
	if err := c.do(ctx, http.MethodPost, "/add-car", req, &resp); err != nil {
		return "", err
	}
	return resp.InsertedID, nil
}

// UpdateCar applies a partial update (including the availability toggle).
func (c *Client) UpdateCar(ctx context.Context, id string, req api.UpdateCarRequest) (*api.Car, error) {
	var car api.Car
	if err := c.do(ctx, http.MethodPut, "/cars/"+url.PathEscape(id), req, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// DeleteCar removes a listing.
func (c *Client) DeleteCar(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cars/"+url.PathEscape(id), nil, nil)
}

// BookCar claims a car; a 409 means somebody else booked it first.
func (c *Client) BookCar(ctx context.Context, carID string) (*api.BookCarResponse, error) {
	var resp api.BookCarResponse
	path := "/book?id=" + url.QueryEscape(carID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResolveBooking completes or cancels a booking.
func (c *Client) ResolveBooking(ctx context.Context, bookingID string, action bookingDomain.Action) (*api.Booking, error) {
	var resp api.Booking
	path := "/removeBooking?id=" + url.QueryEscape(bookingID)
	body := api.ResolveBookingRequest{Action: string(action)}
	if err := c.do(ctx, http.MethodPatch, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyBookings fetches the caller's bookings.
func (c *Client) MyBookings(ctx context.Context, email string) ([]api.Booking, error) {
	var bookings []api.Booking
	path := "/my-bookings?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// MyListings fetches the caller's own listings.
func (c *Client) MyListings(ctx context.Context, email string) ([]api.Car, error) {
	var cars []api.Car
	path := "/my-listing?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// do issues one request and classifies the outcome. 401 and 403 both mean
// the credential was rejected; 404 a stale id; 409 a lost race; anything
// else non-2xx is an opaque server failure with the message forwarded.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.NewServerError("failed to encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.NewServerError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewServerError("network error, try again", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.NewServerError("failed to decode response", err)
		}
		return nil
	}

	message := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewUnauthenticatedError(messageOr(message, "you're not logged in"))
	case http.StatusNotFound:
		return domain.NewNotFoundError("resource", path)
	case http.StatusConflict:
		return domain.NewConflictError(messageOr(message, "someone beat you to it"))
	default:
		return domain.NewServerError(
			messageOr(message, "something went wrong, try again"),
			fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}
}

func readErrorMessage(body io.Reader) string {
	var er api.ErrorResponse
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return ""
	}
	return er.Message
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
