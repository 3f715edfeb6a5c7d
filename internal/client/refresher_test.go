package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rent-wheels/service-rental/internal/api"
)

func TestRefreshOnce_PopulatesStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.Car{{ID: "c1", CarStatus: "available", CreatedAt: time.Now()}})
	}))
	defer srv.Close()

	store := NewListingStore()
	r := NewRefresher(New(srv.URL), store, time.Minute, nil)

	applied, err := r.RefreshOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	_, ok := store.Car("c1")
	assert.True(t, ok)
}

func TestRefreshOnce_SnapshotLosesToConcurrentCommand(t *testing.T) {
	fetching := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(fetching)
		<-release
		_ = json.NewEncoder(w).Encode([]api.Car{{ID: "c1", CarStatus: "available", CreatedAt: time.Now()}})
	}))
	defer srv.Close()

	store := NewListingStore()
	r := NewRefresher(New(srv.URL), store, time.Minute, nil)

	done := make(chan bool, 1)
	go func() {
		applied, err := r.RefreshOnce(context.Background())
		assert.NoError(t, err)
		done <- applied
	}()

	<-fetching
	// A command lands mid-fetch.
	store.ApplyCar(api.Car{ID: "c1", CarStatus: "unavailable", CreatedAt: time.Now()})
	close(release)

	assert.False(t, <-done, "in-flight snapshot must lose to the command")
	c, _ := store.Car("c1")
	assert.Equal(t, "unavailable", c.CarStatus)
}

func TestRun_TriggerForcesImmediateRefresh(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode([]api.Car{})
	}))
	defer srv.Close()

	r := NewRefresher(New(srv.URL), NewListingStore(), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Trigger()
	require.Eventually(t, func() bool { return calls.Load() >= 1 },
		2*time.Second, 10*time.Millisecond, "trigger did not cause a refresh")

	cancel()
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.Car{})
	}))
	defer srv.Close()

	r := NewRefresher(New(srv.URL), NewListingStore(), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
