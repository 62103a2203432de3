package statusclient

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamiliesFor(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		want      []QueryFamily
	}{
		{"service events touch services and status", "service:status_changed", []QueryFamily{FamilyServices, FamilyStatus}},
		{"service delete too", "service:deleted", []QueryFamily{FamilyServices, FamilyStatus}},
		{"incident events touch incidents", "incident:resolved", []QueryFamily{FamilyIncidents}},
		{"maintenance events touch maintenance", "maintenance:created", []QueryFamily{FamilyMaintenance}},
		{"unknown kinds touch nothing", "server:restarted", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, familiesFor(tt.eventType))
		})
	}
}

func TestReconciler_DuplicateMarksCoalesce(t *testing.T) {
	var calls atomic.Int64
	done := make(chan struct{}, 8)

	// A huge poll interval keeps the ticker out of this test.
	r := NewReconciler(time.Hour, nil)
	r.Register(FamilyIncidents, func(ctx context.Context) error {
		calls.Add(1)
		done <- struct{}{}
		return nil
	})

	// Several stale marks land before the worker starts: they must
	// collapse into one queued cycle.
	for i := 0; i < 5; i++ {
		r.MarkStale(FamilyIncidents)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	defer cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refetch never ran")
	}

	// Give a second cycle a chance to (wrongly) run.
	select {
	case <-done:
		t.Fatal("duplicate marks caused more than one refetch cycle")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, int64(1), calls.Load())
}

func TestReconciler_EventRoutesToFamilies(t *testing.T) {
	services := make(chan struct{}, 1)
	status := make(chan struct{}, 1)
	incidents := make(chan struct{}, 1)

	r := NewReconciler(time.Hour, nil)
	r.Register(FamilyServices, func(ctx context.Context) error {
		services <- struct{}{}
		return nil
	})
	r.Register(FamilyStatus, func(ctx context.Context) error {
		status <- struct{}{}
		return nil
	})
	r.Register(FamilyIncidents, func(ctx context.Context) error {
		incidents <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	defer cancel()

	r.HandleEvent(Event{Type: "service:updated"})

	for _, ch := range []chan struct{}{services, status} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("expected family was not refetched")
		}
	}

	select {
	case <-incidents:
		t.Fatal("incident family refetched for a service event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReconciler_PollsWithoutEvents(t *testing.T) {
	refetched := make(chan struct{}, 8)

	r := NewReconciler(10*time.Millisecond, nil)
	r.Register(FamilyStatus, func(ctx context.Context) error {
		refetched <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	defer cancel()

	select {
	case <-refetched:
	case <-time.After(time.Second):
		t.Fatal("poll interval never triggered a refetch")
	}
}

func TestReconciler_MarkStaleForUnknownFamilyIsNoOp(t *testing.T) {
	r := NewReconciler(time.Hour, nil)
	require.NotPanics(t, func() {
		r.MarkStale(FamilyServices)
		r.HandleEvent(Event{Type: "service:created"})
	})
}
