package statusclient

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// QueryFamily names a group of queries that go stale together.
type QueryFamily string

const (
	FamilyServices    QueryFamily = "services"
	FamilyIncidents   QueryFamily = "incidents"
	FamilyMaintenance QueryFamily = "maintenance"
	FamilyStatus      QueryFamily = "status"
)

// familiesFor maps an event kind to the query families it invalidates.
// Service changes also touch the computed overall status.
func familiesFor(eventType string) []QueryFamily {
	switch {
	case strings.HasPrefix(eventType, "service:"):
		return []QueryFamily{FamilyServices, FamilyStatus}
	case strings.HasPrefix(eventType, "incident:"):
		return []QueryFamily{FamilyIncidents}
	case strings.HasPrefix(eventType, "maintenance:"):
		return []QueryFamily{FamilyMaintenance}
	}
	return nil
}

// RefetchFunc reloads one query family from the server.
type RefetchFunc func(ctx context.Context) error

// defaultPollInterval keeps every family fresh even if no event is ever
// delivered; the feed is best-effort and polling is the correctness floor.
const defaultPollInterval = 60 * time.Second

// Reconciler turns events into refetches. It never merges event payloads
// into cached state: an event only marks its families stale, and the
// registered refetch func asks the server for ground truth. Duplicate or
// out-of-order events therefore cannot corrupt anything; at worst they
// cost an extra round trip.
type Reconciler struct {
	mu           sync.Mutex
	families     map[QueryFamily]*familyWorker
	pollInterval time.Duration
	logger       *slog.Logger
	started      bool
}

type familyWorker struct {
	refetch RefetchFunc
	// kick has capacity 1: any number of stale marks while a refetch is
	// in flight collapse into a single follow-up cycle.
	kick chan struct{}
}

// NewReconciler creates a reconciler. A zero pollInterval uses the default.
func NewReconciler(pollInterval time.Duration, logger *slog.Logger) *Reconciler {
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		families:     make(map[QueryFamily]*familyWorker),
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Register binds a refetch func to a family. Must be called before Run.
func (r *Reconciler) Register(family QueryFamily, fn RefetchFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[family] = &familyWorker{
		refetch: fn,
		kick:    make(chan struct{}, 1),
	}
}

// HandleEvent marks the event's families stale and triggers their refetch.
// Safe to call from the client's OnEvent callback.
func (r *Reconciler) HandleEvent(event Event) {
	for _, family := range familiesFor(event.Type) {
		r.MarkStale(family)
	}
}

// MarkStale requests a refetch for one family. Marks coalesce: however
// many arrive before the worker picks one up, a single cycle runs.
func (r *Reconciler) MarkStale(family QueryFamily) {
	r.mu.Lock()
	worker, ok := r.families[family]
	r.mu.Unlock()
	if !ok {
		return
	}

	select {
	case worker.kick <- struct{}{}:
	default:
	}
}

// Run starts one worker per registered family and blocks until the
// context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	workers := make(map[QueryFamily]*familyWorker, len(r.families))
	for family, worker := range r.families {
		workers[family] = worker
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for family, worker := range workers {
		wg.Add(1)
		go func(family QueryFamily, worker *familyWorker) {
			defer wg.Done()
			r.runWorker(ctx, family, worker)
		}(family, worker)
	}
	wg.Wait()
}

func (r *Reconciler) runWorker(ctx context.Context, family QueryFamily, worker *familyWorker) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-worker.kick:
		case <-ticker.C:
		}

		if err := worker.refetch(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("refetch failed", "family", string(family), "error", err)
		}
	}
}
