package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/domain"
)

// EventBroadcaster fans a domain event out to every live connection in the
// owning organization's room. Delivery is best-effort and fire-and-forget:
// no acknowledgement, no retry, no persistence of undelivered events.
// Callers must only broadcast after their persistence write has committed,
// so a client that refetches on receipt always observes the new state.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}

// TenantDirectory resolves a public status-page slug to the owning
// organization's id. Used by the websocket layer when a join request
// carries a slug instead of an org id.
type TenantDirectory interface {
	ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// StatusCache caches the rendered public views per organization. Mutating
// services invalidate the owning tenant's entries after every committed
// write, mirroring the invalidate-then-refetch contract browsers follow.
type StatusCache interface {
	Get(orgID uuid.UUID, view string) (any, bool)
	Set(orgID uuid.UUID, view string, value any)
	Invalidate(orgID uuid.UUID)
}
