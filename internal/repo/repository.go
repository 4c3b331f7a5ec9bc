package repo

import (
	"context"
	"time"

	"github.com/hamed0406/labdash/internal/domain"
)

// Ports: the aggregator writes, the presentation layer reads.
type StatusStore interface {
	// Publish replaces the group's map wholesale; it is never merged.
	Publish(ctx context.Context, g domain.Group, m domain.StatusMap, checkedAt time.Time) error
	// Snapshot returns an empty snapshot for a group never published.
	Snapshot(ctx context.Context, g domain.Group) (domain.Snapshot, error)
}

// Subscriber receives every published snapshot. cancel must be called to
// release the subscription.
type Subscriber interface {
	Subscribe() (updates <-chan domain.Snapshot, cancel func())
}
