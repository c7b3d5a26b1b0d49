package memberstore

import (
	"context"

	"github.com/davidllorente/haproxygen/internal/model"
)

// Store is the exported-member substrate. Declaring the same member twice
// is an update, not an error; members are keyed by their globally unique
// fragment name. Retries and backoff, if any, belong to the
// implementation, never to the caller.
type Store interface {
	// Declare publishes one member into the store. runID records which
	// assembly or declare run produced the entry, for provenance only.
	Declare(ctx context.Context, runID string, m *model.Member) error

	// CollectFor returns every member declared for the given section,
	// ordered by fragment name. An empty result is a valid answer, not an
	// error.
	CollectFor(ctx context.Context, section string) ([]*model.Member, error)

	// All returns every declared member, ordered by fragment name.
	All(ctx context.Context) ([]*model.Member, error)

	Close() error
}
