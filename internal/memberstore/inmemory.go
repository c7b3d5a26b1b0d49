package memberstore

import (
	"context"
	"sort"
	"sync"

	"github.com/davidllorente/haproxygen/internal/model"
)

// InMemory implements Store with a mutex-guarded map. It is the store of
// runs that have no shared substrate configured: collection sees only what
// the current process declared, which makes an unconfigured collect a
// clean no-op.
type InMemory struct {
	mu      sync.RWMutex
	members map[string]*model.Member // key: fragment name
}

// NewInMemory creates an empty in-memory member store.
func NewInMemory() *InMemory {
	return &InMemory{members: make(map[string]*model.Member)}
}

// Declare publishes the member, replacing any prior declaration under the
// same fragment name. The store keeps its own copy so later mutation of
// the caller's value never leaks in.
func (s *InMemory) Declare(ctx context.Context, runID string, m *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.FragmentName()] = cloneMember(m)
	return nil
}

// CollectFor returns the members declared for section, ordered by
// fragment name.
func (s *InMemory) CollectFor(ctx context.Context, section string) ([]*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Member
	for _, m := range s.members {
		if m.Section == section {
			out = append(out, cloneMember(m))
		}
	}
	sortMembers(out)
	return out, nil
}

// All returns every declared member, ordered by fragment name.
func (s *InMemory) All(ctx context.Context) ([]*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, cloneMember(m))
	}
	sortMembers(out)
	return out, nil
}

// Close is a no-op; the in-memory store holds no external resources.
func (s *InMemory) Close() error {
	return nil
}

func sortMembers(members []*model.Member) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].FragmentName() < members[j].FragmentName()
	})
}

func cloneMember(m *model.Member) *model.Member {
	clone := *m
	clone.ServerNames = append([]string(nil), m.ServerNames...)
	clone.Addresses = append([]string(nil), m.Addresses...)
	clone.Options = append([]string(nil), m.Options...)
	return &clone
}
