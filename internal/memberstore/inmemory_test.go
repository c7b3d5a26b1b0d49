package memberstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidllorente/haproxygen/internal/model"
)

func newMember(section, name, address string) *model.Member {
	return &model.Member{
		Section:     section,
		Name:        name,
		ServerNames: []string{name},
		Addresses:   []string{address},
		Port:        "8080",
		Options:     []string{"check"},
		Instance:    model.DefaultInstance,
	}
}

func TestInMemory_DeclareAndCollect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Declare(ctx, "run-1", newMember("api", "app02", "10.0.0.12")))
	require.NoError(t, store.Declare(ctx, "run-1", newMember("api", "app01", "10.0.0.11")))
	require.NoError(t, store.Declare(ctx, "run-1", newMember("web", "web01", "10.0.0.21")))

	collected, err := store.CollectFor(ctx, "api")
	require.NoError(t, err)
	require.Len(t, collected, 2)
	assert.Equal(t, "app01", collected[0].Name)
	assert.Equal(t, "app02", collected[1].Name)
}

func TestInMemory_CollectUnknownSectionIsEmpty(t *testing.T) {
	t.Parallel()
	store := NewInMemory()

	collected, err := store.CollectFor(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, collected)
}

func TestInMemory_RedeclareReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Declare(ctx, "run-1", newMember("api", "app01", "10.0.0.11")))

	updated := newMember("api", "app01", "10.0.0.99")
	require.NoError(t, store.Declare(ctx, "run-2", updated))

	collected, err := store.CollectFor(ctx, "api")
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, []string{"10.0.0.99"}, collected[0].Addresses)
}

func TestInMemory_DeclareCopiesInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemory()

	m := newMember("api", "app01", "10.0.0.11")
	require.NoError(t, store.Declare(ctx, "run-1", m))
	m.Addresses[0] = "mutated"
	m.Options = append(m.Options, "mutated")

	collected, err := store.CollectFor(ctx, "api")
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, []string{"10.0.0.11"}, collected[0].Addresses)
	assert.Equal(t, []string{"check"}, collected[0].Options)
}

func TestInMemory_All(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemory()

	require.NoError(t, store.Declare(ctx, "run-1", newMember("web", "web01", "10.0.0.21")))
	require.NoError(t, store.Declare(ctx, "run-1", newMember("api", "app01", "10.0.0.11")))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by fragment name: haproxy::api::app01 < haproxy::web::web01.
	assert.Equal(t, "app01", all[0].Name)
	assert.Equal(t, "web01", all[1].Name)
}
