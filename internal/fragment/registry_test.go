package fragment

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry("/etc/haproxy/haproxy.cfg")

	frag := Fragment{
		Name:     SectionName("haproxy", "web"),
		Kind:     KindListen,
		OrderKey: SectionKey("web", ""),
		Content:  "listen web\n",
	}
	require.NoError(t, r.Register(frag))

	got, ok := r.Lookup("haproxy::web")
	require.True(t, ok)
	assert.Equal(t, frag, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SameKindOverwritesSilently(t *testing.T) {
	r := NewRegistry("/etc/haproxy/haproxy.cfg")

	first := Fragment{Name: "haproxy::web", Kind: KindListen, OrderKey: "20-web-00", Content: "old\n"}
	second := Fragment{Name: "haproxy::web", Kind: KindListen, OrderKey: "20-web-00", Content: "new\n"}

	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	got, ok := r.Lookup("haproxy::web")
	require.True(t, ok)
	assert.Equal(t, "new\n", got.Content, "last write should win on idempotent re-runs")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RegisterIdenticalTwiceIsIdempotent(t *testing.T) {
	frag := Fragment{Name: "haproxy::web", Kind: KindListen, OrderKey: "20-web-00", Content: "listen web\n"}

	once := NewRegistry("/etc/haproxy/haproxy.cfg")
	require.NoError(t, once.Register(frag))

	twice := NewRegistry("/etc/haproxy/haproxy.cfg")
	require.NoError(t, twice.Register(frag))
	require.NoError(t, twice.Register(frag))

	if diff := cmp.Diff(once.Fragments(), twice.Fragments()); diff != "" {
		t.Errorf("registry state differs after duplicate registration (-once +twice):\n%s", diff)
	}
}

func TestRegistry_CrossKindConflict(t *testing.T) {
	listen := Fragment{Name: "haproxy::web", Kind: KindListen, OrderKey: "20-web-00", Content: "listen web\n"}
	backend := Fragment{Name: "haproxy::web", Kind: KindBackend, OrderKey: "20-web-00", Content: "backend web\n"}

	// The conflict must surface regardless of registration order.
	testCases := []struct {
		name          string
		first, second Fragment
	}{
		{name: "listen then backend", first: listen, second: backend},
		{name: "backend then listen", first: backend, second: listen},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry("/etc/haproxy/haproxy.cfg")
			require.NoError(t, r.Register(tc.first))

			err := r.Register(tc.second)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNameConflict))

			var conflict *NameConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, "haproxy::web", conflict.Name)
			assert.Equal(t, tc.first.Kind, conflict.Existing)
			assert.Equal(t, tc.second.Kind, conflict.Incoming)

			// The original fragment is untouched.
			got, ok := r.Lookup("haproxy::web")
			require.True(t, ok)
			assert.Equal(t, tc.first.Content, got.Content)
		})
	}
}

func TestRegistry_FragmentsSortedUnderPermutation(t *testing.T) {
	a := Fragment{Name: "haproxy::alpha", Kind: KindListen, OrderKey: SectionKey("alpha", ""), Content: "a\n"}
	b := Fragment{Name: "haproxy::beta", Kind: KindBackend, OrderKey: SectionKey("beta", ""), Content: "b\n"}
	c := Fragment{Name: "haproxy::alpha::m1", Kind: KindMember, OrderKey: MemberKey("alpha", ""), Content: "m\n"}

	permutations := [][]Fragment{
		{a, b, c},
		{c, b, a},
		{b, a, c},
		{c, a, b},
	}

	expected := []string{"haproxy::alpha", "haproxy::alpha::m1", "haproxy::beta"}

	for _, perm := range permutations {
		r := NewRegistry("/etc/haproxy/haproxy.cfg")
		for _, f := range perm {
			require.NoError(t, r.Register(f))
		}

		var names []string
		for _, f := range r.Fragments() {
			names = append(names, f.Name)
		}
		require.Equal(t, expected, names)
		assert.Equal(t, "a\nm\nb\n", r.Content())
	}
}

func TestRegistry_TieBrokenByName(t *testing.T) {
	r := NewRegistry("/etc/haproxy/haproxy.cfg")

	// Two members of the same section share an order key; their fragment
	// names decide the final order.
	require.NoError(t, r.Register(Fragment{Name: "haproxy::web::zeta", Kind: KindMember, OrderKey: "20-web-01", Content: "z"}))
	require.NoError(t, r.Register(Fragment{Name: "haproxy::web::alpha", Kind: KindMember, OrderKey: "20-web-01", Content: "a"}))

	assert.Equal(t, "az", r.Content())
}

func TestRegistry_EmptyContent(t *testing.T) {
	r := NewRegistry("/etc/haproxy/haproxy.cfg")
	assert.Empty(t, r.Fragments())
	assert.Equal(t, "", r.Content())
}
