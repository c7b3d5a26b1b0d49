package collection_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidllorente/haproxygen/internal/fragment"
	"github.com/davidllorente/haproxygen/internal/model"
	"github.com/davidllorente/haproxygen/internal/testutil"
	"github.com/davidllorente/haproxygen/internal/writer"
)

func remoteMember(section, name, address string) *model.Member {
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

func TestCollectRemoteMembers(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"api.hcl": `
listen "api" {
  bind     = { "10.0.0.2:443" = ["ssl"] }
  defaults = "prod"
  collect  = true
}
`,
	}, &testutil.Options{Seed: []*model.Member{
		remoteMember("api", "app02", "10.0.0.12"),
		remoteMember("api", "app01", "10.0.0.11"),
	}})

	require.NoError(t, result.Err)
	expected := writer.Banner +
		"\nlisten api\n" +
		"  bind 10.0.0.2:443 ssl\n" +
		"  server app01 10.0.0.11:8080 check\n" +
		"  server app02 10.0.0.12:8080 check\n"
	if diff := cmp.Diff(expected, result.Artifacts["haproxy.cfg"]); diff != "" {
		t.Fatalf("assembled file mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectOnlyMatchingSection(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"main.hcl": `
listen "api" {
  ports     = 443
  ipaddress = "10.0.0.2"
  collect   = true
}

listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
}
`,
	}, &testutil.Options{Seed: []*model.Member{
		remoteMember("api", "app01", "10.0.0.11"),
		remoteMember("web", "web01", "10.0.0.21"),
	}})

	require.NoError(t, result.Err)
	content := result.Artifacts["haproxy.cfg"]
	assert.Contains(t, content, "server app01")
	// web did not opt into collection, so its remote member stays out.
	assert.NotContains(t, content, "server web01")
}

func TestCollectNothingDeclaredIsNoOp(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
  collect   = true
}
`,
	}, &testutil.Options{Seed: []*model.Member{
		// The store exists but holds members of an unrelated section.
		remoteMember("other", "x01", "10.9.9.9"),
	}})

	require.NoError(t, result.Err)
	assert.Equal(t, writer.Banner+"\nlisten web\n  bind 10.0.0.1:80\n",
		result.Artifacts["haproxy.cfg"])
}

func TestCollectMergesWithLocalMembers(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
  collect   = true
}

member "web" "local01" {
  server_names = ["local01"]
  ipaddresses  = ["10.0.0.5"]
  port         = 8080
}
`,
	}, &testutil.Options{Seed: []*model.Member{
		remoteMember("web", "remote01", "10.0.0.11"),
	}})

	require.NoError(t, result.Err)
	content := result.Artifacts["haproxy.cfg"]
	assert.Contains(t, content, "server local01 10.0.0.5:8080")
	assert.Contains(t, content, "server remote01 10.0.0.11:8080 check")
}

func TestCollectConflictWithDifferentKindFails(t *testing.T) {
	t.Parallel()

	// The local listen section claims the exact fragment name of the
	// collected member, under a different kind. Collection must surface
	// the same conflict local registration would.
	result := testutil.Run(t, map[string]string{
		"main.hcl": `
listen "api" {
  ports     = 443
  ipaddress = "10.0.0.2"
  collect   = true
}

listen "api::app01" {
  ports     = 80
  ipaddress = "10.0.0.3"
}
`,
	}, &testutil.Options{Seed: []*model.Member{
		remoteMember("api", "app01", "10.0.0.11"),
	}})

	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, fragment.ErrNameConflict)
	// Fail-fast: nothing was written.
	assert.Empty(t, result.Artifacts)
}

func TestCollectIsIdempotentAcrossReruns(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"api.hcl": `
listen "api" {
  ports     = 443
  ipaddress = "10.0.0.2"
  collect   = true
}
`,
	}
	seed := &testutil.Options{Seed: []*model.Member{
		remoteMember("api", "app01", "10.0.0.11"),
	}}

	first := testutil.Run(t, files, seed)
	require.NoError(t, first.Err)
	second := testutil.Run(t, files, seed)
	require.NoError(t, second.Err)

	assert.Equal(t, first.Artifacts, second.Artifacts)
}
