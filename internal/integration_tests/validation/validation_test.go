package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidllorente/haproxygen/internal/fragment"
	"github.com/davidllorente/haproxygen/internal/model"
	"github.com/davidllorente/haproxygen/internal/testutil"
)

func TestConflictingBindingIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
  bind      = { "10.0.0.1:80" = [] }
}
`,
	}, nil)

	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, model.ErrConflictingBinding)
	assert.Empty(t, result.Artifacts, "a failed run must not write artifacts")
}

func TestMissingBindingIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  mode = "tcp"
}
`,
	}, nil)

	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, model.ErrMissingBinding)
}

func TestMalformedBindIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  bind = "10.0.0.1:80"
}
`,
	}, nil)

	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, model.ErrMalformedBind)
}

func TestDeprecatedBindOptionsWarnsButSucceeds(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports        = 80
  ipaddress    = "10.0.0.1"
  bind_options = ["ssl"]
}
`,
	}, nil)

	require.NoError(t, result.Err)
	assert.Contains(t, result.Artifacts["haproxy.cfg"], "listen web")
	assert.Contains(t, result.LogOutput, "bind_options")
	assert.Contains(t, result.LogOutput, "deprecated")
}

func TestCrossKindNameConflictIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"main.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
}

backend "web" {
  options = {
    balance = "roundrobin"
  }
}
`,
	}, nil)

	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, fragment.ErrNameConflict)
	assert.Contains(t, result.Err.Error(), `"haproxy::web"`)
}

func TestInvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"broken.hcl": `
listen "web" {
  ports = 80
`,
	}, nil)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse")
}

func TestMemberServerAddressMismatchIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
}

member "web" "broken" {
  server_names = ["a", "b"]
  ipaddresses  = ["10.0.0.11"]
}
`,
	}, nil)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "2 server names but 1 addresses")
	assert.Empty(t, result.Artifacts)
}

func TestInvalidModeIsRejected(t *testing.T) {
	t.Parallel()

	result := testutil.Run(t, map[string]string{
		"web.hcl": `
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
  mode      = "udp"
}
`,
	}, nil)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "invalid mode")
}
