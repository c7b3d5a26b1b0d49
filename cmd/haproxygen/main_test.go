package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// An unreadable runtime configuration panics inside app.NewApp; run
	// must recover it and return a clean error.
	badConfig := filepath.Join(t.TempDir(), "haproxygen.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte(":: not yaml ::"), 0o644))

	gridDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(gridDir, "main.hcl"), []byte(`
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
}
`), 0o644))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	err := run(out, logs, []string{"assemble", "--config", badConfig, "--stdout", gridDir})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a critical startup error occurred")
	assert.Contains(t, err.Error(), "runtime configuration")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	err := run(out, logs, []string{"--help"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "assemble")
	assert.Contains(t, out.String(), "declare")
	assert.Contains(t, out.String(), "members")
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	err := run(out, logs, []string{"assemble", "--this-is-not-a-valid-flag", "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRun_AssembleToStdout(t *testing.T) {
	t.Parallel()

	gridDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(gridDir, "main.hcl"), []byte(`
listen "web" {
  ports     = 80
  ipaddress = "10.0.0.1"
  mode      = "tcp"
}
`), 0o644))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	err := run(out, logs, []string{"assemble", "--stdout", gridDir})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "# target file: /etc/haproxy/haproxy.cfg")
	assert.Contains(t, out.String(), "listen web")
	assert.Contains(t, out.String(), "  bind 10.0.0.1:80")
}
