// Package cli defines the command tree of the haproxygen binary: assemble
// (the core run), declare (publish members from a remote host), and
// members (inspect the shared store). It validates flags, builds the App,
// and translates failures into process exit codes.
package cli
