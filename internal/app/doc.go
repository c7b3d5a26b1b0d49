// Package app wires the assembler together: it builds the isolated
// logger, loads the runtime configuration, selects the member store, and
// drives the load, assemble and write lifecycle of a run. The CLI layer is
// a thin shell around this package.
package app
