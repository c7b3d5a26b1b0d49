// Package assemble drives one assembly run: every declaration of the grid
// is rendered and registered into the fragment registry of its target
// file, collected sections pull their remotely declared members from the
// store, and each registry is finalized into one artifact.
//
// A run is fail-fast: the first fatal error aborts it and no artifact is
// produced. Registries are confined to the single goroutine that fills
// them; only the final, independent per-file concatenation runs in
// parallel.
package assemble
