// Package render turns validated declarations into literal HAProxy
// configuration text.
//
// Rendering is the last step before a fragment enters its registry: the
// model has already rejected invalid bindings and modes, so this package
// only concerns itself with layout. Output is deterministic for a given
// input; map-shaped inputs never reach the renderer unordered.
package render
