// Package fragment provides the ordered building blocks of an assembled
// configuration file.
//
// Every declaration that survives validation produces exactly one Fragment:
// an immutable (name, kind, order key, content) tuple. Fragments destined
// for the same target file accumulate in a Registry, which enforces that a
// fragment name is only ever claimed by a single declaration kind. The final
// file content is produced by sorting a registry's fragments by order key
// (ties broken by name) and concatenating their content unchanged.
//
// Order keys are plain strings compared lexicographically. Their shape,
// "<band>-<qualifier>-<section>-<suffix>", is a contract with the wider
// system: each declaration kind owns a two-digit band, so kinds this package
// has never heard of can interleave predictably in the same file.
package fragment
