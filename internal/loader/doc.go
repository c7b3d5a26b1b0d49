// Package loader discovers and parses HCL grid files and translates their
// declaration blocks into the loader-agnostic model.
//
// Files are processed in deterministic order (lexical path order within a
// directory, argument order across paths) and blocks in source order, so a
// re-run over unchanged input always produces the same declaration
// sequence. Block labels have variable arity across kinds, so the loader
// walks the raw hclsyntax block list itself and hands only block bodies to
// gohcl.
package loader
