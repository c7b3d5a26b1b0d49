package fragment

import "fmt"

// Kind identifies the declaration type that produced a fragment. Two
// fragments of different kinds may never share a name within one registry.
type Kind string

const (
	KindGlobal   Kind = "global"
	KindDefaults Kind = "defaults"
	KindFrontend Kind = "frontend"
	KindListen   Kind = "listen"
	KindBackend  Kind = "backend"
	KindMember   Kind = "member"
)

// Fragment is one named, ordered piece of final configuration text. A
// fragment is immutable once registered; a changed declaration produces a
// replacement fragment under the same name.
type Fragment struct {
	// Name uniquely identifies the fragment within its target file's
	// registry, e.g. "haproxy::web" or "haproxy::web::app01".
	Name string

	// Kind is the declaration type that produced the fragment.
	Kind Kind

	// OrderKey positions the fragment in the assembled file. Keys are
	// compared lexicographically; see orderkey.go for the band contract.
	OrderKey string

	// Content is the rendered configuration text. The assembler emits it
	// verbatim, so the renderer owns trailing newlines.
	Content string
}

// SectionName builds the registry name for a section fragment:
// "<instance>::<section>".
func SectionName(instance, section string) string {
	return fmt.Sprintf("%s::%s", instance, section)
}

// MemberName builds the registry name for a member fragment:
// "<instance>::<section>::<member>". Member names are scoped by their
// section so that members declared on many hosts stay globally unique.
func MemberName(instance, section, member string) string {
	return fmt.Sprintf("%s::%s::%s", instance, section, member)
}
