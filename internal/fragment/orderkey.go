package fragment

// Order key bands. The two-digit band is a contract with the wider system:
// global settings sort first, file-level defaults next, then frontends,
// then standalone listens and backends, and finally grouped sections
// huddled under their defaults group header. New kinds get their own band
// without this package needing to know their ordering relative to each
// other in advance.
const (
	bandGlobal     = "00"
	bandDefaults   = "10"
	bandFrontend   = "15"
	bandStandalone = "20"
	bandGrouped    = "25"

	suffixSection = "00"
	suffixMember  = "01"
)

// GlobalKey returns the order key for the global settings block.
func GlobalKey() string {
	return bandGlobal
}

// DefaultsKey returns the order key for a defaults block. The unnamed
// file-level defaults sort in their own band near the top of the file. A
// named defaults group keys as "25-<group>", which is a strict prefix of
// every "25-<group>-..." section key, so the group header sorts
// immediately before the sections that joined it.
func DefaultsKey(group string) string {
	if group == "" {
		return bandDefaults
	}
	return bandGrouped + "-" + group
}

// SectionKey derives the order key for a listen or backend section:
// "20-<section>-00" standalone, "25-<group>-<section>-00" when the section
// joined a defaults group. It is a pure function; empty inputs are valid.
func SectionKey(section, group string) string {
	if group == "" {
		return bandStandalone + "-" + section + "-" + suffixSection
	}
	return bandGrouped + "-" + group + "-" + section + "-" + suffixSection
}

// FrontendKey derives the order key for a frontend section. Standalone
// frontends sort in their own band ahead of listens and backends; a
// frontend that joined a defaults group sorts with its group like any
// other grouped section.
func FrontendKey(section, group string) string {
	if group == "" {
		return bandFrontend + "-" + section + "-" + suffixSection
	}
	return bandGrouped + "-" + group + "-" + section + "-" + suffixSection
}

// MemberKey derives the order key for a balancer member of the given
// section. The member suffix sorts members directly under their section
// header while keeping distinct members ordered by fragment name.
func MemberKey(section, group string) string {
	if group == "" {
		return bandStandalone + "-" + section + "-" + suffixMember
	}
	return bandGrouped + "-" + group + "-" + section + "-" + suffixMember
}
