package model

import (
	"fmt"

	"github.com/davidllorente/haproxygen/internal/fragment"
)

// DefaultInstance is the instance identifier assumed when a declaration
// names none. It maps to the stock target file of the host's main load
// balancer process.
const DefaultInstance = "haproxy"

// Mode is a section's proxy mode.
type Mode string

const (
	ModeUnset  Mode = ""
	ModeTCP    Mode = "tcp"
	ModeHTTP   Mode = "http"
	ModeHealth Mode = "health"
)

// ParseMode validates a declared mode string. The empty string is the
// valid "unset" mode and renders no mode line at all.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeUnset, ModeTCP, ModeHTTP, ModeHealth:
		return Mode(raw), nil
	default:
		return ModeUnset, fmt.Errorf("invalid mode %q: must be tcp, http, or health", raw)
	}
}

// Option is one configuration key with its values, in declaration order.
// A key declared as a list renders one line per element; a scalar renders
// a single line. An empty value renders the bare key.
type Option struct {
	Key    string
	Values []string
}

// Section is one declared proxy section. Name is empty only for the
// global block and the unnamed file-level defaults block.
type Section struct {
	Kind          fragment.Kind
	Name          string
	Binding       Binding // nil for kinds that take no binding
	Mode          Mode
	Options       []Option
	Collect       bool
	DefaultsGroup string
	Instance      string
	TargetFile    string // optional override; empty means resolve by instance
}

// OrderKey derives the section's position in its target file.
func (s *Section) OrderKey() string {
	switch s.Kind {
	case fragment.KindGlobal:
		return fragment.GlobalKey()
	case fragment.KindDefaults:
		return fragment.DefaultsKey(s.Name)
	case fragment.KindFrontend:
		return fragment.FrontendKey(s.Name, s.DefaultsGroup)
	default:
		return fragment.SectionKey(s.Name, s.DefaultsGroup)
	}
}

// FragmentName derives the section's unique registry name.
func (s *Section) FragmentName() string {
	return fragment.SectionName(s.Instance, s.registryName())
}

// registryName disambiguates the unnamed kinds: the global and file-level
// defaults blocks have no section name of their own, so their kind stands
// in to keep fragment names unique within an instance.
func (s *Section) registryName() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Kind)
}

// Member is one balancer member of a section. Members declared locally in
// grid files and members collected from the store share this shape.
type Member struct {
	Section       string
	Name          string
	ServerNames   []string
	Addresses     []string
	Port          string // optional; empty renders address-only server lines
	Options       []string
	DefaultsGroup string
	Instance      string
	TargetFile    string
}

// OrderKey derives the member's position: directly under its section
// header, ordered against sibling members by fragment name.
func (m *Member) OrderKey() string {
	return fragment.MemberKey(m.Section, m.DefaultsGroup)
}

// FragmentName derives the member's globally unique registry name.
func (m *Member) FragmentName() string {
	return fragment.MemberName(m.Instance, m.Section, m.Name)
}

// Grid is the root container for one run's declarations, in input order.
type Grid struct {
	Sections []*Section
	Members  []*Member
}
