package model

import "errors"

// Binding construction failures. All three are declaration errors: the
// input has to change, retrying never helps.
var (
	// ErrConflictingBinding reports a declaration populating both binding
	// styles (ports/ipaddress and a bind map) at once.
	ErrConflictingBinding = errors.New("conflicting binding declaration")

	// ErrMissingBinding reports a declaration with no way to attach to the
	// network at all: no ports, no ipaddress, no bind map.
	ErrMissingBinding = errors.New("missing binding declaration")

	// ErrMalformedBind reports a bind field that is not a mapping from
	// address specs to option lists. The loader wraps this sentinel when
	// the raw value cannot be converted.
	ErrMalformedBind = errors.New("malformed bind declaration")
)

// Binding describes how a section attaches to the network. Exactly one of
// the two variants exists per bound section; kinds that take no binding
// (backend, defaults, global) carry a nil Binding.
type Binding interface {
	// bindLines returns the rendered address lines in deterministic order.
	bindLines() []string
}

// AddressBinding is the ports+ipaddress binding style: one listening
// address shared by one or more ports. Ports pass through as written, so
// hyphenated ranges like "8080-8090" survive into the rendered output.
// An empty address, "*", and "0.0.0.0" all mean "bind all" and are passed
// through rather than interpreted here.
type AddressBinding struct {
	Address string
	Ports   []string
}

func (b AddressBinding) bindLines() []string {
	if len(b.Ports) == 0 {
		// An address without ports passes through as-is; this core does
		// not second-guess what the load balancer accepts.
		return []string{b.Address}
	}
	lines := make([]string, 0, len(b.Ports))
	for _, port := range b.Ports {
		lines = append(lines, b.Address+":"+port)
	}
	return lines
}

// BindSpec is one entry of an explicit bind map: a listening address spec
// plus its option list, e.g. "10.0.0.2:443" with ["ssl", "crt /x.pem"].
type BindSpec struct {
	Spec    string
	Options []string
}

// BindBinding is the explicit bind-map style. Specs are kept sorted by
// address spec so rendered output never depends on map iteration order.
type BindBinding struct {
	Binds []BindSpec
}

func (b BindBinding) bindLines() []string {
	lines := make([]string, 0, len(b.Binds))
	for _, spec := range b.Binds {
		line := spec.Spec
		for _, opt := range spec.Options {
			line += " " + opt
		}
		lines = append(lines, line)
	}
	return lines
}

// BindLines exposes a binding's rendered address lines to the renderer.
func BindLines(b Binding) []string {
	if b == nil {
		return nil
	}
	return b.bindLines()
}

// NewBinding validates the mutually exclusive binding fields of a
// declaration and constructs the matching variant. A non-empty legacy
// bind-options list yields a deprecation warning but never blocks
// processing.
func NewBinding(address string, ports []string, binds []BindSpec, legacyBindOptions []string) (Binding, []Warning, error) {
	var warnings []Warning
	if len(legacyBindOptions) > 0 {
		warnings = append(warnings, Warning{
			Field:  "bind_options",
			Detail: "bind_options is deprecated, use the bind map to attach options to an address",
		})
	}

	hasAddress := address != "" || len(ports) > 0
	hasBind := len(binds) > 0

	switch {
	case hasAddress && hasBind:
		return nil, warnings, ErrConflictingBinding
	case hasBind:
		return BindBinding{Binds: binds}, warnings, nil
	case hasAddress:
		return AddressBinding{Address: address, Ports: ports}, warnings, nil
	default:
		return nil, warnings, ErrMissingBinding
	}
}
