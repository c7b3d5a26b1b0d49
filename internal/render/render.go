package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/davidllorente/haproxygen/internal/fragment"
	"github.com/davidllorente/haproxygen/internal/model"
)

// ErrRender is the sentinel wrapped by every Error.
var ErrRender = errors.New("render failed")

// Error reports a declaration whose fields could not be rendered into
// configuration text. The fragment for that declaration is never created.
type Error struct {
	Section string
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rendering section %q: %s", e.Section, e.Reason)
}

func (e *Error) Unwrap() error {
	return ErrRender
}

const indent = "  "

// Section renders one declared section into its fragment content. The
// block opens with a blank line so consecutive sections stay readable in
// the assembled file; member fragments sort directly below and carry no
// blank line of their own.
func Section(s *model.Section, sortOptions bool) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(headerLine(s))
	sb.WriteString("\n")

	for _, line := range model.BindLines(s.Binding) {
		sb.WriteString(indent)
		sb.WriteString("bind ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if s.Mode != model.ModeUnset {
		sb.WriteString(indent)
		sb.WriteString("mode ")
		sb.WriteString(string(s.Mode))
		sb.WriteString("\n")
	}

	for _, opt := range orderedOptions(s.Options, sortOptions) {
		if opt.Key == "" {
			return "", &Error{Section: s.Name, Reason: "option with empty key"}
		}
		if len(opt.Values) == 0 {
			sb.WriteString(indent)
			sb.WriteString(opt.Key)
			sb.WriteString("\n")
			continue
		}
		for _, v := range opt.Values {
			sb.WriteString(indent)
			sb.WriteString(opt.Key)
			sb.WriteString(" ")
			sb.WriteString(v)
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// headerLine renders the section's opening line. The unnamed kinds
// (global, file-level defaults) are bare keywords; everything else is
// "<kind> <name>".
func headerLine(s *model.Section) string {
	if s.Name == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + " " + s.Name
}

// Member renders one balancer member into its fragment content: one
// server line per declared server name, zipped with the address list.
func Member(m *model.Member) (string, error) {
	if len(m.ServerNames) != len(m.Addresses) {
		return "", &Error{
			Section: m.Section,
			Reason: fmt.Sprintf("member %q declares %d server names but %d addresses",
				m.Name, len(m.ServerNames), len(m.Addresses)),
		}
	}
	if len(m.ServerNames) == 0 {
		return "", &Error{
			Section: m.Section,
			Reason:  fmt.Sprintf("member %q declares no server names", m.Name),
		}
	}

	var sb strings.Builder
	for i, name := range m.ServerNames {
		sb.WriteString(indent)
		sb.WriteString("server ")
		sb.WriteString(name)
		sb.WriteString(" ")
		sb.WriteString(m.Addresses[i])
		if m.Port != "" {
			sb.WriteString(":")
			sb.WriteString(m.Port)
		}
		for _, opt := range m.Options {
			sb.WriteString(" ")
			sb.WriteString(opt)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// orderedOptions returns the options to render, alphabetically by key when
// requested, in declaration order otherwise. The input slice is never
// mutated.
func orderedOptions(opts []model.Option, alphabetic bool) []model.Option {
	if !alphabetic {
		return opts
	}
	sorted := make([]model.Option, len(opts))
	copy(sorted, opts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// SectionFragment validates, renders, and packages a section declaration
// into its immutable fragment.
func SectionFragment(s *model.Section, sortOptions bool) (fragment.Fragment, error) {
	content, err := Section(s, sortOptions)
	if err != nil {
		return fragment.Fragment{}, err
	}
	return fragment.Fragment{
		Name:     s.FragmentName(),
		Kind:     s.Kind,
		OrderKey: s.OrderKey(),
		Content:  content,
	}, nil
}

// MemberFragment renders and packages a member declaration into its
// immutable fragment. Local and store-collected members render the same
// way.
func MemberFragment(m *model.Member) (fragment.Fragment, error) {
	content, err := Member(m)
	if err != nil {
		return fragment.Fragment{}, err
	}
	return fragment.Fragment{
		Name:     m.FragmentName(),
		Kind:     fragment.KindMember,
		OrderKey: m.OrderKey(),
		Content:  content,
	}, nil
}
