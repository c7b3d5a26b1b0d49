// Package schema defines the gohcl decoding targets for the declaration
// blocks of a grid file. Block labels carry variable arity (a defaults
// block may or may not name a group, a member block takes two labels), so
// labels are read by the loader from the raw hclsyntax blocks and only the
// block bodies decode through these structs.
package schema

import "github.com/hashicorp/hcl/v2"

// Global is the body of the single `global` block of a target file.
type Global struct {
	Options    hcl.Expression `hcl:"options,optional"`
	Instance   string         `hcl:"instance,optional"`
	TargetFile string         `hcl:"target_file,optional"`
}

// Defaults is the body of a `defaults` block, either the unnamed
// file-level one or a named defaults group.
type Defaults struct {
	Options    hcl.Expression `hcl:"options,optional"`
	Mode       string         `hcl:"mode,optional"`
	Instance   string         `hcl:"instance,optional"`
	TargetFile string         `hcl:"target_file,optional"`
}

// Service is the shared body of `frontend` and `listen` blocks: the kinds
// that attach to the network. Ports, bind, and options stay raw
// expressions; the loader normalizes their flexible shapes (number vs
// string vs list, object key order) itself.
type Service struct {
	Ports       hcl.Expression `hcl:"ports,optional"`
	IPAddress   string         `hcl:"ipaddress,optional"`
	Bind        hcl.Expression `hcl:"bind,optional"`
	BindOptions []string       `hcl:"bind_options,optional"`
	Mode        string         `hcl:"mode,optional"`
	Options     hcl.Expression `hcl:"options,optional"`
	Collect     bool           `hcl:"collect,optional"`
	Defaults    string         `hcl:"defaults,optional"`
	Instance    string         `hcl:"instance,optional"`
	TargetFile  string         `hcl:"target_file,optional"`
}

// Backend is the body of a `backend` block. Backends take no binding
// fields at all; declaring one is a decode error, not a validation case.
type Backend struct {
	Mode       string         `hcl:"mode,optional"`
	Options    hcl.Expression `hcl:"options,optional"`
	Collect    bool           `hcl:"collect,optional"`
	Defaults   string         `hcl:"defaults,optional"`
	Instance   string         `hcl:"instance,optional"`
	TargetFile string         `hcl:"target_file,optional"`
}

// Member is the body of a `member` block: one locally declared balancer
// member. The section it belongs to and its own name are block labels.
type Member struct {
	ServerNames []string       `hcl:"server_names"`
	Addresses   []string       `hcl:"ipaddresses"`
	Port        hcl.Expression `hcl:"port,optional"`
	Options     []string       `hcl:"options,optional"`
	Defaults    string         `hcl:"defaults,optional"`
	Instance    string         `hcl:"instance,optional"`
	TargetFile  string         `hcl:"target_file,optional"`
}
