package fragment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNameConflict is the sentinel wrapped by every NameConflictError.
var ErrNameConflict = errors.New("fragment name conflict")

// NameConflictError reports an attempt to register a fragment under a name
// already claimed by a different declaration kind in the same target file.
// The conflict is never resolved automatically; the input declarations have
// to change.
type NameConflictError struct {
	Path     string
	Name     string
	Existing Kind
	Incoming Kind
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("fragment %q in %s: already declared as %s, redeclared as %s",
		e.Name, e.Path, e.Existing, e.Incoming)
}

func (e *NameConflictError) Unwrap() error {
	return ErrNameConflict
}

// Registry collects the fragments destined for one target file. It is owned
// by a single assembly run and must not be shared across goroutines: the
// name-conflict check is a check-then-act against its map. Different target
// files get independent registries and may be filled in parallel.
type Registry struct {
	path  string
	frags map[string]Fragment
}

// NewRegistry creates an empty registry for the given target file path.
func NewRegistry(path string) *Registry {
	return &Registry{
		path:  path,
		frags: make(map[string]Fragment),
	}
}

// Path returns the target file this registry assembles.
func (r *Registry) Path() string {
	return r.path
}

// Len reports the number of registered fragments.
func (r *Registry) Len() int {
	return len(r.frags)
}

// Register adds a fragment to the registry. Re-registering a name from the
// same kind overwrites the prior entry (idempotent re-runs are the normal
// operating mode, last write wins). A name already held by a different kind
// is a hard NameConflictError.
func (r *Registry) Register(f Fragment) error {
	if prev, ok := r.frags[f.Name]; ok && prev.Kind != f.Kind {
		return &NameConflictError{
			Path:     r.path,
			Name:     f.Name,
			Existing: prev.Kind,
			Incoming: f.Kind,
		}
	}
	r.frags[f.Name] = f
	return nil
}

// Lookup returns the fragment registered under name, if any.
func (r *Registry) Lookup(name string) (Fragment, bool) {
	f, ok := r.frags[name]
	return f, ok
}

// Fragments returns every registered fragment sorted by order key, ties
// broken by fragment name. Registration order never influences the result.
func (r *Registry) Fragments() []Fragment {
	out := make([]Fragment, 0, len(r.frags))
	for _, f := range r.frags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderKey != out[j].OrderKey {
			return out[i].OrderKey < out[j].OrderKey
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Content concatenates the sorted fragments' content without altering it.
func (r *Registry) Content() string {
	var sb strings.Builder
	for _, f := range r.Fragments() {
		sb.WriteString(f.Content)
	}
	return sb.String()
}
