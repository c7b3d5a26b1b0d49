package model

import "fmt"

// Warning is a non-fatal validation finding. Warnings are reported to the
// caller and logged, but never abort a run.
type Warning struct {
	Field  string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Detail)
}
