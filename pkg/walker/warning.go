package walker

import (
	"github.com/kaelzhang/module-walker/pkg/errors"
)

// Warning is a tolerated condition raised during a walk.
type Warning struct {
	Code      errors.Code // CYCLIC_DEPENDENCY or DISALLOWED_ABSOLUTE_DEPENDENCY
	Message   string
	Path      string   // Dependent file
	Specifier string   // Specifier as written
	Trail     []string // Cycle trail, for CYCLIC_DEPENDENCY
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
