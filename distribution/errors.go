package distribution

import (
	"fmt"

	"gorgonia.org/tensor"
)

// ShapeMismatchError indicates that a base distribution and a bijector
// disagree on the rank of a single event: the distribution's event
// shape has a different number of dimensions than the bijector
// consumes.
type ShapeMismatchError struct {
	// Distribution and Bijector name the two offending parties
	Distribution string
	Bijector     string

	// EventShape is the event shape of the base distribution
	EventShape tensor.Shape

	// EventNdimsIn is the event rank the bijector expects
	EventNdimsIn int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("base distribution %v has event shape %v, but "+
		"bijector %v expects events to have %v dimensions. Perhaps wrap "+
		"the base distribution with distribution.Independent?",
		e.Distribution, e.EventShape, e.Bijector, e.EventNdimsIn)
}

// NotSupportedError indicates that an operation has no closed form for
// a distribution. This is a documented capability gap, not a bug: no
// fallback approximation is attempted, since an approximation would
// silently misrepresent the distribution.
type NotSupportedError struct {
	// Distribution names the distribution the operation was called on
	Distribution string

	// Op is the unsupported operation
	Op string

	// Reason states why the operation has no closed form
	Reason string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%v is not supported for distribution %v: %v",
		e.Op, e.Distribution, e.Reason)
}
