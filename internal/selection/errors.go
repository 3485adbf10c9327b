// Package selection runs the two-phase consigner/consignee picker over the
// partner directory.
package selection

import (
	"errors"
	"fmt"
)

// ErrUnknownSession is returned when a session ID does not correspond to a
// live session.
var ErrUnknownSession = errors.New("unknown or expired session")

// ErrUnknownCandidate is returned when a selected candidate ID is not in the
// session's candidate list.
var ErrUnknownCandidate = errors.New("candidate not in session list")

// OutOfOrderError reports a phase violation: a selection arrived for a phase
// the session is not currently in.
type OutOfOrderError struct {
	Want Phase
	Got  Phase
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("selection out of order: session is in %q phase, got a %q selection", e.Want, e.Got)
}
