// Package workflow drives the full shipment intake sequence: resolve names,
// create the trip and parcel, run partner selection, and write the selection
// back onto the parcel.
package workflow

import (
	"fmt"

	"github.com/jonathan/freight-agent/internal/types"
)

// AmbiguousReferenceError means a name resolved to candidates but none
// matched exactly, and no confirmation was supplied. The ranked candidate
// list rides along so the caller can re-prompt.
type AmbiguousReferenceError struct {
	Collection string
	Query      string
	Candidates []types.ScoredRef
	BestGuess  *types.ScoredRef
}

func (e *AmbiguousReferenceError) Error() string {
	best := ""
	if e.BestGuess != nil {
		best = fmt.Sprintf(", best guess %q", e.BestGuess.Name)
	}
	return fmt.Sprintf("%s %q is ambiguous: %d candidates%s; confirmation required",
		e.Collection, e.Query, len(e.Candidates), best)
}

// NotFoundError means a name matched nothing in its collection.
type NotFoundError struct {
	Collection string
	Query      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", e.Collection, e.Query)
}
