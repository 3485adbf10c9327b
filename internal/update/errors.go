package update

import "fmt"

// PreconditionFailedError means the parcel version was stale twice in a row:
// once with the captured token and once more after refreshing it. The
// workflow surfaces this as a terminal step failure.
type PreconditionFailedError struct {
	ParcelID string
	Cause    error
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("parcel %s: version still stale after one retry: %v", e.ParcelID, e.Cause)
}

func (e *PreconditionFailedError) Unwrap() error {
	return e.Cause
}
