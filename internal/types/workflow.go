package types

import "github.com/google/uuid"

// Workflow step names as they appear in a WorkflowResult.
const (
	StepResolveFromCity = "resolve_from_city"
	StepResolveToCity   = "resolve_to_city"
	StepResolveMaterial = "resolve_material"
	StepCreateTrip      = "create_trip"
	StepCreateParcel    = "create_parcel"
	StepStartSelection  = "start_selection"
)

// StepOutcome records how one workflow step went.
type StepOutcome struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// WorkflowResult accumulates per-step outcomes for one workflow run. Steps
// that succeeded before a failure keep their identifiers so callers can
// report partial progress.
type WorkflowResult struct {
	Steps         []StepOutcome      `json:"steps"`
	TripID        string             `json:"trip_id,omitempty"`
	ParcelID      string             `json:"parcel_id,omitempty"`
	ParcelVersion string             `json:"parcel_version,omitempty"`
	SessionID     uuid.UUID          `json:"session_id,omitempty"`
	Candidates    []PartnerCandidate `json:"candidates,omitempty"`
	Failed        bool               `json:"failed"`
}

// Record appends a step outcome. A failed step marks the whole result failed
// but does not erase identifiers captured by earlier steps.
func (r *WorkflowResult) Record(name string, success bool, detail string) {
	r.Steps = append(r.Steps, StepOutcome{Name: name, Success: success, Detail: detail})
	if !success {
		r.Failed = true
	}
}

// FailedStep returns the name of the first failed step, or "" if none failed.
func (r *WorkflowResult) FailedStep() string {
	for _, s := range r.Steps {
		if !s.Success {
			return s.Name
		}
	}
	return ""
}
