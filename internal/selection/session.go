package selection

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/freight-agent/internal/types"
)

// Phase is the current step of a selection session. Phases only move
// forward.
type Phase string

const (
	// PhaseConsigner means the session is waiting for the sending party.
	PhaseConsigner Phase = "consigner"
	// PhaseConsignee means the consigner is set and the session is waiting
	// for the receiving party.
	PhaseConsignee Phase = "consignee"
	// PhaseComplete means both parties are set or the session was skipped.
	PhaseComplete Phase = "complete"
)

// Session is the in-memory state of one consigner/consignee pick. It lives
// for a single workflow execution and is discarded once the final parcel
// update has run.
type Session struct {
	ID            uuid.UUID
	CompanyID     string
	TripID        string
	ParcelID      string
	ParcelVersion string

	Candidates []types.PartnerCandidate
	Consigner  *types.PartnerCandidate
	Consignee  *types.PartnerCandidate
	Phase      Phase
	Skipped    bool

	CreatedAt time.Time
}

func (s *Session) candidate(id string) (types.PartnerCandidate, bool) {
	for _, c := range s.Candidates {
		if c.ID == id {
			return c, true
		}
	}
	return types.PartnerCandidate{}, false
}
