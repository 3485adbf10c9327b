package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// Manager creates sessions and applies selections to them. One Select call
// at a time is expected per session; callers serialize per conversation.
type Manager struct {
	partners  *resource.Client
	companies *resource.Client
	store     *Store
	pageSize  int
}

// Outcome is what a Start/Select/Skip call hands back to the caller: the
// candidates still relevant for display, and on completion the assembled
// pair.
type Outcome struct {
	SessionID  uuid.UUID                `json:"session_id"`
	Phase      Phase                    `json:"phase"`
	Candidates []types.PartnerCandidate `json:"candidates,omitempty"`
	Pair       *types.SelectionPair     `json:"pair,omitempty"`
	Skipped    bool                     `json:"skipped"`
	Done       bool                     `json:"done"`
}

// NewManager creates a selection manager over the partner and company
// collections.
func NewManager(partners, companies *resource.Client, store *Store, pageSize int) *Manager {
	if pageSize < 1 {
		pageSize = 5
	}
	return &Manager{partners: partners, companies: companies, store: store, pageSize: pageSize}
}

// Start fetches one page of partner candidates for the company and opens a
// session in the consigner phase. An empty page is a valid outcome: the
// session can still be skipped to a clean end.
func (m *Manager) Start(ctx context.Context, companyID, tripID, parcelID, parcelVersion string) (*Outcome, error) {
	if companyID == "" {
		return nil, fmt.Errorf("start selection: company id is required")
	}

	q := resource.Query{
		Where:      map[string]any{"company": companyID},
		Embedded:   map[string]int{"city": 1},
		MaxResults: m.pageSize,
	}
	result, err := m.partners.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("start selection: %w", err)
	}

	candidates := make([]types.PartnerCandidate, 0, m.pageSize)
	for _, item := range result.Items() {
		candidates = append(candidates, types.PartnerCandidate{
			ID:                item.Get("_id").String(),
			Name:              item.Get("name").String(),
			City:              item.Get("city.name").String(),
			AffiliatedCompany: item.Get("current_company").String(),
		})
	}

	session := &Session{
		ID:            uuid.New(),
		CompanyID:     companyID,
		TripID:        tripID,
		ParcelID:      parcelID,
		ParcelVersion: parcelVersion,
		Candidates:    candidates,
		Phase:         PhaseConsigner,
		CreatedAt:     time.Now(),
	}
	m.store.Put(session)

	return &Outcome{
		SessionID:  session.ID,
		Phase:      session.Phase,
		Candidates: candidates,
	}, nil
}

// Select applies one pick. The phase argument must match the session's
// current phase; anything else is an OutOfOrderError. Selecting the
// consigner returns the same candidate list again, since a partner may
// legally fill both roles.
func (m *Manager) Select(ctx context.Context, sessionID uuid.UUID, phase Phase, candidateID string) (*Outcome, error) {
	session, err := m.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if phase != session.Phase || session.Phase == PhaseComplete {
		return nil, &OutOfOrderError{Want: session.Phase, Got: phase}
	}

	candidate, ok := session.candidate(candidateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, candidateID)
	}

	switch session.Phase {
	case PhaseConsigner:
		session.Consigner = &candidate
		session.Phase = PhaseConsignee
		return &Outcome{
			SessionID:  session.ID,
			Phase:      session.Phase,
			Candidates: session.Candidates,
		}, nil

	case PhaseConsignee:
		session.Consignee = &candidate
		consigner := m.enrich(ctx, *session.Consigner)
		consignee := m.enrich(ctx, *session.Consignee)
		session.Consigner = &consigner
		session.Consignee = &consignee
		session.Phase = PhaseComplete

		return &Outcome{
			SessionID: session.ID,
			Phase:     session.Phase,
			Pair: &types.SelectionPair{
				Consigner: consigner,
				Consignee: consignee,
			},
			Done: true,
		}, nil

	default:
		return nil, &OutOfOrderError{Want: session.Phase, Got: phase}
	}
}

// Skip ends the session at its current phase without selections. The parcel
// keeps whatever partner fields it already had.
func (m *Manager) Skip(_ context.Context, sessionID uuid.UUID) (*Outcome, error) {
	session, err := m.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase == PhaseComplete {
		return nil, &OutOfOrderError{Want: session.Phase, Got: session.Phase}
	}

	session.Phase = PhaseComplete
	session.Skipped = true

	return &Outcome{
		SessionID: session.ID,
		Phase:     session.Phase,
		Skipped:   true,
		Done:      true,
	}, nil
}

// Session exposes a live session to the orchestrator.
func (m *Manager) Session(id uuid.UUID) (*Session, error) {
	return m.store.Get(id)
}

// Drop discards a finished session.
func (m *Manager) Drop(id uuid.UUID) {
	m.store.Drop(id)
}
