package selection

import (
	"context"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// enrich fills in the candidate's affiliated-company name and tax ID with a
// secondary lookup. A failed lookup degrades to empty company fields; it
// never fails the selection.
func (m *Manager) enrich(ctx context.Context, candidate types.PartnerCandidate) types.PartnerCandidate {
	if m.companies == nil {
		return candidate
	}

	result, err := m.companies.List(ctx, resource.Query{
		Extra:      map[string]string{"user_id": candidate.ID},
		MaxResults: 1,
	})
	if err != nil {
		return candidate
	}

	items := result.Items()
	if len(items) == 0 {
		return candidate
	}

	company := items[0]
	candidate.AffiliatedCompany = company.Get("_id").String()
	candidate.CompanyName = company.Get("name").String()
	candidate.GSTIN = company.Get("gstin").String()
	return candidate
}
