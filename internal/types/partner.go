package types

// PartnerCandidate is one entry from the partner directory, scoped to a
// company. AffiliatedCompany is filled in lazily by a secondary lookup.
type PartnerCandidate struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	City              string `json:"city,omitempty"`
	AffiliatedCompany string `json:"affiliated_company,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	GSTIN             string `json:"gstin,omitempty"`
}

// SelectionPair is the fully assembled result of a completed selection:
// the consigner (sender) and consignee (receiver) with their enriched
// company details.
type SelectionPair struct {
	Consigner PartnerCandidate `json:"consigner"`
	Consignee PartnerCandidate `json:"consignee"`
}
