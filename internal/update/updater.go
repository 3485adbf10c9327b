// Package update applies a completed partner selection to a parcel under
// optimistic concurrency control.
package update

import (
	"context"
	"fmt"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// preservedFields are the parcel fields carried over from the current
// document so the partner overlay does not clobber them.
var preservedFields = []string{
	"material_type",
	"quantity",
	"quantity_unit",
	"description",
	"cost",
	"part_load",
	"pickup_postal_address",
	"unload_postal_address",
	"trip_id",
	"verification",
	"created_by",
	"created_by_company",
}

// Updater writes a selection pair onto a parcel, guarding the write with the
// version token captured at creation time.
type Updater struct {
	parcels *resource.Client
}

// NewUpdater creates an updater over the parcel collection. The client must
// serve uncached reads, since a stale-version retry depends on seeing the
// current version.
func NewUpdater(parcels *resource.Client) *Updater {
	return &Updater{parcels: parcels}
}

// Apply merges the pair into the parcel's current field set and issues a
// conditional update. A missing version token is recovered with a read. On a
// stale-version rejection the current version is fetched and the update
// retried exactly once; a second rejection is terminal.
func (u *Updater) Apply(ctx context.Context, parcelID, version string, pair *types.SelectionPair) (*types.VersionedResource, error) {
	if parcelID == "" {
		return nil, fmt.Errorf("parcel update: parcel id is required")
	}
	if pair == nil {
		return nil, fmt.Errorf("parcel update: selection pair is required")
	}

	current, err := u.parcels.Read(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("parcel update: read before update: %w", err)
	}
	if version == "" {
		version = current.Version()
	}

	payload := buildPayload(current, pair)

	result, err := u.parcels.Update(ctx, parcelID, version, payload)
	if err == nil {
		return &types.VersionedResource{ID: parcelID, Version: result.Version()}, nil
	}
	if !resource.IsPreconditionFailed(err) {
		return nil, fmt.Errorf("parcel update: %w", err)
	}

	// Stale token: refresh and retry once.
	fresh, readErr := u.parcels.Read(ctx, parcelID)
	if readErr != nil {
		return nil, fmt.Errorf("parcel update: refresh after stale version: %w", readErr)
	}

	payload = buildPayload(fresh, pair)
	result, err = u.parcels.Update(ctx, parcelID, fresh.Version(), payload)
	if err != nil {
		if resource.IsPreconditionFailed(err) {
			return nil, &PreconditionFailedError{ParcelID: parcelID, Cause: err}
		}
		return nil, fmt.Errorf("parcel update: retry: %w", err)
	}
	return &types.VersionedResource{ID: parcelID, Version: result.Version()}, nil
}

// buildPayload starts from the parcel's current fields and overlays the
// sender and receiver blocks from the selection.
func buildPayload(current *resource.Result, pair *types.SelectionPair) map[string]any {
	parcel := current.Versioned()

	payload := make(map[string]any, len(preservedFields)+2)
	for _, field := range preservedFields {
		if v, ok := parcel.Fields[field]; ok {
			payload[field] = v
		}
	}

	payload["sender"] = partyBlock("sender", pair.Consigner)
	payload["receiver"] = partyBlock("receiver", pair.Consignee)
	return payload
}

func partyBlock(role string, candidate types.PartnerCandidate) map[string]any {
	block := map[string]any{
		role + "_person": candidate.ID,
		"name":           candidate.Name,
	}
	if candidate.AffiliatedCompany != "" {
		block[role+"_company"] = candidate.AffiliatedCompany
	}
	if candidate.GSTIN != "" {
		block["gstin"] = candidate.GSTIN
	}
	return block
}
