package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/freight-agent/internal/resolve"
	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/selection"
	"github.com/jonathan/freight-agent/internal/types"
	"github.com/jonathan/freight-agent/internal/update"
)

// Config holds the orchestrator's operator identity and resolution policy.
type Config struct {
	UserID    string
	CompanyID string

	// DefaultMaterialID is used when a material cannot be resolved at all.
	DefaultMaterialID string

	// MaterialAcceptThreshold permits auto-accepting an ambiguous material
	// best guess at or above this score. Cities never auto-accept.
	MaterialAcceptThreshold float64
}

// Orchestrator sequences one shipment intake end to end. Steps run strictly
// in order; a failed step is recorded and later steps are skipped, but
// earlier side effects stand.
type Orchestrator struct {
	cities    *resolve.Resolver
	materials *resolve.Resolver
	trips     *resource.Client
	parcels   *resource.Client
	sessions  *selection.Manager
	updater   *update.Updater
	cfg       Config
}

// New wires an orchestrator over the collection registry.
func New(reg *resource.Registry, sessions *selection.Manager, cfg Config) *Orchestrator {
	return &Orchestrator{
		cities:    resolve.NewCityResolver(reg.Cities),
		materials: resolve.NewMaterialResolver(reg.Materials),
		trips:     reg.Trips,
		parcels:   reg.Parcels,
		sessions:  sessions,
		updater:   update.NewUpdater(reg.Parcels),
		cfg:       cfg,
	}
}

// StartRequest is one parsed shipment plus any confirmations the caller has
// already collected for ambiguous names.
type StartRequest struct {
	Shipment *types.ShipmentRequest

	// Confirmed identifiers short-circuit resolution for that name.
	FromCityID string
	ToCityID   string
	MaterialID string

	Vehicles *types.VehicleRequirements
}

// ResolveCity resolves a city name without starting a workflow.
func (o *Orchestrator) ResolveCity(ctx context.Context, name string) (*resolve.Resolution, error) {
	return o.cities.Resolve(ctx, name)
}

// ResolveMaterial resolves a material name without starting a workflow.
func (o *Orchestrator) ResolveMaterial(ctx context.Context, name string) (*resolve.Resolution, error) {
	return o.materials.Resolve(ctx, name)
}

// Run executes resolution, trip creation, parcel creation and selection
// start. It returns a non-nil result in every case. The error is non-nil
// only when the run needs caller input before anything was created: an
// ambiguous or unresolvable name. Failures after creation begins are
// recorded in the result and do not surface as errors.
func (o *Orchestrator) Run(ctx context.Context, req StartRequest) (*types.WorkflowResult, error) {
	result := &types.WorkflowResult{}

	if req.Shipment == nil {
		result.Record(types.StepResolveFromCity, false, "no shipment request")
		return result, fmt.Errorf("start workflow: shipment request is required")
	}

	fromID, err := o.resolveCityStep(ctx, result, types.StepResolveFromCity, req.Shipment.FromCityName, req.FromCityID)
	if err != nil {
		return result, err
	}
	toID, err := o.resolveCityStep(ctx, result, types.StepResolveToCity, req.Shipment.ToCityName, req.ToCityID)
	if err != nil {
		return result, err
	}
	materialID, err := o.resolveMaterialStep(ctx, result, req.Shipment.MaterialName, req.MaterialID)
	if err != nil {
		return result, err
	}

	tripID, ok := o.createTrip(ctx, result, fromID, toID, req)
	if !ok {
		return result, nil
	}
	result.TripID = tripID

	parcelID, parcelVersion, ok := o.createParcel(ctx, result, tripID, materialID, fromID, toID, req.Shipment)
	if !ok {
		return result, nil
	}
	result.ParcelID = parcelID
	result.ParcelVersion = parcelVersion

	outcome, err := o.sessions.Start(ctx, o.cfg.CompanyID, tripID, parcelID, parcelVersion)
	if err != nil {
		result.Record(types.StepStartSelection, false, err.Error())
		return result, nil
	}
	result.Record(types.StepStartSelection, true, fmt.Sprintf("%d partner candidates", len(outcome.Candidates)))
	result.SessionID = outcome.SessionID
	result.Candidates = outcome.Candidates

	return result, nil
}

// SelectionOutcome is a selection step's result plus, once the session
// completes, the final parcel update's outcome. A failed update is reported
// here, not raised: the created trip and parcel stand.
type SelectionOutcome struct {
	*selection.Outcome
	Update      *types.VersionedResource `json:"update,omitempty"`
	UpdateError string                   `json:"update_error,omitempty"`
}

// Select applies one pick to a session. When the pick completes the session,
// the parcel update runs automatically and the session is discarded.
func (o *Orchestrator) Select(ctx context.Context, sessionID uuid.UUID, phase selection.Phase, candidateID string) (*SelectionOutcome, error) {
	session, err := o.sessions.Session(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := o.sessions.Select(ctx, sessionID, phase, candidateID)
	if err != nil {
		return nil, err
	}

	result := &SelectionOutcome{Outcome: outcome}
	if outcome.Done && outcome.Pair != nil {
		updated, uerr := o.updater.Apply(ctx, session.ParcelID, session.ParcelVersion, outcome.Pair)
		if uerr != nil {
			result.UpdateError = uerr.Error()
		} else {
			result.Update = updated
		}
		o.sessions.Drop(sessionID)
	}
	return result, nil
}

// Skip ends a session without selections. The parcel is left untouched and
// the session discarded.
func (o *Orchestrator) Skip(ctx context.Context, sessionID uuid.UUID) (*SelectionOutcome, error) {
	outcome, err := o.sessions.Skip(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	o.sessions.Drop(sessionID)
	return &SelectionOutcome{Outcome: outcome}, nil
}

func (o *Orchestrator) resolveCityStep(ctx context.Context, result *types.WorkflowResult, step, name, confirmedID string) (string, error) {
	if confirmedID != "" {
		result.Record(step, true, fmt.Sprintf("confirmed as %s", confirmedID))
		return confirmedID, nil
	}

	res, err := o.cities.Resolve(ctx, name)
	if err != nil {
		result.Record(step, false, err.Error())
		return "", err
	}

	switch res.Kind {
	case resolve.Exact:
		result.Record(step, true, fmt.Sprintf("%s (%s)", res.Ref.Name, res.Ref.ID))
		return res.Ref.ID, nil
	case resolve.Ambiguous:
		err := &AmbiguousReferenceError{
			Collection: "cities",
			Query:      name,
			Candidates: res.Candidates,
			BestGuess:  res.BestGuess,
		}
		result.Record(step, false, err.Error())
		return "", err
	default:
		err := &NotFoundError{Collection: "cities", Query: name}
		result.Record(step, false, err.Error())
		return "", err
	}
}

func (o *Orchestrator) resolveMaterialStep(ctx context.Context, result *types.WorkflowResult, name, confirmedID string) (string, error) {
	if confirmedID != "" {
		result.Record(types.StepResolveMaterial, true, fmt.Sprintf("confirmed as %s", confirmedID))
		return confirmedID, nil
	}
	if name == "" && o.cfg.DefaultMaterialID != "" {
		result.Record(types.StepResolveMaterial, true, "defaulted")
		return o.cfg.DefaultMaterialID, nil
	}

	res, err := o.materials.Resolve(ctx, name)
	if err != nil {
		result.Record(types.StepResolveMaterial, false, err.Error())
		return "", err
	}

	switch res.Kind {
	case resolve.Exact:
		result.Record(types.StepResolveMaterial, true, fmt.Sprintf("%s (%s)", res.Ref.Name, res.Ref.ID))
		return res.Ref.ID, nil

	case resolve.Ambiguous:
		// Materials tolerate a confident best guess; cities never do.
		if res.BestGuess != nil && res.BestGuess.Score >= o.cfg.MaterialAcceptThreshold {
			result.Record(types.StepResolveMaterial, true,
				fmt.Sprintf("accepted best guess %s (score %.2f)", res.BestGuess.Name, res.BestGuess.Score))
			return res.BestGuess.ID, nil
		}
		err := &AmbiguousReferenceError{
			Collection: "materials",
			Query:      name,
			Candidates: res.Candidates,
			BestGuess:  res.BestGuess,
		}
		result.Record(types.StepResolveMaterial, false, err.Error())
		return "", err

	default:
		if o.cfg.DefaultMaterialID != "" {
			result.Record(types.StepResolveMaterial, true, fmt.Sprintf("no match for %q, defaulted", name))
			return o.cfg.DefaultMaterialID, nil
		}
		err := &NotFoundError{Collection: "materials", Query: name}
		result.Record(types.StepResolveMaterial, false, err.Error())
		return "", err
	}
}

func (o *Orchestrator) createTrip(ctx context.Context, result *types.WorkflowResult, fromID, toID string, req StartRequest) (string, bool) {
	payload := map[string]any{
		"source":      fromID,
		"destination": toID,
	}
	if o.cfg.UserID != "" {
		payload["created_by"] = o.cfg.UserID
		payload["handled_by"] = o.cfg.UserID
	}
	if o.cfg.CompanyID != "" {
		payload["created_by_company"] = o.cfg.CompanyID
	}
	if v := req.Vehicles; v != nil && v.Count > 0 {
		specifics := map[string]any{
			"count":           v.Count,
			"vehicle_type":    v.VehicleType,
			"capacity_tonnes": v.CapacityTonnes,
		}
		if v.NumberOfWheels > 0 {
			specifics["number_of_wheels"] = v.NumberOfWheels
		}
		if v.BodyType != "" {
			specifics["vehicle_body_type"] = v.BodyType
		}
		if v.AxleType != "" {
			specifics["axle_type"] = v.AxleType
		}
		if v.ExpectedPrice > 0 {
			specifics["expected_price"] = v.ExpectedPrice
		}
		payload["specific_vehicle_requirements"] = specifics
	}

	created, err := o.trips.Create(ctx, payload)
	if err != nil {
		result.Record(types.StepCreateTrip, false, err.Error())
		return "", false
	}
	result.Record(types.StepCreateTrip, true, created.ID())
	return created.ID(), true
}

func (o *Orchestrator) createParcel(ctx context.Context, result *types.WorkflowResult, tripID, materialID, fromID, toID string, shipment *types.ShipmentRequest) (id, version string, ok bool) {
	payload := map[string]any{
		"trip_id":               tripID,
		"material_type":         materialID,
		"pickup_postal_address": postalAddress("Pickup", shipment.FromCityName, fromID, shipment.RawText),
		"unload_postal_address": postalAddress("Delivery", shipment.ToCityName, toID, shipment.RawText),
	}
	if shipment.Quantity > 0 {
		payload["quantity"] = shipment.Quantity
		payload["quantity_unit"] = shipment.QuantityUnit
	}
	if shipment.Cost > 0 {
		payload["cost"] = shipment.Cost
	}
	if shipment.PartLoad {
		payload["part_load"] = true
	}
	if shipment.Description != "" {
		payload["description"] = shipment.Description
	}
	if o.cfg.UserID != "" {
		payload["created_by"] = o.cfg.UserID
	}
	if o.cfg.CompanyID != "" {
		payload["created_by_company"] = o.cfg.CompanyID
	}

	created, err := o.parcels.Create(ctx, payload)
	if err != nil {
		result.Record(types.StepCreateParcel, false, err.Error())
		return "", "", false
	}
	result.Record(types.StepCreateParcel, true, created.ID())
	return created.ID(), created.Version(), true
}

var pinCodePattern = regexp.MustCompile(`\b(\d{6})\b`)

// postalAddress builds the pickup or unload address block for a parcel. The
// address line falls back to the city name; a six-digit PIN code is lifted
// from the utterance when the user stated one.
func postalAddress(kind, cityName, cityID, raw string) map[string]any {
	addr := map[string]any{
		"address_line_1": fmt.Sprintf("%s location in %s", kind, cityName),
		"city":           cityID,
		"pin":            0,
	}
	if m := pinCodePattern.FindStringSubmatch(raw); m != nil {
		if pin, err := strconv.Atoi(m[1]); err == nil {
			addr["pin"] = pin
		}
	}
	return addr
}
