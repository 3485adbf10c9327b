// Package parsing turns free-text shipment messages into structured
// requests using LLM extraction, with a regex fallback for offline use.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/freight-agent/internal/llm"
	"github.com/jonathan/freight-agent/internal/schemas"
	"github.com/jonathan/freight-agent/internal/types"
)

// Parser extracts structured shipment data from user utterances.
type Parser struct {
	client llm.Client
}

// NewParser creates a parser over an LLM client.
func NewParser(client llm.Client) *Parser {
	return &Parser{client: client}
}

// ParseShipmentRequest extracts a structured ShipmentRequest from a user
// message. The LLM output is schema-validated before it is trusted.
func (p *Parser) ParseShipmentRequest(ctx context.Context, message string) (*types.ShipmentRequest, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Message: "message is empty"}
	}

	prompt := llm.BuildExtractionPrompt(llm.ShipmentRequestSchema(), message)

	responseText, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "failed to extract shipment request", Cause: err}
	}

	responseText = llm.CleanJSONBlock(responseText)
	if err := schemas.ValidateShipmentRequest(responseText); err != nil {
		return nil, &ParseError{Message: "shipment extraction failed schema validation", Cause: err}
	}

	var req types.ShipmentRequest
	if err := json.Unmarshal([]byte(responseText), &req); err != nil {
		return nil, &ParseError{Message: "failed to parse shipment JSON", Cause: err}
	}

	normalizeRequest(&req, message)
	if err := req.Validate(); err != nil {
		return nil, &ParseError{Message: "extracted shipment request is incomplete", Cause: err}
	}
	return &req, nil
}

// ParseVehicleRequirements extracts vehicle needs from a user message.
// Messages without vehicle mentions yield a zero count, not an error.
func (p *Parser) ParseVehicleRequirements(ctx context.Context, message string) (*types.VehicleRequirements, error) {
	prompt := llm.BuildExtractionPrompt(llm.VehicleRequirementsSchema(), message)

	responseText, err := p.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Message: "failed to extract vehicle requirements", Cause: err}
	}

	responseText = llm.CleanJSONBlock(responseText)
	if err := schemas.ValidateVehicleRequirements(responseText); err != nil {
		return nil, &ParseError{Message: "vehicle extraction failed schema validation", Cause: err}
	}

	var reqs types.VehicleRequirements
	if err := json.Unmarshal([]byte(responseText), &reqs); err != nil {
		return nil, &ParseError{Message: "failed to parse vehicle JSON", Cause: err}
	}
	return &reqs, nil
}

// normalizeRequest trims names, canonicalizes the unit and keeps the raw
// message for audit.
func normalizeRequest(req *types.ShipmentRequest, raw string) {
	req.FromCityName = collapseSpaces(req.FromCityName)
	req.ToCityName = collapseSpaces(req.ToCityName)
	req.MaterialName = collapseSpaces(req.MaterialName)
	if req.Quantity > 0 || req.QuantityUnit != "" {
		req.QuantityUnit = types.NormalizeUnit(req.QuantityUnit)
	}
	req.RawText = raw
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
