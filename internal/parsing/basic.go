package parsing

import (
	"regexp"
	"strconv"

	"github.com/jonathan/freight-agent/internal/types"
)

// shipmentPattern matches the common intake phrasing:
// "ship 25kg paint from Jaipur to Kolkata for 3000".
var shipmentPattern = regexp.MustCompile(
	`(?i)\bship\s+(?:(\d+(?:\.\d+)?)\s*(kg|kgs|kilograms?|t|tons?|tonnes?|mt)\s+)?(.+?)\s+from\s+(.+?)\s+to\s+(.+?)(?:\s+for\s+(?:rs\.?\s*)?(\d+(?:\.\d+)?))?\s*[.!]?\s*$`,
)

// ParseShipmentRequestBasic extracts a shipment request with a regex instead
// of the LLM. It handles only the canonical phrasing; anything else returns
// a ParseError so callers can fall back to asking the user for structure.
func ParseShipmentRequestBasic(message string) (*types.ShipmentRequest, error) {
	m := shipmentPattern.FindStringSubmatch(message)
	if m == nil {
		return nil, &ParseError{Message: "message does not match the shipment pattern"}
	}

	req := &types.ShipmentRequest{
		MaterialName: collapseSpaces(m[3]),
		FromCityName: collapseSpaces(m[4]),
		ToCityName:   collapseSpaces(m[5]),
	}
	if m[1] != "" {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, &ParseError{Message: "unreadable quantity", Cause: err}
		}
		req.Quantity = qty
		req.QuantityUnit = types.NormalizeUnit(m[2])
	}
	if m[6] != "" {
		cost, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			return nil, &ParseError{Message: "unreadable cost", Cause: err}
		}
		req.Cost = cost
	}

	normalizeRequest(req, message)
	if err := req.Validate(); err != nil {
		return nil, &ParseError{Message: "parsed shipment request is incomplete", Cause: err}
	}
	return req, nil
}
