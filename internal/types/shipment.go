package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Quantity units accepted on a shipment request. Anything else is
// normalized to KILOGRAMS before validation.
const (
	UnitKilograms = "KILOGRAMS"
	UnitTonnes    = "TONNES"
)

// ShipmentRequest represents a structured shipment intake extracted from a
// free-text user utterance.
type ShipmentRequest struct {
	FromCityName string  `json:"from_city_name" validate:"required,min=1"`
	ToCityName   string  `json:"to_city_name" validate:"required,min=1"`
	MaterialName string  `json:"material_name" validate:"required,min=1"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	QuantityUnit string  `json:"quantity_unit,omitempty" validate:"omitempty,oneof=KILOGRAMS TONNES"`
	Cost         float64 `json:"cost,omitempty" validate:"gte=0"`
	PartLoad     bool    `json:"part_load,omitempty"`
	Description  string  `json:"description,omitempty"`
	RawText      string  `json:"raw_text,omitempty"`
}

// VehicleRequirements captures how many vehicles of what kind a trip needs,
// plus any specifics the user stated about the vehicles themselves.
type VehicleRequirements struct {
	Count          int     `json:"count"`
	VehicleType    string  `json:"vehicle_type,omitempty"`
	CapacityTonnes float64 `json:"capacity_tonnes,omitempty"`

	NumberOfWheels int     `json:"number_of_wheels,omitempty"`
	BodyType       string  `json:"vehicle_body_type,omitempty"`
	AxleType       string  `json:"axle_type,omitempty"`
	ExpectedPrice  float64 `json:"expected_price,omitempty"`
}

// NormalizeUnit maps loose unit spellings ("kg", "ton", "mt") onto the
// canonical unit constants. Unknown units default to KILOGRAMS.
func NormalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "t", "ton", "tons", "tonne", "tonnes", "mt", "metric ton", "metric tons":
		return UnitTonnes
	default:
		return UnitKilograms
	}
}

// QuantityKilograms returns the quantity converted to kilograms.
func (r *ShipmentRequest) QuantityKilograms() float64 {
	if r.QuantityUnit == UnitTonnes {
		return r.Quantity * 1000
	}
	return r.Quantity
}

// Validate validates the ShipmentRequest using the validator.
func (r *ShipmentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
