package schemas

import _ "embed"

//go:embed shipment.schema.json
var shipmentRequestSchema string

//go:embed vehicle.schema.json
var vehicleRequirementsSchema string

// ValidateShipmentRequest checks LLM output against the shipment intake
// schema before it is unmarshaled.
func ValidateShipmentRequest(jsonContent string) error {
	return ValidateJSONString(shipmentRequestSchema, jsonContent)
}

// ValidateVehicleRequirements checks LLM output against the vehicle
// requirements schema.
func ValidateVehicleRequirements(jsonContent string) error {
	return ValidateJSONString(vehicleRequirementsSchema, jsonContent)
}
