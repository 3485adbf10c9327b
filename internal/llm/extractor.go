// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/freight-agent/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ShipmentRequest")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "number", "boolean"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ShipmentRequestSchema returns the extraction schema for shipment intake
// messages ("ship 25kg paint from Jaipur to Kolkata for 3000").
func ShipmentRequestSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "ShipmentRequest",
		Description: prompts.MustGet("parsing.json", "extract-shipment-request"),
		Fields: []SchemaField{
			{
				Name:        "from_city_name",
				Type:        "\"string\"",
				Description: "Origin city exactly as written, even if misspelled",
				Required:    true,
			},
			{
				Name:        "to_city_name",
				Type:        "\"string\"",
				Description: "Destination city exactly as written, even if misspelled",
				Required:    true,
			},
			{
				Name:        "material_name",
				Type:        "\"string\"",
				Description: "What is being shipped, exactly as written",
				Required:    true,
			},
			{
				Name:        "quantity",
				Type:        "number",
				Description: "Numeric quantity, 0 if not mentioned",
				Required:    false,
			},
			{
				Name:        "quantity_unit",
				Type:        "\"string\"",
				Description: "Unit as written (kg, tonnes, ...), empty if not mentioned",
				Required:    false,
			},
			{
				Name:        "cost",
				Type:        "number",
				Description: "Agreed freight cost if mentioned, 0 otherwise",
				Required:    false,
			},
			{
				Name:        "part_load",
				Type:        "boolean",
				Description: "true if the message implies sharing vehicle space (part load/LTL)",
				Required:    false,
			},
		},
	}
}

// VehicleRequirementsSchema returns the extraction schema for vehicle needs
// mentioned in a shipment message ("need 2 trucks", "one 20ft container").
func VehicleRequirementsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "VehicleRequirements",
		Description: prompts.MustGet("parsing.json", "extract-vehicle-requirements"),
		Fields: []SchemaField{
			{
				Name:        "count",
				Type:        "number",
				Description: "How many vehicles are needed, 0 if not mentioned",
				Required:    true,
			},
			{
				Name:        "vehicle_type",
				Type:        "\"string\"",
				Description: "Vehicle kind as written (truck, trailer, container, ...)",
				Required:    false,
			},
			{
				Name:        "capacity_tonnes",
				Type:        "number",
				Description: "Per-vehicle capacity in tonnes if mentioned, 0 otherwise",
				Required:    false,
			},
			{
				Name:        "number_of_wheels",
				Type:        "number",
				Description: "Stated wheel count (4, 6, 8, 10), 0 if not mentioned",
				Required:    false,
			},
			{
				Name:        "vehicle_body_type",
				Type:        "\"string\"",
				Description: "Body type as written (truck, trailer, container, tanker), empty if not mentioned",
				Required:    false,
			},
			{
				Name:        "axle_type",
				Type:        "\"string\"",
				Description: "single, double or triple if an axle type is mentioned",
				Required:    false,
			},
			{
				Name:        "expected_price",
				Type:        "number",
				Description: "Expected vehicle price or budget if mentioned, 0 otherwise",
				Required:    false,
			},
		},
	}
}
