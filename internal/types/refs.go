// Package types provides type definitions for structured data used throughout the freight-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResourceRef identifies a record in one remote collection along with its
// human-readable label. Once resolved it is never mutated.
type ResourceRef struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Name       string `json:"name"`

	// Region is an optional disambiguating label, such as a city's state.
	Region string `json:"region,omitempty"`
}

// Display renders the reference for humans, appending the region when one
// is known: "Jaipur (Rajasthan)".
func (r ResourceRef) Display() string {
	if r.Region != "" {
		return r.Name + " (" + r.Region + ")"
	}
	return r.Name
}

// ScoredRef pairs a ResourceRef with the similarity score it earned against a
// free-text query.
type ScoredRef struct {
	ResourceRef
	Score float64 `json:"score"`
}

// VersionedResource is a record plus the opaque version token its origin
// service returned. The token must accompany any conditional update.
type VersionedResource struct {
	ID      string         `json:"id"`
	Version string         `json:"version"`
	Fields  map[string]any `json:"fields,omitempty"`
}
