package resource

import (
	"github.com/tidwall/gjson"

	"github.com/jonathan/freight-agent/internal/types"
)

// Result holds one successful response from a collection endpoint.
type Result struct {
	StatusCode int
	Body       []byte
}

// ID returns the document identifier from a create/read response.
func (r *Result) ID() string {
	return gjson.GetBytes(r.Body, "_id").String()
}

// Version returns the opaque version token from a create/read/update
// response, or "" if the service did not include one.
func (r *Result) Version() string {
	return gjson.GetBytes(r.Body, "_etag").String()
}

// Items returns the documents of a list/search response. A single-document
// response is returned as a one-element slice.
func (r *Result) Items() []gjson.Result {
	items := gjson.GetBytes(r.Body, "_items")
	if items.IsArray() {
		return items.Array()
	}
	if gjson.GetBytes(r.Body, "_id").Exists() {
		return []gjson.Result{gjson.ParseBytes(r.Body)}
	}
	return nil
}

// Versioned converts a single-document response into a VersionedResource,
// parsing the full field set so updates can start from the current state.
func (r *Result) Versioned() types.VersionedResource {
	fields := map[string]any{}
	parsed := gjson.ParseBytes(r.Body)
	if parsed.IsObject() {
		if m, ok := parsed.Value().(map[string]any); ok {
			fields = m
		}
	}
	return types.VersionedResource{
		ID:      r.ID(),
		Version: r.Version(),
		Fields:  fields,
	}
}

// Refs converts a list/search response into resource references, reading the
// display name from the given field.
func (r *Result) Refs(collection, nameField string) []types.ResourceRef {
	return r.RefsWithRegion(collection, nameField, "")
}

// RefsWithRegion additionally reads a region label (a state or district
// pulled in by an embedded spec) from the given path on each document.
func (r *Result) RefsWithRegion(collection, nameField, regionField string) []types.ResourceRef {
	items := r.Items()
	refs := make([]types.ResourceRef, 0, len(items))
	for _, item := range items {
		ref := types.ResourceRef{
			Collection: collection,
			ID:         item.Get("_id").String(),
			Name:       item.Get(nameField).String(),
		}
		if regionField != "" {
			ref.Region = item.Get(regionField).String()
		}
		refs = append(refs, ref)
	}
	return refs
}
