package update

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// fakeParcelService is an in-memory parcel endpoint with Eve-style
// If-Match semantics.
type fakeParcelService struct {
	etag    string
	fields  map[string]any
	reads   int
	patches int

	lastPayload map[string]any
	lastIfMatch string
}

func (f *fakeParcelService) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.reads++
			doc := map[string]any{"_id": "p1", "_etag": f.etag}
			for k, v := range f.fields {
				doc[k] = v
			}
			_ = json.NewEncoder(w).Encode(doc)

		case http.MethodPatch:
			f.patches++
			f.lastIfMatch = r.Header.Get("If-Match")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &f.lastPayload)

			if f.lastIfMatch != f.etag {
				w.WriteHeader(http.StatusPreconditionFailed)
				_, _ = w.Write([]byte(`{"_error":{"code":412}}`))
				return
			}
			f.etag = f.etag + "x"
			_ = json.NewEncoder(w).Encode(map[string]any{"_id": "p1", "_etag": f.etag})
		}
	}
}

func testPair() *types.SelectionPair {
	return &types.SelectionPair{
		Consigner: types.PartnerCandidate{ID: "pa", Name: "Sharma Traders", AffiliatedCompany: "co-a", GSTIN: "GSTA"},
		Consignee: types.PartnerCandidate{ID: "pb", Name: "Bose Freight", AffiliatedCompany: "co-b", GSTIN: "GSTB"},
	}
}

func newTestUpdater(t *testing.T, svc *fakeParcelService) *Updater {
	t.Helper()
	server := httptest.NewServer(svc.handler())
	t.Cleanup(server.Close)
	return NewUpdater(resource.NewClient("parcels", server.URL, nil, resource.WithCacheTTL(0)))
}

func TestUpdater_FreshToken_SingleUpdateCall(t *testing.T) {
	svc := &fakeParcelService{etag: "v1", fields: map[string]any{"material_type": "m9", "quantity": 25.0}}
	updater := newTestUpdater(t, svc)

	result, err := updater.Apply(context.Background(), "p1", "v1", testPair())
	require.NoError(t, err)

	assert.Equal(t, 1, svc.patches)
	assert.Equal(t, "v1x", result.Version)
}

func TestUpdater_PayloadMergesCurrentFields(t *testing.T) {
	svc := &fakeParcelService{etag: "v1", fields: map[string]any{
		"material_type": "m9",
		"quantity":      25.0,
		"trip_id":       "t1",
		"internal_flag": true,
	}}
	updater := newTestUpdater(t, svc)

	_, err := updater.Apply(context.Background(), "p1", "v1", testPair())
	require.NoError(t, err)

	assert.Equal(t, "m9", svc.lastPayload["material_type"])
	assert.Equal(t, "t1", svc.lastPayload["trip_id"])
	assert.NotContains(t, svc.lastPayload, "internal_flag")

	sender, ok := svc.lastPayload["sender"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pa", sender["sender_person"])
	assert.Equal(t, "co-a", sender["sender_company"])
	assert.Equal(t, "GSTA", sender["gstin"])

	receiver, ok := svc.lastPayload["receiver"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pb", receiver["receiver_person"])
	assert.Equal(t, "Bose Freight", receiver["name"])
}

func TestUpdater_MissingToken_RecoveredByRead(t *testing.T) {
	svc := &fakeParcelService{etag: "v7", fields: map[string]any{}}
	updater := newTestUpdater(t, svc)

	result, err := updater.Apply(context.Background(), "p1", "", testPair())
	require.NoError(t, err)

	assert.Equal(t, 1, svc.patches)
	assert.Equal(t, "v7x", result.Version)
}

func TestUpdater_StaleToken_RetriesExactlyOnce(t *testing.T) {
	svc := &fakeParcelService{etag: "v2", fields: map[string]any{}}
	updater := newTestUpdater(t, svc)

	// Token from creation time is stale: the service has moved to v2.
	result, err := updater.Apply(context.Background(), "p1", "v1", testPair())
	require.NoError(t, err)

	assert.Equal(t, 2, svc.patches)
	assert.Equal(t, "v2x", result.Version)
}

func TestUpdater_SecondStaleRejection_Terminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"_id":"p1","_etag":"v-moving"}`))
		case http.MethodPatch:
			w.WriteHeader(http.StatusPreconditionFailed)
			_, _ = w.Write([]byte(`{"_error":{"code":412}}`))
		}
	}))
	defer server.Close()

	updater := NewUpdater(resource.NewClient("parcels", server.URL, nil, resource.WithCacheTTL(0)))
	_, err := updater.Apply(context.Background(), "p1", "v1", testPair())

	var pfe *PreconditionFailedError
	require.ErrorAs(t, err, &pfe)
	assert.Equal(t, "p1", pfe.ParcelID)
	assert.True(t, resource.IsPreconditionFailed(pfe.Cause))
}

func TestUpdater_NonPreconditionFailure_NoRetry(t *testing.T) {
	patches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"_id":"p1","_etag":"v1"}`))
		case http.MethodPatch:
			patches++
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	updater := NewUpdater(resource.NewClient("parcels", server.URL, nil, resource.WithCacheTTL(0)))
	_, err := updater.Apply(context.Background(), "p1", "v1", testPair())

	require.Error(t, err)
	assert.Equal(t, 1, patches)

	var pfe *PreconditionFailedError
	assert.False(t, errors.As(err, &pfe))
}

func TestUpdater_RequiresPair(t *testing.T) {
	updater := NewUpdater(resource.NewClient("parcels", "http://unreachable.invalid", nil))
	_, err := updater.Apply(context.Background(), "p1", "v1", nil)
	assert.Error(t, err)
}
