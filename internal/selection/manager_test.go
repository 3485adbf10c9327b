package selection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/freight-agent/internal/resource"
)

func fakePartners(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("where"))
		_, _ = w.Write([]byte(body))
	}))
}

func fakeCompanies(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
}

const twoPartners = `{"_items":[
	{"_id":"pa","name":"Sharma Traders","city":{"name":"Jaipur"}},
	{"_id":"pb","name":"Bose Freight","city":{"name":"Kolkata"}}
]}`

func newTestManager(t *testing.T, partnersBody, companiesBody string) *Manager {
	t.Helper()
	partnersSrv := fakePartners(t, partnersBody)
	t.Cleanup(partnersSrv.Close)
	companiesSrv := fakeCompanies(companiesBody)
	t.Cleanup(companiesSrv.Close)

	partners := resource.NewClient("partners", partnersSrv.URL, nil, resource.WithCacheTTL(0))
	companies := resource.NewClient("companies", companiesSrv.URL, nil, resource.WithCacheTTL(0))
	return NewManager(partners, companies, NewStore(0), 5)
}

func TestManager_StartListsCandidates(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)

	outcome, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	assert.Equal(t, PhaseConsigner, outcome.Phase)
	require.Len(t, outcome.Candidates, 2)
	assert.Equal(t, "Sharma Traders", outcome.Candidates[0].Name)
	assert.Equal(t, "Jaipur", outcome.Candidates[0].City)
	assert.NotEqual(t, uuid.Nil, outcome.SessionID)
}

func TestManager_ConsigneeBeforeConsignerFails(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	outcome, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), outcome.SessionID, PhaseConsignee, "pa")

	var ooo *OutOfOrderError
	require.ErrorAs(t, err, &ooo)
	assert.Equal(t, PhaseConsigner, ooo.Want)
	assert.Equal(t, PhaseConsignee, ooo.Got)
}

func TestManager_FullSelection(t *testing.T) {
	companies := `{"_items":[{"_id":"co-x","name":"Sharma Holdings","gstin":"08AAACS1429B1Z5"}]}`
	m := newTestManager(t, twoPartners, companies)

	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	mid, err := m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)
	assert.Equal(t, PhaseConsignee, mid.Phase)
	assert.Len(t, mid.Candidates, 2, "consignee picks from the same list")
	assert.False(t, mid.Done)

	done, err := m.Select(context.Background(), start.SessionID, PhaseConsignee, "pb")
	require.NoError(t, err)
	assert.True(t, done.Done)
	require.NotNil(t, done.Pair)
	assert.Equal(t, "Sharma Traders", done.Pair.Consigner.Name)
	assert.Equal(t, "Bose Freight", done.Pair.Consignee.Name)
	assert.Equal(t, "08AAACS1429B1Z5", done.Pair.Consigner.GSTIN)
}

func TestManager_SameCandidateForBothRoles(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)
	done, err := m.Select(context.Background(), start.SessionID, PhaseConsignee, "pa")
	require.NoError(t, err)

	assert.True(t, done.Done)
	assert.Equal(t, done.Pair.Consigner.ID, done.Pair.Consignee.ID)
}

func TestManager_ReselectingConsignerFails(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)
	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pb")

	var ooo *OutOfOrderError
	assert.ErrorAs(t, err, &ooo)
}

func TestManager_SelectAfterCompleteFails(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)
	_, err = m.Select(context.Background(), start.SessionID, PhaseConsignee, "pb")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsignee, "pb")
	var ooo *OutOfOrderError
	assert.ErrorAs(t, err, &ooo)
}

func TestManager_UnknownCandidate(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "nope")
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestManager_UnknownSession(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)

	_, err := m.Select(context.Background(), uuid.New(), PhaseConsigner, "pa")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestManager_EmptyCandidatePageAllowsSkip(t *testing.T) {
	m := newTestManager(t, `{"_items":[]}`, `{"_items":[]}`)

	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)
	assert.Empty(t, start.Candidates)

	outcome, err := m.Skip(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.True(t, outcome.Done)
	assert.Nil(t, outcome.Pair)
}

func TestManager_SkipAtConsigneePhase(t *testing.T) {
	m := newTestManager(t, twoPartners, `{"_items":[]}`)
	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)

	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)

	outcome, err := m.Skip(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
}

func TestManager_EnrichmentFailureDegrades(t *testing.T) {
	partnersSrv := fakePartners(t, twoPartners)
	t.Cleanup(partnersSrv.Close)
	companiesSrv := fakeCompanies(``)
	companiesSrv.Close()

	partners := resource.NewClient("partners", partnersSrv.URL, nil, resource.WithCacheTTL(0))
	companies := resource.NewClient("companies", companiesSrv.URL, nil, resource.WithCacheTTL(0))
	m := NewManager(partners, companies, NewStore(0), 5)

	start, err := m.Start(context.Background(), "co1", "t1", "p1", "v1")
	require.NoError(t, err)
	_, err = m.Select(context.Background(), start.SessionID, PhaseConsigner, "pa")
	require.NoError(t, err)

	done, err := m.Select(context.Background(), start.SessionID, PhaseConsignee, "pb")
	require.NoError(t, err)
	assert.True(t, done.Done)
	assert.Empty(t, done.Pair.Consigner.GSTIN)
	assert.Empty(t, done.Pair.Consigner.CompanyName)
}
