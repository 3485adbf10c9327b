package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ops@example.com", user)
		assert.Equal(t, "secret", pass)
		assert.Contains(t, r.URL.Query().Get("where"), "ops@example.com")

		_, _ = w.Write([]byte(`{
			"token": "tok-abc",
			"user_record": {
				"_id": "u1",
				"username": "ops",
				"name": "Operations Desk",
				"email": "ops@example.com",
				"current_company": {"_id": "co1", "name": "Acme Logistics"}
			}
		}`))
	}))
	defer server.Close()

	auth := NewAuthClient(server.URL)
	identity, err := auth.Login(context.Background(), "ops@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "ops", identity.Username)
	assert.Equal(t, "co1", identity.CompanyID)
	assert.Equal(t, "tok-abc", identity.Token)
}

func TestAuthClient_Login_CompanyAsBareID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok","user_record":{"_id":"u1","current_company":"co9"}}`))
	}))
	defer server.Close()

	auth := NewAuthClient(server.URL)
	identity, err := auth.Login(context.Background(), "ops", "secret")
	require.NoError(t, err)
	assert.Equal(t, "co9", identity.CompanyID)
}

func TestAuthClient_Login_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"_error":{"code":401}}`))
	}))
	defer server.Close()

	auth := NewAuthClient(server.URL)
	_, err := auth.Login(context.Background(), "ops", "wrong")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}
