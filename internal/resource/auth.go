package resource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/jonathan/freight-agent/internal/types"
)

// AuthClient performs login against the remote person directory. It is the
// one client that never carries the shared credentials: it authenticates
// each call with the username/password pair being verified.
type AuthClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewAuthClient creates a login client for the given authentication endpoint.
func NewAuthClient(endpoint string) *AuthClient {
	return &AuthClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithAuthHTTPClient replaces the underlying HTTP client.
func (a *AuthClient) WithAuthHTTPClient(hc *http.Client) *AuthClient {
	a.httpClient = hc
	return a
}

// Login verifies the credential pair against the person directory and
// returns the operator's identity, including the current company the remote
// service embeds in the user record.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*types.Identity, error) {
	where, err := json.Marshal(map[string]any{
		"$or": []map[string]any{
			{"username": username},
			{"email": username},
		},
	})
	if err != nil {
		return nil, &ValidationError{Collection: "persons", Operation: "authenticate", Message: err.Error()}
	}
	embedded, _ := json.Marshal(map[string]int{"user_record.current_company": 1})

	params := url.Values{}
	params.Set("where", string(where))
	params.Set("embedded", string(embedded))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Collection: "persons", Operation: "authenticate", Cause: err}
	}
	req.SetBasicAuth(username, password)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Collection: "persons", Operation: "authenticate", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Collection: "persons", Operation: "authenticate", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Collection: "persons", Operation: "authenticate", StatusCode: resp.StatusCode, Body: body}
	}

	record := gjson.GetBytes(body, "user_record")
	identity := &types.Identity{
		UserID:    record.Get("_id").String(),
		Username:  record.Get("username").String(),
		Name:      record.Get("name").String(),
		Email:     record.Get("email").String(),
		CompanyID: record.Get("current_company._id").String(),
		Token:     gjson.GetBytes(body, "token").String(),
	}
	if identity.CompanyID == "" {
		identity.CompanyID = record.Get("current_company").String()
	}
	return identity, nil
}
