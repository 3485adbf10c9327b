package resource

import (
	"github.com/jonathan/freight-agent/internal/config"
)

// Registry wires one client per collection, all sharing a single credential
// store. Read-heavy collections get the longer interval and the cache;
// trip/parcel clients write, so they are spaced tighter and their create and
// update calls bypass the cache anyway.
type Registry struct {
	Cities    *Client
	Materials *Client
	Trips     *Client
	Parcels   *Client
	Partners  *Client
	Companies *Client
	Auth      *AuthClient

	creds *Credentials
}

// NewRegistry builds the full client set from configuration.
func NewRegistry(cfg *config.Config) *Registry {
	creds := NewBasicCredentials(cfg.Username, cfg.Password)

	readOpts := []Option{
		WithMinInterval(cfg.ReadInterval),
		WithCacheTTL(cfg.CacheTTL),
	}
	// Trip and parcel reads are never cached: a stale-version retry must
	// see the version the service holds right now.
	writeOpts := []Option{
		WithMinInterval(cfg.WriteInterval),
		WithCacheTTL(0),
	}

	return &Registry{
		Cities:    NewClient("cities", cfg.CollectionURL("cities"), creds, readOpts...),
		Materials: NewClient("materials", cfg.CollectionURL("materials"), creds, readOpts...),
		Trips:     NewClient("trips", cfg.CollectionURL("trips"), creds, writeOpts...),
		Parcels:   NewClient("parcels", cfg.CollectionURL("parcels"), creds, writeOpts...),
		Partners:  NewClient("partners", cfg.CollectionURL("partners"), creds, readOpts...),
		Companies: NewClient("companies", cfg.CollectionURL("companies"), creds, readOpts...),
		Auth:      NewAuthClient(cfg.AuthEndpoint()),
		creds:     creds,
	}
}

// SetToken switches every collection client to bearer-token auth.
func (r *Registry) SetToken(token string) {
	r.creds.SetToken(token)
}
