package resource

import (
	"net/http"
	"sync"
)

// Credentials holds the authentication material shared by all collection
// clients. A bearer token, once set, takes precedence over basic auth.
type Credentials struct {
	mu       sync.RWMutex
	username string
	password string
	token    string
}

// NewBasicCredentials returns credentials that authenticate with a
// username/password pair.
func NewBasicCredentials(username, password string) *Credentials {
	return &Credentials{username: username, password: password}
}

// SetToken switches the credentials to bearer-token authentication.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// apply attaches the current authentication material to an outbound request.
func (c *Credentials) apply(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		return
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}
