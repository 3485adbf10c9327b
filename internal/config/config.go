// Package config provides configuration loading and validation for the agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the agent needs to talk to the remote logistics
// services. Values come from environment variables; missing values use
// defaults where a sensible default exists.
type Config struct {
	// Remote services
	APIBaseURL   string // Base URL for all resource collections
	CitiesURL    string // Optional per-collection overrides
	MaterialsURL string
	TripsURL     string
	ParcelsURL   string
	PartnersURL  string
	CompaniesURL string
	AuthURL      string

	// Credentials
	Username string
	Password string

	// Operator identity used for created_by fields
	UserID    string
	CompanyID string

	// Workflow behavior
	DefaultMaterialID       string
	MaterialAcceptThreshold float64 // Auto-accept best material guess at or above this score
	PartnerPageSize         int

	// Client behavior
	ReadInterval   time.Duration // Minimum spacing between calls on read-heavy clients
	WriteInterval  time.Duration // Minimum spacing between calls on trip/parcel clients
	CacheTTL       time.Duration
	RequestTimeout time.Duration

	// LLM
	GeminiAPIKey string
}

// Load builds a Config from environment variables.
// API_BASE_URL, API_USERNAME and API_PASSWORD are required.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:              os.Getenv("API_BASE_URL"),
		CitiesURL:               os.Getenv("CITIES_URL"),
		MaterialsURL:            os.Getenv("MATERIALS_URL"),
		TripsURL:                os.Getenv("TRIPS_URL"),
		ParcelsURL:              os.Getenv("PARCELS_URL"),
		PartnersURL:             os.Getenv("PARTNERS_URL"),
		CompaniesURL:            os.Getenv("COMPANIES_URL"),
		AuthURL:                 os.Getenv("AUTH_URL"),
		Username:                os.Getenv("API_USERNAME"),
		Password:                os.Getenv("API_PASSWORD"),
		UserID:                  os.Getenv("CREATED_BY_ID"),
		CompanyID:               os.Getenv("CREATED_BY_COMPANY_ID"),
		DefaultMaterialID:       os.Getenv("DEFAULT_MATERIAL_ID"),
		MaterialAcceptThreshold: 0.8,
		PartnerPageSize:         5,
		ReadInterval:            5 * time.Second,
		WriteInterval:           1 * time.Second,
		CacheTTL:                300 * time.Second,
		RequestTimeout:          30 * time.Second,
		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
	}

	if v := os.Getenv("MATERIAL_ACCEPT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MATERIAL_ACCEPT_THRESHOLD: %v", err)
		}
		cfg.MaterialAcceptThreshold = f
	}
	if v := os.Getenv("PARTNER_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PARTNER_PAGE_SIZE: %v", err)
		}
		cfg.PartnerPageSize = n
	}
	if v := os.Getenv("READ_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid READ_INTERVAL_SECONDS: %v", err)
		}
		cfg.ReadInterval = time.Duration(n) * time.Second
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %v", err)
		}
		cfg.CacheTTL = time.Duration(n) * time.Second
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS: %v", err)
		}
		cfg.RequestTimeout = time.Duration(n) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config error: API_BASE_URL is required")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("config error: API_USERNAME and API_PASSWORD are required")
	}
	if c.MaterialAcceptThreshold < 0 || c.MaterialAcceptThreshold > 1 {
		return fmt.Errorf("config error: MATERIAL_ACCEPT_THRESHOLD must be in [0,1], got %v", c.MaterialAcceptThreshold)
	}
	if c.PartnerPageSize < 1 {
		return fmt.Errorf("config error: PARTNER_PAGE_SIZE must be at least 1")
	}
	return nil
}

// CollectionURL returns the endpoint for one collection, preferring a
// per-collection override and falling back to APIBaseURL/<collection>.
func (c *Config) CollectionURL(collection string) string {
	override := map[string]string{
		"cities":    c.CitiesURL,
		"materials": c.MaterialsURL,
		"trips":     c.TripsURL,
		"parcels":   c.ParcelsURL,
		"partners":  c.PartnersURL,
		"companies": c.CompaniesURL,
	}[collection]
	if override != "" {
		return override
	}
	return c.APIBaseURL + "/" + collection
}

// AuthEndpoint returns the login endpoint.
func (c *Config) AuthEndpoint() string {
	if c.AuthURL != "" {
		return c.AuthURL
	}
	return c.APIBaseURL + "/persons/authenticate"
}
