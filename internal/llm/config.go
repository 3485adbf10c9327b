// Package llm holds the model configuration and client for the language
// model calls the intake pipeline makes.
package llm

import "os"

// ModelTier buckets calls by how much reasoning they need
type ModelTier string

const (
	// TierLite covers cheap single-field extraction, such as picking a
	// confirmed city name out of a short reply
	TierLite ModelTier = "lite"
	// TierStandard covers full shipment parsing from a free-text message
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for multi-step planning calls
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies a language model vendor
type Provider string

// Provider constants define the supported vendors
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider (future)
	ProviderAnthropic Provider = "anthropic"
)

// Config maps each tier onto a concrete model name
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini tier mapping
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// ConfigFromEnv returns the default configuration with any per-tier
// overrides from GEMINI_MODEL_LITE, GEMINI_MODEL_STANDARD and
// GEMINI_MODEL_ADVANCED applied.
func ConfigFromEnv() *Config {
	config := DefaultGeminiConfig()
	overrides := map[ModelTier]string{
		TierLite:     os.Getenv("GEMINI_MODEL_LITE"),
		TierStandard: os.Getenv("GEMINI_MODEL_STANDARD"),
		TierAdvanced: os.Getenv("GEMINI_MODEL_ADVANCED"),
	}
	for tier, model := range overrides {
		if model != "" {
			config.Models[tier] = model
		}
	}
	return config
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a copy of the Config with one tier remapped
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
