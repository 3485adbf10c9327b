package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL_STANDARD", "gemini-2.5-flash-preview")

	config := ConfigFromEnv()

	assert.Equal(t, "gemini-2.5-flash-preview", config.GetModel(TierStandard))
	// Untouched tiers keep the defaults
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestConfigFromEnv_NoOverrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL_LITE", "")
	t.Setenv("GEMINI_MODEL_STANDARD", "")
	t.Setenv("GEMINI_MODEL_ADVANCED", "")

	assert.Equal(t, DefaultGeminiConfig(), ConfigFromEnv())
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier falls back to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "tuned-shipment-parser")

	// Original is unchanged
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))

	assert.Equal(t, "tuned-shipment-parser", newConfig.GetModel(TierStandard))

	// Other tiers carry over
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
}
