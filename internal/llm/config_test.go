package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModel_TierFallback(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))

	partial := &Config{Models: map[ModelTier]string{TierLite: "gemini-2.5-flash-lite"}}
	assert.Equal(t, "gemini-2.5-flash-lite", partial.GetModel(TierAdvanced), "degrades to the cheapest configured tier")

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Empty(t, empty.GetModel(TierStandard))
}

func TestTemperature_PerTier(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 0.1, cfg.Temperature(TierLite), 1e-6, "extraction stays near-deterministic")
	assert.Less(t, cfg.Temperature(TierStandard), cfg.Temperature(TierAdvanced), "drafting runs warmer than structured tasks")

	bare := &Config{}
	assert.InDelta(t, fallbackTemperature, bare.Temperature(TierAdvanced), 1e-6)
}
