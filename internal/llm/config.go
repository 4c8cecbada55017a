// Package llm provides the model client and tier configuration used by the
// extractor and writer agents.
package llm

// ModelTier names the capability level a task requests. Tasks pick the
// cheapest tier that holds up: skill extraction runs on lite, requirement
// summaries on standard, and tailored documents on advanced.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
	TierAdvanced ModelTier = "advanced"
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
)

// Config maps tiers to model names and sampling temperatures.
type Config struct {
	Provider     Provider
	Models       map[ModelTier]string
	Temperatures map[ModelTier]float32
}

// fallbackTemperature keeps unspecified tiers near-deterministic.
const fallbackTemperature float32 = 0.2

// DefaultConfig returns the Gemini defaults. Structured tiers stay cold so
// extraction is reproducible; the advanced tier is warmer because document
// drafts should not read templated.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperatures: map[ModelTier]float32{
			TierLite:     0.1,
			TierStandard: 0.2,
			TierAdvanced: 0.7,
		},
	}
}

// GetModel returns the model name for a tier, degrading to standard and then
// lite when the requested tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, candidate := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[candidate]; ok {
			return model
		}
	}
	return ""
}

// Temperature returns the sampling temperature for a tier.
func (c *Config) Temperature(tier ModelTier) float32 {
	if temp, ok := c.Temperatures[tier]; ok {
		return temp
	}
	return fallbackTemperature
}
