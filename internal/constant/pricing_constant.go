package constant

// ModelPricing is USD per 1K tokens.
type ModelPricing struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

// ModelPricingTable drives cost computation for token usage rows. Unknown
// models fall back to DefaultPricing.
var ModelPricingTable = map[string]ModelPricing{
	"gpt-4o":        {PromptPer1K: 0.0025, CompletionPer1K: 0.01},
	"gpt-4o-mini":   {PromptPer1K: 0.00015, CompletionPer1K: 0.0006},
	"gpt-4-turbo":   {PromptPer1K: 0.01, CompletionPer1K: 0.03},
	"gpt-3.5-turbo": {PromptPer1K: 0.0005, CompletionPer1K: 0.0015},
}

var DefaultPricing = ModelPricing{PromptPer1K: 0.0025, CompletionPer1K: 0.01}

// PricingFor returns the pricing entry for a model.
func PricingFor(model string) ModelPricing {
	if p, ok := ModelPricingTable[model]; ok {
		return p
	}
	return DefaultPricing
}
