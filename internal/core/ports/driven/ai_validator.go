package driven

import "github.com/custodia-labs/kbqa/internal/core/domain"

// AIConfigValidator validates AI provider configurations by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	ValidateEmbedding(settings *domain.ProviderSettings) error

	// ValidateQA pings the configured extractive QA provider.
	ValidateQA(settings *domain.ProviderSettings) error

	// ValidateLLM pings the configured generative provider.
	ValidateLLM(settings *domain.ProviderSettings) error
}
