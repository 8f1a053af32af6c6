package ai

import (
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates provider configurations by pinging them.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration.
func (v *ConfigValidator) ValidateEmbedding(config *domain.ProviderSettings) error {
	return ValidateEmbeddingConfig(config)
}

// ValidateQA validates an extractive QA configuration.
func (v *ConfigValidator) ValidateQA(config *domain.ProviderSettings) error {
	return ValidateQAConfig(config)
}

// ValidateLLM validates a generative configuration.
func (v *ConfigValidator) ValidateLLM(config *domain.ProviderSettings) error {
	return ValidateLLMConfig(config)
}
