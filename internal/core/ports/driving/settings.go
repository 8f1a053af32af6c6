package driving

import "github.com/custodia-labs/kbqa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetQAProvider configures the extractive QA provider.
	SetQAProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the generative provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks the settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ValidateProviders pings every configured provider.
	ValidateProviders() error
}
