package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize       = "chunking.size"
	keyChunkOverlap    = "chunking.overlap"
	keyTopK            = "retrieval.top_k"
	keyBatchSize       = "retrieval.batch_size"
	keyGenMaxLength    = "generation.max_length"
	keyGenNumSequences = "generation.num_return_sequences"
	keyGenTemperature  = "generation.temperature"
	keyGenTopP         = "generation.top_p"
	keyGenPadTokenID   = "generation.pad_token_id"
	keyGenTruncation   = "generation.truncation"
	keyTimeoutSecs     = "limits.timeout_secs"
	keyRequestsPerSec  = "limits.requests_per_second"
	keyBurst           = "limits.burst"
	keyChatLogBackend  = "chatlog.backend"
	keyChatLogPath     = "chatlog.path"

	sectionEmbedding = "embedding"
	sectionQA        = "qa"
	sectionLLM       = "llm"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, filling unset keys with
// defaults. An api_key_env key names an environment variable that supplies
// the API key when api_key is not set.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Chunking: domain.ChunkSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:      s.getInt(keyTopK, defaults.Retrieval.TopK),
			BatchSize: s.getInt(keyBatchSize, defaults.Retrieval.BatchSize),
		},
		Generation: domain.GenerationSettings{
			MaxLength:          s.getInt(keyGenMaxLength, defaults.Generation.MaxLength),
			NumReturnSequences: s.getInt(keyGenNumSequences, defaults.Generation.NumReturnSequences),
			Temperature:        s.getFloat(keyGenTemperature, defaults.Generation.Temperature),
			TopP:               s.getFloat(keyGenTopP, defaults.Generation.TopP),
			PadTokenID:         s.getIntAllowZero(keyGenPadTokenID, defaults.Generation.PadTokenID),
			Truncation:         s.getBool(keyGenTruncation, defaults.Generation.Truncation),
		},
		Embedding: s.getProviderSettings(sectionEmbedding, defaults.Embedding),
		QA:        s.getProviderSettings(sectionQA, defaults.QA),
		LLM:       s.getProviderSettings(sectionLLM, defaults.LLM),
		Limits: domain.LimitSettings{
			Timeout: time.Duration(
				s.getIntAllowZero(keyTimeoutSecs, int(defaults.Limits.Timeout/time.Second)),
			) * time.Second,
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Limits.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, defaults.Limits.Burst),
		},
		ChatLog: domain.ChatLogSettings{
			Backend: s.getChatLogBackend(defaults.ChatLog.Backend),
			Path:    s.getString(keyChatLogPath, defaults.ChatLog.Path),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyBatchSize, settings.Retrieval.BatchSize},
		{keyGenMaxLength, settings.Generation.MaxLength},
		{keyGenNumSequences, settings.Generation.NumReturnSequences},
		{keyGenTemperature, settings.Generation.Temperature},
		{keyGenTopP, settings.Generation.TopP},
		{keyGenPadTokenID, settings.Generation.PadTokenID},
		{keyGenTruncation, settings.Generation.Truncation},
		{keyTimeoutSecs, int(settings.Limits.Timeout / time.Second)},
		{keyRequestsPerSec, settings.Limits.RequestsPerSecond},
		{keyBurst, settings.Limits.Burst},
		{keyChatLogBackend, string(settings.ChatLog.Backend)},
		{keyChatLogPath, settings.ChatLog.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if err := s.saveProviderSettings(sectionEmbedding, settings.Embedding); err != nil {
		return err
	}
	if err := s.saveProviderSettings(sectionQA, settings.QA); err != nil {
		return err
	}
	if err := s.saveProviderSettings(sectionLLM, settings.LLM); err != nil {
		return err
	}

	return nil
}

func (s *SettingsService) saveProviderSettings(section string, p domain.ProviderSettings) error {
	if err := s.configStore.Set(section+".provider", p.Provider.String()); err != nil {
		return fmt.Errorf("save %s provider: %w", section, err)
	}
	if err := s.configStore.Set(section+".model", p.Model); err != nil {
		return fmt.Errorf("save %s model: %w", section, err)
	}
	if err := s.configStore.Set(section+".base_url", p.BaseURL); err != nil {
		return fmt.Errorf("save %s base_url: %w", section, err)
	}
	// Keys resolved from the environment are not written back.
	if p.APIKey != "" && s.configStore.GetString(section+".api_key_env") == "" {
		if err := s.configStore.Set(section+".api_key", p.APIKey); err != nil {
			return fmt.Errorf("save %s api_key: %w", section, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	return s.setProvider("embedding", provider, model, apiKey,
		domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels(),
		func(settings *domain.Settings) *domain.ProviderSettings { return &settings.Embedding })
}

// SetQAProvider configures the extractive QA provider.
func (s *SettingsService) SetQAProvider(provider domain.AIProvider, model, apiKey string) error {
	return s.setProvider("qa", provider, model, apiKey,
		domain.AllQAProviders(), domain.DefaultQAModels(),
		func(settings *domain.Settings) *domain.ProviderSettings { return &settings.QA })
}

// SetLLMProvider configures the generative provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	return s.setProvider("LLM", provider, model, apiKey,
		domain.AllLLMProviders(), domain.DefaultLLMModels(),
		func(settings *domain.Settings) *domain.ProviderSettings { return &settings.LLM })
}

func (s *SettingsService) setProvider(
	capability string,
	provider domain.AIProvider,
	model, apiKey string,
	supported []domain.AIProvider,
	defaultModels map[domain.AIProvider]string,
	field func(*domain.Settings) *domain.ProviderSettings,
) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid %s provider: %s", capability, provider)
	}
	if !slices.Contains(supported, provider) {
		return fmt.Errorf("provider %s does not support %s", provider, capability)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	target := field(settings)
	target.Provider = provider

	if model != "" {
		target.Model = model
	} else {
		target.Model = defaultModels[provider]
	}

	if provider == domain.AIProviderOllama {
		if target.BaseURL == "" {
			target.BaseURL = defaultOllamaURL
		}
	} else {
		target.BaseURL = ""
	}

	target.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Chunking.Validate(); err != nil {
		return err
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidInput)
	}
	if !settings.ChatLog.Backend.IsValid() {
		return fmt.Errorf("%w: chat log backend %q", domain.ErrInvalidInput, settings.ChatLog.Backend)
	}

	checks := []struct {
		name     string
		settings domain.ProviderSettings
		supports func(domain.AIProvider) bool
	}{
		{"embedding", settings.Embedding, domain.AIProvider.SupportsEmbedding},
		{"qa", settings.QA, domain.AIProvider.SupportsQA},
		{"llm", settings.LLM, domain.AIProvider.SupportsGeneration},
	}
	for _, c := range checks {
		if !c.settings.IsConfigured() {
			return fmt.Errorf("%s provider %q is not configured", c.name, c.settings.Provider)
		}
		if !c.supports(c.settings.Provider) {
			return fmt.Errorf("provider %s does not support %s", c.settings.Provider, c.name)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateProviders pings every configured provider.
func (s *SettingsService) ValidateProviders() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := s.aiValidator.ValidateQA(&settings.QA); err != nil {
		return fmt.Errorf("qa: %w", err)
	}
	if err := s.aiValidator.ValidateLLM(&settings.LLM); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicit zero as a value rather than unset.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getProviderSettings(section string, defaults domain.ProviderSettings) domain.ProviderSettings {
	provider := s.getProvider(section+".provider", defaults.Provider)

	model := s.configStore.GetString(section + ".model")
	if model == "" {
		if provider == defaults.Provider {
			model = defaults.Model
		} else {
			model = defaultModelFor(section, provider)
		}
	}

	apiKey := s.configStore.GetString(section + ".api_key")
	if apiKey == "" {
		if env := s.configStore.GetString(section + ".api_key_env"); env != "" {
			apiKey = os.Getenv(env)
		}
	}

	return domain.ProviderSettings{
		Provider: provider,
		Model:    model,
		BaseURL:  s.configStore.GetString(section + ".base_url"),
		APIKey:   apiKey,
	}
}

func defaultModelFor(section string, provider domain.AIProvider) string {
	switch section {
	case sectionEmbedding:
		return domain.DefaultEmbeddingModels()[provider]
	case sectionQA:
		return domain.DefaultQAModels()[provider]
	default:
		return domain.DefaultLLMModels()[provider]
	}
}

func (s *SettingsService) getChatLogBackend(defaultVal domain.ChatLogBackend) domain.ChatLogBackend {
	backend := domain.ChatLogBackend(s.configStore.GetString(keyChatLogBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
