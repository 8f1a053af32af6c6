package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

// capability describes one configurable model role.
type capability struct {
	name      string
	title     string
	providers func() []domain.AIProvider
	models    func() map[domain.AIProvider]string
	set       func(driving.SettingsService, domain.AIProvider, string, string) error
}

var capabilities = map[string]capability{
	"embedding": {
		name:      "embedding",
		title:     "Embedding Provider",
		providers: domain.AllEmbeddingProviders,
		models:    domain.DefaultEmbeddingModels,
		set:       driving.SettingsService.SetEmbeddingProvider,
	},
	"qa": {
		name:      "qa",
		title:     "Extractive QA Provider",
		providers: domain.AllQAProviders,
		models:    domain.DefaultQAModels,
		set:       driving.SettingsService.SetQAProvider,
	},
	"llm": {
		name:      "llm",
		title:     "Generative Provider",
		providers: domain.AllLLMProviders,
		models:    domain.DefaultLLMModels,
		set:       driving.SettingsService.SetLLMProvider,
	},
}

var (
	providerFlag string
	modelFlag    string
	apiKeyFlag   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change kbqa settings.

Settings live in ~/.kbqa/config.toml (or config.yaml). Chunking, retrieval,
generation and chat log options are edited in that file; model providers
can also be set with the subcommands below.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and test provider connectivity",
	RunE:  runConfigValidate,
}

func newProviderCmd(c capability) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.name,
		Short: "Configure the " + strings.ToLower(c.title),
		Long: fmt.Sprintf(`Configure the %s.

Without --provider the command prompts for each value.`, strings.ToLower(c.title)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigProvider(cmd, c)
		},
	}
	cmd.Flags().StringVar(&providerFlag, "provider", "", "provider name")
	cmd.Flags().StringVar(&modelFlag, "model", "", "model name (default depends on provider)")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key for cloud providers")
	return cmd
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	for _, name := range []string{"embedding", "qa", "llm"} {
		configCmd.AddCommand(newProviderCmd(capabilities[name]))
	}
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Batch size: %d\n", settings.Retrieval.BatchSize)
	cmd.Println()

	printProvider(cmd, "Embedding", settings.Embedding)
	printProvider(cmd, "QA", settings.QA)
	printProvider(cmd, "LLM", settings.LLM)

	g := settings.Generation
	cmd.Println("[Generation]")
	cmd.Printf("  Max length: %d\n", g.MaxLength)
	cmd.Printf("  Temperature: %.2f\n", g.Temperature)
	cmd.Printf("  Top P: %.2f\n", g.TopP)
	cmd.Printf("  Sequences: %d\n", g.NumReturnSequences)
	cmd.Println()

	cmd.Println("[Limits]")
	if settings.Limits.Timeout > 0 {
		cmd.Printf("  Timeout: %s\n", settings.Limits.Timeout)
	} else {
		cmd.Println("  Timeout: none")
	}
	if settings.Limits.RequestsPerSecond > 0 {
		cmd.Printf("  Rate: %.2f/s (burst %d)\n", settings.Limits.RequestsPerSecond, settings.Limits.Burst)
	} else {
		cmd.Println("  Rate: unlimited")
	}
	cmd.Println()

	cmd.Println("[Chat Log]")
	cmd.Printf("  Backend: %s\n", settings.ChatLog.Backend)
	if settings.ChatLog.Backend != domain.ChatLogMemory {
		cmd.Printf("  Path: %s\n", settings.ChatLog.Path)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'kbqa config embedding|qa|llm' to fix provider settings.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, title string, p domain.ProviderSettings) {
	cmd.Printf("[%s]\n", title)
	cmd.Printf("  Provider: %s\n", p.Provider.Description())
	cmd.Printf("  Model: %s\n", p.Model)
	if p.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", p.BaseURL)
	}
	if p.Provider.RequiresAPIKey() {
		if p.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(p.APIKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	status := "configured"
	if !p.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	cmd.Print("Checking settings... ")
	if err := settingsService.Validate(); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")

	cmd.Print("Contacting providers... ")
	if err := settingsService.ValidateProviders(); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

func runConfigProvider(cmd *cobra.Command, c capability) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	provider, model, apiKey := domain.AIProvider(providerFlag), modelFlag, apiKeyFlag
	if providerFlag == "" {
		var err error
		provider, model, apiKey, err = promptProvider(cmd, c, bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return err
		}
	}

	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q", provider)
	}
	if model == "" {
		model = c.models()[provider]
	}

	if err := c.set(settingsService, provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", c.name, err)
	}

	cmd.Printf("%s configured: %s (%s)\n", c.title, provider.Description(), model)
	cmd.Println("Run 'kbqa config validate' to test connectivity.")
	return nil
}

func promptProvider(cmd *cobra.Command, c capability, reader *bufio.Reader) (domain.AIProvider, string, string, error) {
	cmd.Printf("Select %s\n", c.title)
	providers := c.providers()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := c.models()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readSecret(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return "", "", "", errors.New("API key is required for this provider")
		}
	}

	return provider, model, apiKey, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
