package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/services"
	"github.com/custodia-labs/kbqa/internal/logger"
	"github.com/custodia-labs/kbqa/internal/normalisers"
	"github.com/custodia-labs/kbqa/internal/postprocessors/chunker"
)

// bootstrap builds the services from the config file at configPath.
func bootstrap(configPath string) (*cli.Services, error) {
	store, err := openConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	configDir := filepath.Dir(store.Path())

	settingsService := services.NewSettingsService(store, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	chatLog, err := openChatLog(settings.ChatLog, configDir)
	if err != nil {
		return nil, fmt.Errorf("opening chat log: %w", err)
	}

	source := filesystem.New(normalisers.NewDefaultRegistry())
	pipeline := services.NewPipeline(
		services.NewModelRegistry(ai.Factories(settings)),
		source,
		chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		),
		flat.Builder{},
		services.WithTopK(settings.Retrieval.TopK),
		services.WithBatchSize(settings.Retrieval.BatchSize),
		services.WithSynthesizer(services.NewSynthesizer(prompts, settings.Generation)),
		services.WithChatLog(chatLog),
	)

	session := domain.NewSession()
	if history, err := chatLog.Load(context.Background()); err != nil {
		logger.Warn("could not read chat history: %v", err)
	} else {
		session.RestoreTurns(history.Turns())
	}

	return &cli.Services{
		QA:       pipeline,
		Settings: settingsService,
		Session:  session,
		Watch: func(ctx context.Context, locators []string, reload func(context.Context) error) error {
			return filesystem.NewWatcher(source, locators, filesystem.DefaultDebounce).Run(ctx, reload)
		},
		Close: pipeline.Close,
	}, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	if path == "" {
		return file.NewConfigStore("")
	}
	return file.NewConfigStoreAt(path)
}

// openChatLog opens the configured chat log backend. Relative paths are
// resolved against configDir.
func openChatLog(cfg domain.ChatLogSettings, configDir string) (driven.ChatLogStore, error) {
	switch cfg.Backend {
	case domain.ChatLogMemory:
		return memory.NewChatLogStore(), nil
	case domain.ChatLogSQLite:
		path := cfg.Path
		if path == "" || path == domain.DefaultSettings().ChatLog.Path {
			path = sqlite.DefaultFileName
		}
		return sqlite.NewChatLogStore(resolve(configDir, path))
	default:
		path := cfg.Path
		if path == "" {
			path = jsonfile.DefaultFileName
		}
		return jsonfile.NewChatLogStore(resolve(configDir, path)), nil
	}
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
