// Package cli provides the kbqa command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Commands carrying this annotation run without the core services.
const annotationStandalone = "kbqa.standalone"

// WatchFunc watches the documents named by locators and calls reload
// after they change, until ctx is cancelled.
type WatchFunc func(ctx context.Context, locators []string, reload func(ctx context.Context) error) error

// Services is everything the commands need from the core.
type Services struct {
	QA       driving.QAService
	Settings driving.SettingsService
	Session  *domain.Session

	// Watch enables hot reload in chat. Optional.
	Watch WatchFunc

	// Close releases resources. Optional.
	Close func() error
}

// BootstrapFunc builds the services from the config file at configPath.
// An empty path selects the default location.
type BootstrapFunc func(configPath string) (*Services, error)

var (
	version    = "dev"
	verbose    bool
	configPath string

	bootstrap BootstrapFunc
	closer    func() error

	qaService       driving.QAService
	settingsService driving.SettingsService
	session         *domain.Session
	watchFunc       WatchFunc
)

var errQANotConfigured = errors.New("QA service not configured")

var rootCmd = &cobra.Command{
	Use:   "kbqa",
	Short: "Ask questions about your documents",
	Long: `kbqa answers questions about a local collection of documents.

Documents are split into passages, embedded and kept in an in-memory
vector index. Questions are answered either by extracting a span from the
most relevant passages (qa mode) or by generating a response conditioned
on them (generative mode).`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.kbqa/config.toml)")
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// SetBootstrap sets the function that builds the services before a
// command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		qaService, settingsService, session, watchFunc, closer = nil, nil, nil, nil, nil
		return
	}
	qaService = s.QA
	settingsService = s.Settings
	session = s.Session
	watchFunc = s.Watch
	closer = s.Close
	if session == nil {
		session = domain.NewSession()
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationStandalone] == "true" || bootstrap == nil || qaService != nil {
		return nil
	}

	services, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closer == nil {
		return nil
	}
	err := closer()
	closer = nil
	return err
}

func requireQA() error {
	if qaService == nil {
		return errQANotConfigured
	}
	if session == nil {
		session = domain.NewSession()
	}
	return nil
}
