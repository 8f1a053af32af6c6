package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/logger"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range Root().Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"ask", "chat", "config", "history", "load", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_BootstrapReceivesConfigPath(t *testing.T) {
	prev := bootstrap
	t.Cleanup(func() {
		bootstrap = prev
		SetServices(nil)
	})
	SetServices(nil)

	qa := &mockQAService{history: domain.ChatLog{Questions: []string{}, Answers: []string{}}}
	var gotPath string
	closed := false
	SetBootstrap(func(path string) (*Services, error) {
		gotPath = path
		return &Services{
			QA:    qa,
			Close: func() error { closed = true; return nil },
		}, nil
	})

	out, err := execute(t, "", "--config", "/tmp/kbqa.yaml", "history")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/kbqa.yaml", gotPath)
	assert.Contains(t, out, "No chat history.")
	assert.True(t, closed)
	assert.NotNil(t, session)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	prev := bootstrap
	t.Cleanup(func() {
		bootstrap = prev
		SetServices(nil)
	})
	SetServices(nil)
	SetBootstrap(func(string) (*Services, error) { return nil, errBoom })

	_, err := execute(t, "", "history")

	assert.ErrorIs(t, err, errBoom)
}

func TestRootCmd_VerboseEnablesLogger(t *testing.T) {
	setupTestServices(t)
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, err := execute(t, "", "--verbose", "history")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestCommands_WithoutServices(t *testing.T) {
	prev := bootstrap
	t.Cleanup(func() { bootstrap = prev })
	bootstrap = nil
	SetServices(nil)

	for _, args := range [][]string{
		{"ask", "anything"},
		{"load", "docs"},
		{"history"},
		{"chat", "--plain"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, "", args...)
			assert.ErrorIs(t, err, errQANotConfigured)
		})
	}

	_, err := execute(t, "", "config", "show")
	assert.ErrorIs(t, err, errSettingsNotConfigured)
}
