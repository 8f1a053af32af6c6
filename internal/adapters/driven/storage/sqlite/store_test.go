package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func setupTestStore(t *testing.T) *ChatLogStore {
	t.Helper()

	store, err := NewChatLogStore(filepath.Join(t.TempDir(), "nested", DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestChatLogStore_EmptyLoad(t *testing.T) {
	store := setupTestStore(t)

	log, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
	assert.NotNil(t, log.Questions)
	assert.NotNil(t, log.Answers)
}

func TestChatLogStore_SaveReplaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.ChatLog{
		Questions: []string{"q1", "q2"},
		Answers:   []string{"a1", "a2"},
	}))
	require.NoError(t, store.Save(ctx, domain.ChatLog{
		Questions: []string{"q1"},
		Answers:   []string{"a1"},
	}))

	log, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, log.Questions)
	assert.Equal(t, []string{"a1"}, log.Answers)
}

func TestChatLogStore_PreservesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	log := domain.ChatLog{}
	for _, q := range []string{"first", "second", "third", "fourth"} {
		log.Questions = append(log.Questions, q)
		log.Answers = append(log.Answers, "answer to "+q)
	}
	require.NoError(t, store.Save(ctx, log))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, log.Questions, got.Questions)
	assert.Equal(t, log.Answers, got.Answers)
}

func TestChatLogStore_RejectsUnevenLog(t *testing.T) {
	store := setupTestStore(t)

	err := store.Save(context.Background(), domain.ChatLog{Questions: []string{"q"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatLogStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	ctx := context.Background()

	store, err := NewChatLogStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, domain.ChatLog{Questions: []string{"q"}, Answers: []string{"a"}}))
	require.NoError(t, store.Close())

	reopened, err := NewChatLogStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, path, reopened.Path())
	log, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, log.Questions)
}

func TestChatLogStore_MigrateSkipsAppliedVersions(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"001_chat_log.up.sql": {Data: []byte("THIS IS NOT SQL")},
		"002_notes.up.sql":    {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY)")},
		"README.md":           {Data: []byte("ignored")},
	}
	require.NoError(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}
