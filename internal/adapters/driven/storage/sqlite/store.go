package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// DefaultFileName is the database file used when only a directory is known.
const DefaultFileName = "chat_history.db"

// Ensure ChatLogStore implements the interface.
var _ driven.ChatLogStore = (*ChatLogStore)(nil)

// ChatLogStore persists the chat history in a SQLite database.
type ChatLogStore struct {
	db   *sql.DB
	path string
}

// NewChatLogStore opens (or creates) the database at path and applies
// pending migrations. If path is empty, defaults to ~/.kbqa/chat_history.db.
func NewChatLogStore(path string) (*ChatLogStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".kbqa", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &ChatLogStore{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Save replaces the stored turns with log.
func (s *ChatLogStore) Save(ctx context.Context, log domain.ChatLog) error {
	if len(log.Questions) != len(log.Answers) {
		return fmt.Errorf("%w: %d questions but %d answers",
			domain.ErrInvalidInput, len(log.Questions), len(log.Answers))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_turns`); err != nil {
		return fmt.Errorf("clearing chat log: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chat_turns (position, question, answer, saved_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range log.Questions {
		if _, err := stmt.ExecContext(ctx, i, log.Questions[i], log.Answers[i], now); err != nil {
			return fmt.Errorf("saving turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chat log: %w", err)
	}
	return nil
}

// Load returns the stored turns in order.
func (s *ChatLogStore) Load(ctx context.Context) (domain.ChatLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, answer FROM chat_turns ORDER BY position`)
	if err != nil {
		return domain.ChatLog{}, fmt.Errorf("querying chat log: %w", err)
	}
	defer rows.Close()

	log := domain.ChatLog{Questions: []string{}, Answers: []string{}}
	for rows.Next() {
		var question, answer string
		if err := rows.Scan(&question, &answer); err != nil {
			return domain.ChatLog{}, fmt.Errorf("scanning turn: %w", err)
		}
		log.Questions = append(log.Questions, question)
		log.Answers = append(log.Answers, answer)
	}
	if err := rows.Err(); err != nil {
		return domain.ChatLog{}, fmt.Errorf("iterating chat log: %w", err)
	}
	return log, nil
}

// Close closes the database connection.
func (s *ChatLogStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ChatLogStore) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *ChatLogStore) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *ChatLogStore) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}
