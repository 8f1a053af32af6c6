// Package sqlite provides a SQLite-backed chat log store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The schema is managed through versioned migrations embedded
// from the migrations/ directory; each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.kbqa/chat_history.db
//
// # Thread Safety
//
// All operations are thread-safe. Each Save replaces the stored history inside
// a single transaction.
package sqlite
