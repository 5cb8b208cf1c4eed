// Package store persists the research briefs produced for each user, so
// that follow-up requests can be interpreted against earlier research.
//
// Four backends implement HistoryStore:
//   - memory: process-local, for tests and one-off CLI runs
//   - sqlite: a single-file database with a briefs(id, user_id, topic, brief_json) table
//   - postgres: the same table in PostgreSQL via pgx, brief_json stored as JSONB
//   - redis: one list per user holding JSON-encoded briefs
//
// Backends create their schema when opened. Open selects a backend by name:
//
//	history, err := store.Open(ctx, store.Config{Backend: store.BackendSQLite, SQLitePath: "history.db"})
//	if err != nil {
//	    return err
//	}
//	defer history.Close()
package store
