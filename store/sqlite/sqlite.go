// Package sqlite stores research briefs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the database file used when Options.Path is empty.
const DefaultPath = "research_final_history.db"

// HistoryStore keeps briefs in a briefs(id, user_id, topic, brief_json) table.
type HistoryStore struct {
	db        *sql.DB
	tableName string
}

// Options configures the SQLite connection.
type Options struct {
	Path      string
	TableName string // Default "briefs"
}

// NewHistoryStore opens the database and creates the table if needed.
func NewHistoryStore(opts Options) (*HistoryStore, error) {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "briefs"
	}

	store := &HistoryStore{
		db:        db,
		tableName: tableName,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// InitSchema creates the briefs table if it doesn't exist.
func (s *HistoryStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			brief_json TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s (user_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// SaveBrief stores a brief for userID.
func (s *HistoryStore) SaveBrief(ctx context.Context, userID string, brief research.FinalBrief) error {
	briefJSON, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (user_id, topic, brief_json) VALUES (?, ?, ?)", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, userID, brief.Topic, string(briefJSON)); err != nil {
		return fmt.Errorf("failed to save brief: %w", err)
	}
	return nil
}

// GetBriefsForUser returns the user's briefs, oldest first.
func (s *HistoryStore) GetBriefsForUser(ctx context.Context, userID string) ([]research.FinalBrief, error) {
	query := fmt.Sprintf("SELECT brief_json FROM %s WHERE user_id = ? ORDER BY id ASC", s.tableName)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	defer rows.Close()

	var briefs []research.FinalBrief
	for rows.Next() {
		var briefJSON string
		if err := rows.Scan(&briefJSON); err != nil {
			return nil, fmt.Errorf("failed to scan brief row: %w", err)
		}

		var brief research.FinalBrief
		if err := json.Unmarshal([]byte(briefJSON), &brief); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brief: %w", err)
		}
		briefs = append(briefs, brief)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brief rows: %w", err)
	}
	return briefs, nil
}

// Clear removes all briefs of userID.
func (s *HistoryStore) Clear(ctx context.Context, userID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear briefs: %w", err)
	}
	return nil
}
