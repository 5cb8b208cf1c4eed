// Package postgres stores research briefs in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// HistoryStore keeps briefs in a PostgreSQL table.
type HistoryStore struct {
	pool      DBPool
	tableName string
}

// Options configures the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "briefs"
}

// NewHistoryStore connects to Postgres and creates the table if needed.
func NewHistoryStore(ctx context.Context, opts Options) (*HistoryStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	store := NewHistoryStoreWithPool(pool, opts.TableName)
	if err := store.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewHistoryStoreWithPool creates a store on an existing pool.
// Useful for testing with mocks
func NewHistoryStoreWithPool(pool DBPool, tableName string) *HistoryStore {
	if tableName == "" {
		tableName = "briefs"
	}
	return &HistoryStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *HistoryStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			brief_json JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s (user_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *HistoryStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveBrief stores a brief for userID.
func (s *HistoryStore) SaveBrief(ctx context.Context, userID string, brief research.FinalBrief) error {
	briefJSON, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (user_id, topic, brief_json) VALUES ($1, $2, $3)", s.tableName)
	if _, err := s.pool.Exec(ctx, query, userID, brief.Topic, briefJSON); err != nil {
		return fmt.Errorf("failed to save brief: %w", err)
	}
	return nil
}

// GetBriefsForUser returns the user's briefs, oldest first.
func (s *HistoryStore) GetBriefsForUser(ctx context.Context, userID string) ([]research.FinalBrief, error) {
	query := fmt.Sprintf("SELECT brief_json FROM %s WHERE user_id = $1 ORDER BY id ASC", s.tableName)

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	defer rows.Close()

	var briefs []research.FinalBrief
	for rows.Next() {
		var briefJSON []byte
		if err := rows.Scan(&briefJSON); err != nil {
			return nil, fmt.Errorf("failed to scan brief row: %w", err)
		}

		var brief research.FinalBrief
		if err := json.Unmarshal(briefJSON, &brief); err != nil {
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
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear briefs: %w", err)
	}
	return nil
}
