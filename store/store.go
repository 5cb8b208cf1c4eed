package store

import (
	"context"
	"fmt"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store/memory"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store/postgres"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store/redis"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store/sqlite"
)

// HistoryStore is a research.HistoryStore owning a connection.
type HistoryStore interface {
	research.HistoryStore

	// Clear removes every brief stored for userID.
	Clear(ctx context.Context, userID string) error

	Close() error
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendPostgres, BackendRedis, BackendMemory}
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	SQLitePath string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open connects to the configured backend and creates its schema.
func Open(ctx context.Context, cfg Config) (HistoryStore, error) {
	switch cfg.Backend {
	case BackendMemory:
		return memory.NewHistoryStore(), nil
	case BackendSQLite, "":
		return sqlite.NewHistoryStore(sqlite.Options{Path: cfg.SQLitePath})
	case BackendPostgres:
		return postgres.NewHistoryStore(ctx, postgres.Options{ConnString: cfg.PostgresDSN})
	case BackendRedis:
		s := redis.NewHistoryStore(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
