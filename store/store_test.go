package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	configs := map[string]Config{
		BackendMemory: {Backend: BackendMemory},
		BackendSQLite: {Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "h.db")},
		BackendRedis:  {Backend: BackendRedis, RedisAddr: mr.Addr()},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			s, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.SaveBrief(ctx, "u1", research.FinalBrief{Topic: name}))
			briefs, err := s.GetBriefsForUser(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, briefs, 1)
			assert.Equal(t, name, briefs[0].Topic)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "mongo"})
	assert.ErrorContains(t, err, `unknown history backend "mongo"`)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Open(context.Background(), Config{Backend: BackendRedis, RedisAddr: addr})
	assert.Error(t, err)
}

func TestBackends(t *testing.T) {
	assert.ElementsMatch(t, []string{"memory", "sqlite", "postgres", "redis"}, Backends())
}
