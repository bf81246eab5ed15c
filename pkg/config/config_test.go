package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)

	table := TableFrom(v)
	assert.Equal(t, 3*time.Second, table.LockTtl)
	assert.Equal(t, 10, table.ActionRate)
	assert.Equal(t, time.Second, table.ActionWindow)
	assert.Equal(t, "memory", table.Throttle)
	assert.Equal(t, 24*time.Hour, table.SnapshotTtl)

	assert.Equal(t, "localhost:6379", RedisFrom(v).Addr)
	assert.Equal(t, "competition", v.GetString("rules.scoring_mode"))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doudizhu.yaml")
	content := `
redis:
  addr: 10.0.0.1:6380
  db: 2
rules:
  scoring_mode: simple
table:
  lock_ttl: 500
  action_window: 2s
  throttle: Redis
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := Load(path)
	require.NoError(t, err)

	redis := RedisFrom(v)
	assert.Equal(t, "10.0.0.1:6380", redis.Addr)
	assert.Equal(t, 2, redis.Db)

	table := TableFrom(v)
	assert.Equal(t, 500*time.Millisecond, table.LockTtl)
	assert.Equal(t, 2*time.Second, table.ActionWindow)
	assert.Equal(t, "redis", table.Throttle)
	assert.Equal(t, "simple", v.GetString("rules.scoring_mode"))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DOUDIZHU_REDIS_ADDR", "redis:6379")
	t.Setenv("DOUDIZHU_TABLE_WORKERS", "3")
	t.Setenv("DOUDIZHU_TABLE_LOCK_TTL", "250")

	v, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", RedisFrom(v).Addr)
	assert.Equal(t, 3, TableFrom(v).Workers)
	assert.Equal(t, 250*time.Millisecond, TableFrom(v).LockTtl)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
