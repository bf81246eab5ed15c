package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const envPrefix = "DOUDIZHU"

var ErrConfigNotFound = errors.New("config file not found")

// Table 牌桌服务的运行参数
type Table struct {
	LockTtl      time.Duration
	ActionRate   int
	ActionWindow time.Duration
	Throttle     string // memory 或 redis
	CacheSize    int
	CacheTtl     time.Duration
	SnapshotTtl  time.Duration
	Workers      int
}

// Redis 连接参数
type Redis struct {
	Addr     string
	Db       int
	Password string
}

// SetDefaults 写入所有配置项的默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.traced", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")

	v.SetDefault("rules.scoring_mode", "competition")
	v.SetDefault("rules.per_defender_doubling", true)
	v.SetDefault("rules.doubling_enabled", true)
	v.SetDefault("rules.reveal_bottom", false)
	v.SetDefault("rules.quadplex_as_bomb", false)

	v.SetDefault("table.lock_ttl", "3s")
	v.SetDefault("table.action_rate", 10)
	v.SetDefault("table.action_window", "1s")
	v.SetDefault("table.throttle", "memory")
	v.SetDefault("table.cache_size", 4096)
	v.SetDefault("table.cache_ttl", "30s")
	v.SetDefault("table.snapshot_ttl", "24h")
	v.SetDefault("table.workers", 8)
}

// Load 读取配置文件，path 为空时只使用默认值和环境变量
// 环境变量以 DOUDIZHU_ 为前缀，层级用下划线分隔，例如 DOUDIZHU_REDIS_ADDR
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// TableFrom 读取 table 段，时长既可以写成 "3s" 也可以写成毫秒数
func TableFrom(v *viper.Viper) Table {
	return Table{
		LockTtl:      duration(v.Get("table.lock_ttl")),
		ActionRate:   cast.ToInt(v.Get("table.action_rate")),
		ActionWindow: duration(v.Get("table.action_window")),
		Throttle:     strings.ToLower(cast.ToString(v.Get("table.throttle"))),
		CacheSize:    cast.ToInt(v.Get("table.cache_size")),
		CacheTtl:     duration(v.Get("table.cache_ttl")),
		SnapshotTtl:  duration(v.Get("table.snapshot_ttl")),
		Workers:      cast.ToInt(v.Get("table.workers")),
	}
}

// RedisFrom 读取 redis 段
func RedisFrom(v *viper.Viper) Redis {
	return Redis{
		Addr:     cast.ToString(v.Get("redis.addr")),
		Db:       cast.ToInt(v.Get("redis.db")),
		Password: cast.ToString(v.Get("redis.password")),
	}
}

// duration 纯数字按毫秒处理
func duration(raw any) time.Duration {
	switch val := raw.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return time.Duration(cast.ToInt64(raw)) * time.Millisecond
	case string:
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return cast.ToDuration(raw)
}
