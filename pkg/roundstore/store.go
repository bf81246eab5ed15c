package roundstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/play/doudizhu/pkg/doudizhu"
)

var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrVersionConflict = errors.New("round version conflict")
)

// 存档为 hash：data 为整局 JSON，version 为版本号
// 只有版本号等于 ARGV[1] 时才写入，不存在的局视为版本 0
const saveScript = `
local version = tonumber(redis.call("HGET", KEYS[1], "version") or "0")
if version ~= tonumber(ARGV[1]) then
    return 0
end
redis.call("HSET", KEYS[1], "data", ARGV[2], "version", tonumber(ARGV[1]) + 1)
if tonumber(ARGV[3]) > 0 then
    redis.call("PEXPIRE", KEYS[1], ARGV[3])
end
return 1
`

// Snapshot 一局的存档，Version 每保存一次加一
type Snapshot struct {
	Round   *doudizhu.Round
	Version int64
	SavedAt time.Time
}

// Summary 不解码整局就能读到的信息
type Summary struct {
	Id       string
	Phase    doudizhu.Phase
	Version  int64
	SavedAt  time.Time
	Complete bool
	Redeal   bool
}

// Store 局存档，Redis 为准，本地 LRU 只用于只读查询
type Store struct {
	rdb   redis.Cmdable
	opts  *options
	cache *expirable.LRU[string, []byte]
}

// New
func New(rdb redis.Cmdable, opts ...Option) *Store {
	o := new(options)
	o.apply(opts...).setDefault()
	return &Store{
		rdb:   rdb,
		opts:  o,
		cache: expirable.NewLRU[string, []byte](o.cacheSize, nil, o.cacheTtl),
	}
}

func (s *Store) key(id string) string {
	return s.opts.prefix + ":round:" + id
}

// Save 写入新的存档，expect 为读取时的版本号（新局为 0），成功后返回新版本号
func (s *Store) Save(ctx context.Context, r *doudizhu.Round, expect int64) (int64, error) {
	if r == nil || r.Id == "" {
		return 0, fmt.Errorf("roundstore: round without id")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("roundstore: marshal %s: %w", r.Id, err)
	}
	version := expect + 1
	if data, err = stamp(data, version, time.Now()); err != nil {
		return 0, err
	}

	ok, err := s.rdb.Eval(ctx, saveScript, []string{s.key(r.Id)}, expect, data, s.opts.ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("roundstore: save %s: %w", r.Id, err)
	}
	if ok != 1 {
		s.cache.Remove(r.Id)
		return 0, fmt.Errorf("%w: %s expected version %d", ErrVersionConflict, r.Id, expect)
	}

	s.cache.Add(r.Id, data)
	log.Ctx(ctx).Trace().Str("round", r.Id).Int64("version", version).Int("bytes", len(data)).Msg("roundstore: saved")
	return version, nil
}

// Load 从 Redis 读取最新存档
func (s *Store) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, data)
	return decode(data)
}

// Cached 优先读本地缓存，可能落后于 Redis，不能用于修改
func (s *Store) Cached(ctx context.Context, id string) (*Snapshot, error) {
	if data, ok := s.cache.Get(id); ok {
		return decode(data)
	}
	return s.Load(ctx, id)
}

// Peek 只读取阶段和版本号
func (s *Store) Peek(ctx context.Context, id string) (*Summary, error) {
	data, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := gjson.GetManyBytes(data, "id", "phase", "version", "savedAt", "bidding.redealRequired")
	phase := doudizhu.Phase(fields[1].Uint())
	return &Summary{
		Id:       fields[0].String(),
		Phase:    phase,
		Version:  fields[2].Int(),
		SavedAt:  fields[3].Time(),
		Complete: phase == doudizhu.PhaseComplete,
		Redeal:   fields[4].Bool(),
	}, nil
}

func (s *Store) fetch(ctx context.Context, id string) ([]byte, error) {
	data, err := s.rdb.HGet(ctx, s.key(id), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("roundstore: load %s: %w", id, err)
	}
	return data, nil
}

// Delete 删除存档
func (s *Store) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)
	return s.rdb.Del(ctx, s.key(id)).Err()
}

// stamp 在 JSON 顶层写入版本号和保存时间
func stamp(data []byte, version int64, at time.Time) ([]byte, error) {
	data, err := sjson.SetBytes(data, "version", version)
	if err != nil {
		return nil, fmt.Errorf("roundstore: stamp version: %w", err)
	}
	data, err = sjson.SetBytes(data, "savedAt", at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("roundstore: stamp time: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Snapshot, error) {
	r := new(doudizhu.Round)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("roundstore: unmarshal: %w", err)
	}
	return &Snapshot{
		Round:   r,
		Version: gjson.GetBytes(data, "version").Int(),
		SavedAt: gjson.GetBytes(data, "savedAt").Time(),
	}, nil
}
