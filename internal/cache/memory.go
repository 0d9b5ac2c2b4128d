package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore 进程内 JSON 缓存，未启用 Redis 时使用
type MemoryStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore(capacity uint64) *MemoryStore {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, []byte](capacity))
	}
	c := ttlcache.New[string, []byte](opts...)
	go c.Start()
	return &MemoryStore{cache: c}
}

// Close 停止过期清理
func (s *MemoryStore) Close() {
	s.cache.Stop()
}

// GetJSON 获取 JSON 缓存
func (s *MemoryStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return false, nil
	}
	if err := json.Unmarshal(item.Value(), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func (s *MemoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	s.cache.Set(key, payload, ttl)
	return nil
}

// Del 删除缓存
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Expire 刷新过期时间
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	item := s.cache.Get(key)
	if item == nil {
		return nil
	}
	s.cache.Set(key, item.Value(), ttl)
	return nil
}
