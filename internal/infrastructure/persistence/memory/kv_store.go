// Package memory 提供内存版键值存储
//
// 用于测试和无Redis的本地开发。语义与Redis实现对齐：
// TTL过期的键在读取时视为不存在。
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/storage"
)

type entry struct {
	value     []byte
	expiresAt time.Time // 零值表示不过期
}

// KVStore 内存键值存储（并发安全）
type KVStore struct {
	mu   sync.RWMutex
	data map[string]entry

	// now 可注入的时钟，测试TTL用
	now func() time.Time
}

var _ storage.KeyValueStore = (*KVStore)(nil)

// NewKVStore 创建内存键值存储
func NewKVStore() *KVStore {
	return &KVStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// SetClock 替换时钟（仅测试使用）
func (s *KVStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		return nil, storage.ErrNotFound
	}

	// 返回拷贝，调用方修改不影响存储
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *KVStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			deleted++
		}
	}
	return deleted, nil
}
