package redis

import (
	"context"
	"errors"
	"fmt"

	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/storage"
)

// KVStore 基于Redis的键值存储
//
// 所有键加统一前缀，便于与同一Redis实例上的其他应用隔离，
// 也让DeleteByPrefix的SCAN范围可控。
type KVStore struct {
	client *redis.Client
	prefix string
}

// 编译期检查：KVStore实现storage.KeyValueStore
var _ storage.KeyValueStore = (*KVStore)(nil)

// NewKVStore 创建Redis键值存储
func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{
		client: client,
		prefix: "bookshop:",
	}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis GET失败: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET失败: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis DEL失败: %w", err)
	}
	return nil
}

// DeleteByPrefix 删除指定前缀的所有键
// 用SCAN分批遍历而不是KEYS，避免大键空间下阻塞Redis。
func (s *KVStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var deleted int
	iter := s.client.Scan(ctx, 0, s.prefix+prefix+"*", 100).Iterator()

	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("redis DEL失败: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis SCAN失败: %w", err)
	}
	return deleted, nil
}
