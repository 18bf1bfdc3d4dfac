// Package storage 定义键值存储端口
//
// 购物车、筛选条件、主题、目录缓存都以不透明字节串按键存取。
// 生产实现是Redis，测试实现是内存map，领域层只依赖这个接口。
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 键不存在（或已过期）
var ErrNotFound = errors.New("键不存在")

// KeyValueStore 键值存储接口
type KeyValueStore interface {
	// Get 读取键值，不存在返回ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入键值，ttl为0表示不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除键（不存在不报错）
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix 删除指定前缀的所有键，返回删除数量
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}
