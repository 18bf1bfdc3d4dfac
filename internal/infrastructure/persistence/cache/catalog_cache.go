// Package cache 提供目录查询结果的缓存层
//
// 设计说明：缓存分四类条目，键前缀区分：
//
//	catalog:search:{缓存键}  过滤排序后的完整列表
//	catalog:book:{id}        单本详情
//	catalog:preview:{id}     预览内容
//	catalog:audio:{id}       试听片段
//	catalog:options          筛选面板可选项
//
// 条目以JSON存入KeyValueStore并带TTL；过期条目由存储在读取时
// 判定为未命中，缓存层不维护自己的时钟。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/storage"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("缓存未命中")

const (
	prefixSearch  = "catalog:search:"
	prefixBook    = "catalog:book:"
	prefixPreview = "catalog:preview:"
	prefixAudio   = "catalog:audio:"
	keyOptions    = "catalog:options"
)

// CatalogCache 目录缓存
type CatalogCache struct {
	store storage.KeyValueStore
	ttl   time.Duration
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(store storage.KeyValueStore, ttl time.Duration) *CatalogCache {
	return &CatalogCache{store: store, ttl: ttl}
}

// GetSearch 读取某筛选条件下的完整结果列表
func (c *CatalogCache) GetSearch(ctx context.Context, key string) ([]*book.Book, error) {
	var books []*book.Book
	if err := c.get(ctx, prefixSearch+key, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SetSearch 写入某筛选条件下的完整结果列表
func (c *CatalogCache) SetSearch(ctx context.Context, key string, books []*book.Book) error {
	return c.set(ctx, prefixSearch+key, books)
}

// GetBook 读取单本详情
func (c *CatalogCache) GetBook(ctx context.Context, id string) (*book.Book, error) {
	var b book.Book
	if err := c.get(ctx, prefixBook+id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetBook 写入单本详情
func (c *CatalogCache) SetBook(ctx context.Context, b *book.Book) error {
	return c.set(ctx, prefixBook+b.ID, b)
}

// GetPreview 读取预览内容
func (c *CatalogCache) GetPreview(ctx context.Context, bookID string) (*book.Preview, error) {
	var p book.Preview
	if err := c.get(ctx, prefixPreview+bookID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPreview 写入预览内容
func (c *CatalogCache) SetPreview(ctx context.Context, p *book.Preview) error {
	return c.set(ctx, prefixPreview+p.BookID, p)
}

// GetAudio 读取试听片段
func (c *CatalogCache) GetAudio(ctx context.Context, bookID string) (*book.AudioSample, error) {
	var a book.AudioSample
	if err := c.get(ctx, prefixAudio+bookID, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetAudio 写入试听片段
func (c *CatalogCache) SetAudio(ctx context.Context, a *book.AudioSample) error {
	return c.set(ctx, prefixAudio+a.BookID, a)
}

// GetOptions 读取筛选面板可选项
func (c *CatalogCache) GetOptions(ctx context.Context) (*catalog.FilterOptions, error) {
	var opts catalog.FilterOptions
	if err := c.get(ctx, keyOptions, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// SetOptions 写入筛选面板可选项
func (c *CatalogCache) SetOptions(ctx context.Context, opts *catalog.FilterOptions) error {
	return c.set(ctx, keyOptions, opts)
}

// Clear 清空所有目录缓存条目，返回删除数量
func (c *CatalogCache) Clear(ctx context.Context) (int, error) {
	return c.store.DeleteByPrefix(ctx, "catalog:")
}

func (c *CatalogCache) get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMiss
		}
		return fmt.Errorf("读取缓存失败: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// 损坏的条目当作未命中，由调用方重建
		return ErrMiss
	}
	return nil
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化缓存条目失败: %w", err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}
