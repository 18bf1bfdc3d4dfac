// Package cart 购物车应用服务
//
// 购物车按访客会话持久化：键cart:{sessionID}，JSON序列化。
// 每次变更后整体重写，单会话内没有并发写入压力。
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/storage"
)

// BookResolver 按ID解析图书
// 由目录应用服务实现，加购时用它取图书快照。
type BookResolver interface {
	FetchBookByID(ctx context.Context, id string) (*book.Book, error)
}

// Service 购物车应用服务
type Service struct {
	kv       storage.KeyValueStore
	resolver BookResolver
	ttl      time.Duration
	log      *zap.Logger
}

// NewService 创建购物车应用服务
func NewService(kv storage.KeyValueStore, resolver BookResolver, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{kv: kv, resolver: resolver, ttl: ttl, log: log}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Get 读取会话购物车，没有则返回空购物车
func (s *Service) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.kv.Get(ctx, cartKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return cart.New(), nil
		}
		return nil, fmt.Errorf("读取购物车失败: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// 损坏的数据按空购物车处理，下一次写入覆盖
		s.log.Warn("购物车数据损坏", zap.String("session_id", sessionID))
		return cart.New(), nil
	}
	return &c, nil
}

// AddItem 把图书加入购物车
func (s *Service) AddItem(ctx context.Context, sessionID, bookID string, quantity int) (*cart.Cart, error) {
	b, err := s.resolver.FetchBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(b, quantity); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.log.Debug("图书已加入购物车",
		zap.String("session_id", sessionID),
		zap.String("book_id", bookID),
		zap.Int("quantity", quantity),
	)
	return c, nil
}

// UpdateQuantity 修改条目数量（0等价于移除）
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, bookID string, quantity int) (*cart.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateQuantity(bookID, quantity); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem 移除条目
func (s *Service) RemoveItem(ctx context.Context, sessionID, bookID string) (*cart.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(bookID); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear 清空购物车
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("清空购物车失败: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("序列化购物车失败: %w", err)
	}
	if err := s.kv.Set(ctx, cartKey(sessionID), data, s.ttl); err != nil {
		return fmt.Errorf("写入购物车失败: %w", err)
	}
	return nil
}
