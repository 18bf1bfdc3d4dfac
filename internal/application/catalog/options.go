package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
)

// FilterOptions 取筛选面板可选项
// 名义上这些清单来自上游，目前返回静态清单并缓存。
func (s *Service) FilterOptions(ctx context.Context) (*catalog.FilterOptions, error) {
	if opts, err := s.cache.GetOptions(ctx); err == nil {
		return opts, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("可选项缓存读取失败", zap.Error(err))
	}

	opts := catalog.DefaultFilterOptions()
	if err := s.cache.SetOptions(ctx, &opts); err != nil {
		s.log.Warn("可选项缓存写入失败", zap.Error(err))
	}
	return &opts, nil
}
