package catalog

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// QueryResult 一次目录查询的结果
//
// 查询失败时不返回Go错误而是填充ErrorMessage（展示给用户），
// 列表置空，页面可以继续渲染其他部分。
type QueryResult struct {
	Books      []*book.Book    `json:"books"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalPages int             `json:"totalPages"`
	Filters    catalog.Filters `json:"filters"`
	FromCache  bool            `json:"fromCache"`

	ErrorMessage string `json:"errorMessage,omitempty"`
}

// FilterUpdate 筛选条件的部分更新
// nil字段表示保持现值。
type FilterUpdate struct {
	Search         *string             `json:"search"`
	Genres         *[]string           `json:"genres"`
	Authors        *[]string           `json:"authors"`
	Publishers     *[]string           `json:"publishers"`
	PriceRange     *catalog.PriceRange `json:"priceRange"`
	Ratings        *[]int              `json:"ratings"`
	OnlyDiscounted *bool               `json:"onlyDiscounted"`
	HasPreview     *bool               `json:"hasPreview"`
	HasAudio       *bool               `json:"hasAudio"`
	SortBy         *string             `json:"sortBy"`
	Page           *int                `json:"page"`
	PerPage        *int                `json:"perPage"`
}

// ErrInvalidSortBy 非法的排序方式
var ErrInvalidSortBy = errors.New("非法的排序方式")

// FetchBooks 按会话当前筛选条件查询目录
func (s *Service) FetchBooks(ctx context.Context, sessionID string) (*QueryResult, error) {
	return s.query(ctx, s.loadFilters(ctx, sessionID))
}

// UpdateFilters 合并部分更新并重新查询
//
// 任何不含显式页码的条件变更都把页码重置为1：
// 改筛选后停留在旧页码几乎必然落在结果之外。
func (s *Service) UpdateFilters(ctx context.Context, sessionID string, update FilterUpdate) (*QueryResult, error) {
	f := s.loadFilters(ctx, sessionID)

	if update.Search != nil {
		f.Search = *update.Search
	}
	if update.Genres != nil {
		f.Genres = *update.Genres
	}
	if update.Authors != nil {
		f.Authors = *update.Authors
	}
	if update.Publishers != nil {
		f.Publishers = *update.Publishers
	}
	if update.PriceRange != nil {
		f.PriceRange = *update.PriceRange
	}
	if update.Ratings != nil {
		f.Ratings = *update.Ratings
	}
	if update.OnlyDiscounted != nil {
		f.OnlyDiscounted = *update.OnlyDiscounted
	}
	if update.HasPreview != nil {
		f.HasPreview = *update.HasPreview
	}
	if update.HasAudio != nil {
		f.HasAudio = *update.HasAudio
	}
	if update.SortBy != nil {
		if !catalog.ValidSortBy(*update.SortBy) {
			return nil, ErrInvalidSortBy
		}
		f.SortBy = *update.SortBy
	}
	if update.PerPage != nil {
		f.PerPage = *update.PerPage
	}
	if update.Page != nil {
		f.Page = *update.Page
	} else {
		f.Page = 1
	}
	f = f.Normalize()

	if err := s.saveFilters(ctx, sessionID, f); err != nil {
		s.log.Warn("持久化筛选条件失败", zap.String("session_id", sessionID), zap.Error(err))
	}
	return s.query(ctx, f)
}

// ResetFilters 恢复缺省筛选条件并重新查询
func (s *Service) ResetFilters(ctx context.Context, sessionID string) (*QueryResult, error) {
	f := catalog.DefaultFilters()
	if err := s.saveFilters(ctx, sessionID, f); err != nil {
		s.log.Warn("持久化筛选条件失败", zap.String("session_id", sessionID), zap.Error(err))
	}
	return s.query(ctx, f)
}

// SetPage 翻页
// 页码越界时不改动状态，返回当前页结果。
func (s *Service) SetPage(ctx context.Context, sessionID string, page int) (*QueryResult, error) {
	f := s.loadFilters(ctx, sessionID)

	result, err := s.query(ctx, f)
	if err != nil || result.ErrorMessage != "" {
		return result, err
	}

	if page < 1 || page > result.TotalPages {
		return result, nil
	}

	f.Page = page
	if err := s.saveFilters(ctx, sessionID, f); err != nil {
		s.log.Warn("持久化筛选条件失败", zap.String("session_id", sessionID), zap.Error(err))
	}
	return s.query(ctx, f)
}

// Filters 返回会话当前的筛选条件
func (s *Service) Filters(ctx context.Context, sessionID string) catalog.Filters {
	return s.loadFilters(ctx, sessionID)
}

// ClearCache 清空目录缓存，返回删除的条目数
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	deleted, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("目录缓存已清空", zap.Int("deleted", deleted))
	return deleted, nil
}

// query 执行一次查询：缓存 → 语料 → 过滤排序 → 缓存回填 → 分页
func (s *Service) query(ctx context.Context, f catalog.Filters) (*QueryResult, error) {
	f = f.Normalize()
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "bookshop", "catalog.query")
	defer span.End()

	key := f.CacheKey()
	qctx, finish := s.begin(ctx, key)

	// 1. 缓存查找
	if full, err := s.cache.GetSearch(qctx, key); err == nil {
		finish()
		span.SetAttributes(attribute.Bool("cache_hit", true))
		metrics.CatalogQueriesTotal.WithLabelValues("cache_hit").Inc()
		metrics.CatalogQueryDuration.Observe(time.Since(start).Seconds())
		return s.paged(full, f, true), nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("缓存读取失败，回源查询", zap.Error(err))
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	// 2. 取语料
	corpus, err := s.source.Corpus(qctx)
	if err != nil {
		finish()
		if qctx.Err() != nil {
			metrics.CatalogSupersededTotal.Inc()
			metrics.CatalogQueriesTotal.WithLabelValues("superseded").Inc()
			return nil, ErrSuperseded
		}
		// 查询失败不抛错：返回用户可读的提示，列表置空
		s.log.Error("目录查询失败", zap.Error(err))
		metrics.CatalogQueriesTotal.WithLabelValues("error").Inc()
		return &QueryResult{
			Books:        []*book.Book{},
			Page:         f.Page,
			PerPage:      f.PerPage,
			Filters:      f,
			ErrorMessage: ErrLoadBooksMessage,
		}, nil
	}

	// 3. 过滤与排序
	full := s.engine.Apply(corpus, f)

	// 4. 只有仍是当前查询时才写缓存并返回结果
	if !finish() || qctx.Err() != nil {
		metrics.CatalogSupersededTotal.Inc()
		metrics.CatalogQueriesTotal.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}

	if err := s.cache.SetSearch(ctx, key, full); err != nil {
		s.log.Warn("缓存写入失败", zap.Error(err))
	}

	metrics.CatalogQueriesTotal.WithLabelValues("cache_miss").Inc()
	metrics.CatalogQueryDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("result_total", len(full)))

	return s.paged(full, f, false), nil
}

// paged 从完整列表取一页组装结果
func (s *Service) paged(full []*book.Book, f catalog.Filters, fromCache bool) *QueryResult {
	page := catalog.Paginate(full, f.Page, f.PerPage)
	return &QueryResult{
		Books:      page.Books,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
		Filters:    f,
		FromCache:  fromCache,
	}
}
