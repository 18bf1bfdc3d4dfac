// Package catalog 目录应用服务
//
// 设计说明：编排领域引擎、语料来源、缓存与会话状态。
// 筛选条件按访客会话持久化在KV存储；查询结果按规范化缓存键
// 缓存完整列表，分页在缓存之上计算。
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/domain/storage"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/googlebooks"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/openlibrary"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
)

// ErrLoadBooksMessage 查询失败时展示给用户的提示
const ErrLoadBooksMessage = "Ошибка при загрузке книг. Пожалуйста, попробуйте позже."

// ErrSuperseded 查询在执行期间被同键的新查询取代
var ErrSuperseded = errors.New("查询已被更新的请求取代")

// RecommendSource 推荐上游接口
// 由openlibrary.Client实现；上游不可达时服务降级到本地语料。
type RecommendSource interface {
	Recommendations(ctx context.Context, genre string, limit int) ([]*book.Book, error)
}

var _ RecommendSource = (*openlibrary.Client)(nil)

// DetailSource 详情上游接口
// 由googlebooks.Client实现；语料中没有的ID先问上游，
// 失败再生成占位图书。
type DetailSource interface {
	GetVolume(ctx context.Context, id string) (*book.Book, error)
}

var _ DetailSource = (*googlebooks.Client)(nil)

// Service 目录应用服务
type Service struct {
	source catalog.Source
	engine *catalog.Engine
	cache  *cache.CatalogCache
	kv     storage.KeyValueStore
	log    *zap.Logger

	// upstream 名义推荐上游，可为nil（直接走本地语料）
	upstream RecommendSource

	// detailUpstream 名义详情上游，可为nil（直接生成占位图书）
	detailUpstream DetailSource

	// recommendDelay 推荐接口的模拟网络延迟
	recommendDelay time.Duration

	// filtersTTL 会话筛选条件的持久化时长
	filtersTTL time.Duration

	// inflight 按缓存键登记的在途查询，同键新查询取代旧查询
	mu       sync.Mutex
	inflight map[string]*queryHandle

	rng *rand.Rand
}

type queryHandle struct {
	cancel context.CancelFunc
}

// Option 服务可选配置
type Option func(*Service)

// WithUpstream 设置推荐上游
func WithUpstream(upstream RecommendSource) Option {
	return func(s *Service) { s.upstream = upstream }
}

// WithDetailUpstream 设置详情上游
func WithDetailUpstream(upstream DetailSource) Option {
	return func(s *Service) { s.detailUpstream = upstream }
}

// WithRecommendDelay 设置推荐接口的模拟延迟
func WithRecommendDelay(d time.Duration) Option {
	return func(s *Service) { s.recommendDelay = d }
}

// WithFiltersTTL 设置会话筛选条件的持久化时长
func WithFiltersTTL(ttl time.Duration) Option {
	return func(s *Service) { s.filtersTTL = ttl }
}

// NewService 创建目录应用服务
func NewService(
	source catalog.Source,
	catalogCache *cache.CatalogCache,
	kv storage.KeyValueStore,
	log *zap.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		source:         source,
		engine:         catalog.NewEngine(),
		cache:          catalogCache,
		kv:             kv,
		log:            log,
		recommendDelay: 800 * time.Millisecond,
		filtersTTL:     7 * 24 * time.Hour,
		inflight:       make(map[string]*queryHandle),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// filtersKey 会话筛选条件的存储键
func filtersKey(sessionID string) string {
	return "filters:" + sessionID
}

// loadFilters 读取会话的筛选条件，没有则返回缺省值
func (s *Service) loadFilters(ctx context.Context, sessionID string) catalog.Filters {
	data, err := s.kv.Get(ctx, filtersKey(sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("读取会话筛选条件失败", zap.String("session_id", sessionID), zap.Error(err))
		}
		return catalog.DefaultFilters()
	}

	var f catalog.Filters
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warn("会话筛选条件损坏，回退缺省值", zap.String("session_id", sessionID))
		return catalog.DefaultFilters()
	}
	return f.Normalize()
}

// saveFilters 持久化会话的筛选条件
func (s *Service) saveFilters(ctx context.Context, sessionID string, f catalog.Filters) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, filtersKey(sessionID), data, s.filtersTTL)
}

// begin 登记一个在途查询，并取消同键的上一个查询
// 返回派生的可取消Context和完成回调；回调返回该查询是否仍是当前查询。
func (s *Service) begin(ctx context.Context, key string) (context.Context, func() bool) {
	qctx, cancel := context.WithCancel(ctx)
	h := &queryHandle{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = h
	s.mu.Unlock()

	finish := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.inflight[key] != h {
			return false
		}
		delete(s.inflight, key)
		cancel()
		return true
	}
	return qctx, finish
}
