package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	domaincatalog "github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/mock"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

// countingSource 统计Corpus调用次数的语料来源
type countingSource struct {
	inner domaincatalog.Source

	mu    sync.Mutex
	calls int
}

func (c *countingSource) Corpus(ctx context.Context) ([]*book.Book, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Corpus(ctx)
}

func (c *countingSource) ByID(ctx context.Context, id string) (*book.Book, error) {
	return c.inner.ByID(ctx, id)
}

func (c *countingSource) corpusCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// failingSource 总是失败的语料来源
type failingSource struct{}

func (failingSource) Corpus(context.Context) ([]*book.Book, error) {
	return nil, errors.New("语料不可用")
}

func (failingSource) ByID(context.Context, string) (*book.Book, error) {
	return nil, errors.New("语料不可用")
}

// blockingSource 首次Corpus调用阻塞直到Context取消
type blockingSource struct {
	inner   domaincatalog.Source
	once    sync.Once
	started chan struct{}
}

func newBlockingSource(inner domaincatalog.Source) *blockingSource {
	return &blockingSource{inner: inner, started: make(chan struct{})}
}

func (b *blockingSource) Corpus(ctx context.Context) ([]*book.Book, error) {
	var first bool
	b.once.Do(func() {
		first = true
	})
	if first {
		close(b.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return b.inner.Corpus(ctx)
}

func (b *blockingSource) ByID(ctx context.Context, id string) (*book.Book, error) {
	return b.inner.ByID(ctx, id)
}

func newTestService(t *testing.T, source domaincatalog.Source) *Service {
	t.Helper()
	kv := memory.NewKVStore()
	return NewService(
		source,
		cache.NewCatalogCache(kv, 30*time.Minute),
		kv,
		zap.NewNop(),
		WithRecommendDelay(time.Millisecond),
	)
}

func TestFetchBooks_DefaultFilters(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	result, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)

	assert.Empty(t, result.ErrorMessage)
	assert.Len(t, result.Books, domaincatalog.DefaultPerPage)
	assert.Equal(t, 1, result.Page)
	assert.Greater(t, result.Total, domaincatalog.DefaultPerPage)
	assert.Equal(t, (result.Total+11)/12, result.TotalPages)
	// 默认按评论数降序
	assert.GreaterOrEqual(t, result.Books[0].ReviewCount, result.Books[1].ReviewCount)
}

// TestFetchBooks_CacheHitSkipsSource 同条件第二次查询命中缓存，不再回源
func TestFetchBooks_CacheHitSkipsSource(t *testing.T) {
	src := &countingSource{inner: mock.NewGenerator(42)}
	s := newTestService(t, src)
	ctx := context.Background()

	first, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, src.corpusCalls())

	second, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, src.corpusCalls())
	assert.Equal(t, first.Total, second.Total)

	// 另一个会话、相同缺省条件：同一个缓存键
	third, err := s.FetchBooks(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, third.FromCache)
	assert.Equal(t, 1, src.corpusCalls())
}

func TestUpdateFilters_ResetsPage(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	_, err := s.SetPage(ctx, "sess-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Filters(ctx, "sess-1").Page)

	// 不带页码的条件变更重置到第1页
	search := "толстой"
	result, err := s.UpdateFilters(ctx, "sess-1", FilterUpdate{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)

	for _, b := range result.Books {
		assert.Contains(t, b.Author, "Толстой")
	}
}

func TestUpdateFilters_InvalidSortBy(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))

	sortBy := "alphabetical"
	_, err := s.UpdateFilters(context.Background(), "sess-1", FilterUpdate{SortBy: &sortBy})
	assert.ErrorIs(t, err, ErrInvalidSortBy)
}

func TestUpdateFilters_Persisted(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	discounted := true
	_, err := s.UpdateFilters(ctx, "sess-1", FilterUpdate{OnlyDiscounted: &discounted})
	require.NoError(t, err)

	// 后续查询沿用持久化的条件
	result, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	for _, b := range result.Books {
		assert.True(t, b.HasDiscount())
	}

	// 其他会话不受影响
	other, err := s.FetchBooks(ctx, "sess-2")
	require.NoError(t, err)
	assert.False(t, other.Filters.OnlyDiscounted)
}

func TestResetFilters(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	search := "чехов"
	_, err := s.UpdateFilters(ctx, "sess-1", FilterUpdate{Search: &search})
	require.NoError(t, err)

	result, err := s.ResetFilters(ctx, "sess-1")
	require.NoError(t, err)

	assert.Empty(t, result.Filters.Search)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, domaincatalog.DefaultPerPage, result.PerPage)
}

func TestSetPage(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	first, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	require.Greater(t, first.TotalPages, 2)

	second, err := s.SetPage(ctx, "sess-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Page)
	// 第2页与第1页内容不同
	assert.NotEqual(t, first.Books[0].ID, second.Books[0].ID)
}

// TestSetPage_OutOfRange 页码越界时状态不变
func TestSetPage_OutOfRange(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	first, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)

	result, err := s.SetPage(ctx, "sess-1", first.TotalPages+5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, s.Filters(ctx, "sess-1").Page)

	result, err = s.SetPage(ctx, "sess-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
}

// TestFetchBooks_FailsSoft 语料失败时返回用户可读的提示而不是错误
func TestFetchBooks_FailsSoft(t *testing.T) {
	s := newTestService(t, failingSource{})

	result, err := s.FetchBooks(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, ErrLoadBooksMessage, result.ErrorMessage)
	assert.Empty(t, result.Books)
	assert.Zero(t, result.Total)
}

// TestFetchBooks_Superseded 同键新查询取代在途的旧查询
func TestFetchBooks_Superseded(t *testing.T) {
	src := newBlockingSource(mock.NewGenerator(42))
	s := newTestService(t, src)
	ctx := context.Background()

	type outcome struct {
		result *QueryResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		r, err := s.FetchBooks(ctx, "sess-1")
		done <- outcome{r, err}
	}()

	// 等旧查询进入语料阶段后，用同样的条件发起新查询
	<-src.started
	winner, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, winner.ErrorMessage)
	assert.NotEmpty(t, winner.Books)

	loser := <-done
	assert.ErrorIs(t, loser.err, ErrSuperseded)
	assert.Nil(t, loser.result)
}

func TestClearCache(t *testing.T) {
	src := &countingSource{inner: mock.NewGenerator(42)}
	s := newTestService(t, src)
	ctx := context.Background()

	_, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)

	deleted, err := s.ClearCache(ctx)
	require.NoError(t, err)
	assert.Greater(t, deleted, 0)

	// 清空后重新回源
	result, err := s.FetchBooks(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, src.corpusCalls())
}

func TestFilterOptions_Cached(t *testing.T) {
	s := newTestService(t, mock.NewGenerator(42))
	ctx := context.Background()

	opts, err := s.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts.Genres, 10)
	assert.Len(t, opts.Publishers, 7)

	again, err := s.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, opts.PriceRange, again.PriceRange)
}
