// Package metrics 提供基于Prometheus的指标收集
//
// 核心关注点是目录查询管线的行为：缓存命中率回答"缓存键规范化是否
// 生效"，取代查询计数回答"同键并发是否频繁"，上游降级计数回答
// "名义API是否仍然不可达"。
//
// 指标类型约定：
// - Counter：只增不减（查询总数、降级总数）
// - Gauge：瞬时值（正在处理的请求数、熔断器状态）
// - Histogram：分布（查询耗时的P50/P90/P99）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/books）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 目录查询指标

	// CatalogQueriesTotal 目录查询总数（Counter）
	// 标签：result（cache_hit/cache_miss/error/superseded）
	CatalogQueriesTotal *prometheus.CounterVec

	// CatalogQueryDuration 目录查询耗时（Histogram）
	CatalogQueryDuration prometheus.Histogram

	// CatalogSupersededTotal 被新查询取代的查询总数（Counter）
	CatalogSupersededTotal prometheus.Counter

	// UpstreamFallbacksTotal 上游调用降级为本地数据的总数（Counter）
	// 标签：upstream（openlibrary/googlebooks）
	UpstreamFallbacksTotal *prometheus.CounterVec

	// 结算指标

	// OrdersPlacedTotal 订单提交总数（Counter）
	OrdersPlacedTotal prometheus.Counter

	// OrdersFailedTotal 订单提交失败总数（Counter）
	OrdersFailedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，使用promauto自动注册到默认Registry，
// /metrics端点由promhttp.Handler()暴露。
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 目录查询指标
	CatalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "目录查询总数",
		},
		[]string{"result"}, // cache_hit/cache_miss/error/superseded
	)

	CatalogQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "catalog_query_duration_seconds",
			Help: "目录查询耗时（秒）",
			// 缓存命中在微秒级，全量过滤在毫秒级
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	CatalogSupersededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_queries_superseded_total",
			Help: "被同键新查询取代的查询总数",
		},
	)

	UpstreamFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fallbacks_total",
			Help: "上游调用降级为本地mock数据的总数",
		},
		[]string{"upstream"},
	)

	// 结算指标
	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "订单提交总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单提交失败总数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}
