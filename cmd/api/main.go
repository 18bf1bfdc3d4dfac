package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/application/preferences"
	"github.com/xiebiao/bookshop/internal/domain/storage"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/googlebooks"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/mock"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/openlibrary"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本的等价组装）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 缓存TTL: %v\n", cfg.Cache.TTL)

	// 2. 初始化日志
	zlog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync()
	response.SetLogger(zlog)

	// 3. 初始化指标与追踪
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookshop", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer shutdown(context.Background())
		fmt.Printf("✓ 追踪已启用: %s\n", cfg.Tracing.Endpoint)
	}

	// 4. 初始化KV存储
	// Redis不可达时降级为内存存储：会话状态不再跨进程，但单实例
	// 开发环境照常可用
	var kv storage.KeyValueStore
	if redisClient, err := redis.NewClient(cfg.Redis); err != nil {
		zlog.Warn("Redis不可用，改用内存KV存储", zap.Error(err))
		kv = memory.NewKVStore()
	} else {
		kv = redis.NewKVStore(redisClient)
		fmt.Printf("✓ Redis连接成功\n")
	}

	// 5. 初始化消息队列（可选）
	var publisher apporder.EventPublisher
	if cfg.MQ.Enabled {
		pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", zlog)
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer pub.Close()
		publisher = pub
		fmt.Printf("✓ MQ连接成功: %s\n", cfg.MQ.Exchange)
	}

	// 6. 依赖注入（手动组装）
	// 基础设施层
	catalogCache := cache.NewCatalogCache(kv, cfg.Cache.TTL)
	source := mock.NewGenerator(cfg.Catalog.Seed)
	jwtManager := jwt.NewManager(cfg.Session.Secret, cfg.Session.Expire)

	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}
	olClient := openlibrary.NewClient(
		cfg.Upstream.OpenLibraryBaseURL,
		httpClient,
		newBreaker("openlibrary", cfg, zlog),
		zlog,
	)
	gbClient := googlebooks.NewClient(
		cfg.Upstream.GoogleBooksBaseURL,
		cfg.Upstream.GoogleBooksAPIKey,
		httpClient,
		newBreaker("googlebooks", cfg, zlog),
		zlog,
	)

	// 应用层
	catalogService := appcatalog.NewService(
		source, catalogCache, kv, zlog,
		appcatalog.WithUpstream(olClient),
		appcatalog.WithDetailUpstream(gbClient),
		appcatalog.WithRecommendDelay(cfg.Catalog.RecommendDelay),
		appcatalog.WithFiltersTTL(cfg.Session.Expire),
	)
	cartService := appcart.NewService(kv, catalogService, cfg.Session.Expire, zlog)
	orderService := apporder.NewService(kv, cartService, publisher, zlog)
	prefService := preferences.NewService(kv, cfg.Session.Expire, zlog)

	// 接口层
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	prefHandler := handler.NewPreferencesHandler(prefService)
	sessionMiddleware := middleware.NewSessionMiddleware(jwtManager, zlog)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logging(zlog), middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, catalogHandler, cartHandler, orderHandler, prefHandler, sessionMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   图书目录: GET http://localhost%s/api/v1/books\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标:     http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	zlog.Info("收到退出信号，开始优雅关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("优雅关闭失败", zap.Error(err))
	}
}

// newBreaker 为上游客户端创建熔断器
// 状态变化写日志并更新Gauge指标。
func newBreaker(name string, cfg *config.Config, zlog *zap.Logger) *circuitbreaker.CircuitBreaker {
	failures := cfg.Upstream.BreakerFailures

	cb := circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		MaxRequests: cfg.Upstream.BreakerMaxRequests,
		Interval:    cfg.Upstream.BreakerInterval,
		Timeout:     cfg.Upstream.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		zlog.Info("熔断器状态变化",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	})
	return cb
}

// registerRoutes 注册路由
// 所有/api/v1路由经过会话中间件：没有Token的访客自动获得匿名会话，
// 新Token经X-Session-Token响应头下发。
func registerRoutes(
	r *gin.Engine,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	prefHandler *handler.PreferencesHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	v1.Use(sessionMiddleware.Attach())
	{
		// 目录模块
		books := v1.Group("/books")
		{
			books.GET("", catalogHandler.ListBooks)
			books.PUT("/filters", catalogHandler.UpdateFilters)
			books.POST("/filters/reset", catalogHandler.ResetFilters)
			books.PUT("/page", catalogHandler.SetPage)
			books.GET("/:id", catalogHandler.GetBook)
			books.GET("/:id/preview", catalogHandler.GetPreview)
			books.GET("/:id/audio", catalogHandler.GetAudioSample)
			books.GET("/:id/recommendations", catalogHandler.GetRecommendations)
		}
		v1.GET("/filter-options", catalogHandler.GetFilterOptions)
		v1.DELETE("/cache", catalogHandler.ClearCache)

		// 购物车模块
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:bookId", cartHandler.UpdateItem)
			cart.DELETE("/items/:bookId", cartHandler.RemoveItem)
		}

		// 结算模块
		v1.POST("/checkout", orderHandler.Checkout)
		v1.GET("/orders/:orderNo", orderHandler.GetOrder)

		// 偏好模块
		theme := v1.Group("/preferences/theme")
		{
			theme.GET("", prefHandler.GetTheme)
			theme.PUT("", prefHandler.SetTheme)
		}
	}
}
