//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// main.go的手动组装是权威版本；本文件维护等价的Wire配置，
// 运行 `wire gen ./cmd/api` 可生成wire_gen.go。
//
// 核心概念：
// - Provider: 提供依赖的构造函数
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/application/preferences"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
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
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、日志、KV存储、目录缓存、语料来源、上游客户端
var infrastructureSet = wire.NewSet(
	config.Load,         // 加载配置文件
	provideLogger,       // zap日志
	provideKVStore,      // KV存储（Redis或内存降级）
	provideCatalogCache, // 目录缓存
	provideSource,       // mock语料生成器
	provideOpenLibrary,  // Open Library客户端
	provideGoogleBooks,  // Google Books客户端
	providePublisher,    // 订单事件发布者（可为nil）
)

// applicationSet 应用层依赖
// 包含：目录、购物车、结算、偏好四个应用服务
var applicationSet = wire.NewSet(
	provideCatalogService, // 目录服务（带上游与延迟配置）
	provideCartService,    // 购物车服务
	provideOrderService,   // 结算服务
	providePrefService,    // 偏好服务
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,               // 会话Token管理器
	middleware.NewSessionMiddleware, // 匿名会话中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewCatalogHandler,     // 目录处理器
	handler.NewCartHandler,        // 购物车处理器
	handler.NewOrderHandler,       // 结算处理器
	handler.NewPreferencesHandler, // 偏好处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 多数构造函数的参数是嵌套配置字段或可选项，Wire无法自动提取，
// 需要手动编写Provider。

// provideLogger 从配置创建zap日志
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideKVStore 创建KV存储，Redis不可达时降级为内存实现
func provideKVStore(cfg *config.Config, log *zap.Logger) storage.KeyValueStore {
	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis不可用，改用内存KV存储", zap.Error(err))
		return memory.NewKVStore()
	}
	return redis.NewKVStore(client)
}

// provideCatalogCache 创建目录缓存
func provideCatalogCache(kv storage.KeyValueStore, cfg *config.Config) *cache.CatalogCache {
	return cache.NewCatalogCache(kv, cfg.Cache.TTL)
}

// provideSource 创建mock语料生成器
func provideSource(cfg *config.Config) catalog.Source {
	return mock.NewGenerator(cfg.Catalog.Seed)
}

// provideJWTManager 从配置创建会话Token管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.Session.Secret, cfg.Session.Expire)
}

// provideOpenLibrary 创建Open Library客户端
func provideOpenLibrary(cfg *config.Config, log *zap.Logger) *openlibrary.Client {
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}
	return openlibrary.NewClient(
		cfg.Upstream.OpenLibraryBaseURL,
		httpClient,
		newBreaker("openlibrary", cfg, log),
		log,
	)
}

// provideGoogleBooks 创建Google Books客户端
func provideGoogleBooks(cfg *config.Config, log *zap.Logger) *googlebooks.Client {
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}
	return googlebooks.NewClient(
		cfg.Upstream.GoogleBooksBaseURL,
		cfg.Upstream.GoogleBooksAPIKey,
		httpClient,
		newBreaker("googlebooks", cfg, log),
		log,
	)
}

// providePublisher 创建订单事件发布者
// MQ关闭时返回nil，结算流程跳过发布步骤。
func providePublisher(cfg *config.Config, log *zap.Logger) (apporder.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
}

// provideCatalogService 创建目录应用服务
func provideCatalogService(
	source catalog.Source,
	catalogCache *cache.CatalogCache,
	kv storage.KeyValueStore,
	log *zap.Logger,
	olClient *openlibrary.Client,
	gbClient *googlebooks.Client,
	cfg *config.Config,
) *appcatalog.Service {
	return appcatalog.NewService(
		source, catalogCache, kv, log,
		appcatalog.WithUpstream(olClient),
		appcatalog.WithDetailUpstream(gbClient),
		appcatalog.WithRecommendDelay(cfg.Catalog.RecommendDelay),
		appcatalog.WithFiltersTTL(cfg.Session.Expire),
	)
}

// provideCartService 创建购物车应用服务
// 目录服务充当BookResolver：加购时按ID取图书快照。
func provideCartService(
	kv storage.KeyValueStore,
	catalogService *appcatalog.Service,
	cfg *config.Config,
	log *zap.Logger,
) *appcart.Service {
	return appcart.NewService(kv, catalogService, cfg.Session.Expire, log)
}

// provideOrderService 创建结算应用服务
func provideOrderService(
	kv storage.KeyValueStore,
	carts *appcart.Service,
	publisher apporder.EventPublisher,
	log *zap.Logger,
) *apporder.Service {
	return apporder.NewService(kv, carts, publisher, log)
}

// providePrefService 创建偏好应用服务
func providePrefService(kv storage.KeyValueStore, cfg *config.Config, log *zap.Logger) *preferences.Service {
	return preferences.NewService(kv, cfg.Session.Expire, log)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go的registerRoutes，避免两份路由表漂移。
func provideGinEngine(
	cfg *config.Config,
	log *zap.Logger,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	prefHandler *handler.PreferencesHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logging(log), middleware.Metrics())

	registerRoutes(r, catalogHandler, cartHandler, orderHandler, prefHandler, sessionMiddleware)
	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 占位返回值，实际初始化代码由wire_gen.go生成
	return nil, nil
}
