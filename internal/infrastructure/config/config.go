package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	MQ       MQConfig       `mapstructure:"mq"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig 匿名会话配置
// 访客会话Token的签名密钥与有效期（购物车、筛选条件按会话持久化）
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

// CatalogConfig 目录配置
type CatalogConfig struct {
	// Seed mock语料生成器的随机种子（0表示按时间播种）
	// 测试环境固定种子可以得到可复现的语料内容
	Seed int64 `mapstructure:"seed"`

	// RecommendDelay 推荐接口的模拟网络延迟
	RecommendDelay time.Duration `mapstructure:"recommend_delay"`

	// DefaultPerPage 默认每页数量
	DefaultPerPage int `mapstructure:"default_per_page"`

	// MaxPriceFilter 价格筛选上限（与前端滑块范围一致）
	MaxPriceFilter int64 `mapstructure:"max_price_filter"`
}

// CacheConfig 目录缓存配置
type CacheConfig struct {
	// TTL 缓存条目有效期（读取时惰性判断，过期视为未命中）
	TTL time.Duration `mapstructure:"ttl"`
}

// UpstreamConfig 名义上游图书API配置
// 这些API在当前部署环境不可达，所有失败都降级为本地mock数据
type UpstreamConfig struct {
	OpenLibraryBaseURL string        `mapstructure:"openlibrary_base_url"`
	GoogleBooksBaseURL string        `mapstructure:"googlebooks_base_url"`
	GoogleBooksAPIKey  string        `mapstructure:"googlebooks_api_key"`
	Timeout            time.Duration `mapstructure:"timeout"`

	// 熔断器参数
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests"` // 半开状态放行请求数
	BreakerInterval    time.Duration `mapstructure:"breaker_interval"`     // 统计窗口
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`      // 熔断持续时间
	BreakerFailures    uint32        `mapstructure:"breaker_failures"`     // 连续失败阈值
}

// MQConfig 消息队列配置
// Enabled=false时结算流程跳过订单事件发布
type MQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // OTLP gRPC端点
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 环境变量覆盖（如BOOKSHOP_REDIS_PASSWORD → redis.password）
func Load() (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 缺省值：没有配置文件也能以内存模式跑起来
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 环境变量绑定（自动转换，如BOOKSHOP_SESSION_SECRET → session.secret）
	v.SetEnvPrefix("BOOKSHOP")
	v.AutomaticEnv()

	// 解析到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 配置验证
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults 设置缺省配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("session.secret", "bookshop-dev-secret")
	v.SetDefault("session.expire", "168h") // 7天

	v.SetDefault("catalog.seed", 0)
	v.SetDefault("catalog.recommend_delay", "800ms")
	v.SetDefault("catalog.default_per_page", 12)
	v.SetDefault("catalog.max_price_filter", 5000)

	v.SetDefault("cache.ttl", "30m")

	v.SetDefault("upstream.openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("upstream.googlebooks_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("upstream.timeout", "3s")
	v.SetDefault("upstream.breaker_max_requests", 2)
	v.SetDefault("upstream.breaker_interval", "30s")
	v.SetDefault("upstream.breaker_timeout", "60s")
	v.SetDefault("upstream.breaker_failures", 3)

	v.SetDefault("mq.enabled", false)
	v.SetDefault("mq.exchange", "bookshop.events")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.enable_caller", false)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.Session.Secret == "bookshop-dev-secret" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改会话签名密钥")
	}

	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("无效的缓存TTL: %v", cfg.Cache.TTL)
	}

	if cfg.Catalog.DefaultPerPage < 1 {
		return fmt.Errorf("无效的默认每页数量: %d", cfg.Catalog.DefaultPerPage)
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用MQ时必须配置mq.url")
	}

	return nil
}
