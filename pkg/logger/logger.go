// Package logger 提供基于zap的结构化日志
//
// 设计说明：
// 1. 配置驱动：级别、格式、输出目标均来自config.LogConfig
// 2. console格式用于开发环境（彩色、易读），json格式用于生产环境（便于采集）
// 3. 全局唯一Logger实例由main构造后显式传递（依赖注入，不使用zap全局函数）
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
// 与viper的log节对应（level/format/output/enable_caller）
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool   // 是否记录调用位置
}

// New 根据配置构造zap.Logger
func New(cfg Config) (*zap.Logger, error) {
	// 1. 解析日志级别
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// 2. 编码器：console带颜色，json用于日志采集
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	// 3. 输出目标
	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "", "stdout":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr":
		sink = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		sink = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(core, opts...), nil
}

// NewNop 返回空Logger（测试用）
func NewNop() *zap.Logger {
	return zap.NewNop()
}
