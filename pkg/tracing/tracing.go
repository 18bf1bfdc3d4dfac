// Package tracing 提供基于OpenTelemetry的追踪
//
// 目录查询是一条多段管线（缓存查找 → 语料生成 → 过滤排序 → 分页 →
// 缓存写入），单看日志很难回答"这次查询慢在哪一段"。每个查询建一个
// Span树，段耗时和cache_hit等属性都挂在Span上。
//
// 核心概念：
// - Trace：一次完整的查询链路
// - Span：链路中的一个操作单元（名称、起止时间、属性、状态）
// - SpanContext：TraceID/SpanID，经W3C traceparent头跨进程传播
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（如 localhost:4317）
//
// 返回关闭函数（程序退出时调用，确保缓冲的Span刷出）。
//
// 采样策略：AlwaysSample（100%采样），适合开发/测试环境；
// 生产环境建议TraceIDRatioBased采样。
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 资源属性：标识产生遥测数据的服务
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. Tracer Provider：批量发送Span到Exporter
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider与传播器（W3C Trace Context + Baggage）
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	// 5. 关闭函数：退出前刷出剩余Span
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// 如果ctx已包含Span，新Span自动成为其子Span。
// Span命名用操作名（如"catalog.query"），动态值放属性。
//
// 示例：
//
//	ctx, span := tracing.StartSpan(ctx, "bookshop", "catalog.query")
//	defer span.End()
//	span.SetAttributes(attribute.Bool("cache_hit", hit))
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于日志关联）
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}
