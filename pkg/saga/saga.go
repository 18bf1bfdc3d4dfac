// Package saga 实现带补偿的多步骤事务执行器
//
// 结算流程涉及多个存储槽位（订单快照、购物车）和外部副作用（订单事件），
// 没有跨资源的原子提交可用。Saga把流程拆成带补偿的短步骤：
// 1. 按顺序执行每个步骤
// 2. 某步失败时，按逆序执行已完成步骤的补偿操作
// 3. 补偿必须幂等（允许重试）
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如保存订单快照、发布订单事件）
// 2. Compensate是补偿操作（如删除快照、恢复购物车）
// 3. 每个操作都必须支持幂等
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
	log      *zap.Logger   // 补偿失败需要记录日志
}

// NewSaga 创建一个新的Saga事务
//
// 示例：
//
//	sg := saga.NewSaga(10*time.Second, logger)
//	sg.AddStep("保存订单快照", saveOrder, deleteOrder)
//	sg.AddStep("发布订单事件", publishEvent, nil)
//	sg.AddStep("清空购物车", clearCart, restoreCart)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration, log *zap.Logger) *Saga {
	if log == nil {
		log = zap.NewNop()
	}
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
		log:     log,
	}
}

// AddStep 添加一个Saga步骤
//
// 步骤按添加顺序执行，按逆序补偿。Action和Compensate都可以为nil
// （如最后一步通常无需补偿）。补偿操作必须完全独立，不能依赖
// 后续步骤的结果。
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 如果某步失败或整体超时，逆序执行已完成步骤的Compensate
// 3. 返回首个失败步骤的错误
//
// Saga保证"最终一致性"，而非"强一致性"；补偿期间数据可能处于
// 中间状态，业务需要容忍。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 超时，触发补偿（用新Context，避免补偿也超时）
			s.compensate(context.Background())
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
//
// 即使某个Compensate失败也继续执行后续补偿（尽最大努力），
// 失败只记录日志，需要时人工介入。
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				s.log.Error("saga补偿失败",
					zap.String("step", step.Name),
					zap.Error(err),
				)
			}
		}
	}

	s.executed = nil
}
