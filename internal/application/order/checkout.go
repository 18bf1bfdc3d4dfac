// Package order 结算应用服务
//
// 设计说明：结算是一个多步流程（持久化订单快照 → 发布订单事件 →
// 清空购物车），用Saga编排：任何一步失败，按逆序补偿已完成的步骤，
// 不会留下"订单已存但事件未发"的中间状态。
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	cartapp "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/storage"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/saga"
)

// EventPublisher 订单事件发布接口
// 由pkg/mq的Publisher实现；MQ关闭时注入nil，发布步骤跳过。
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderPlacedEvent 订单提交事件
type OrderPlacedEvent struct {
	OrderNo       string    `json:"orderNo"`
	SessionID     string    `json:"sessionId"`
	Total         int64     `json:"total"`
	TotalQuantity int       `json:"totalQuantity"`
	PaymentMethod string    `json:"paymentMethod"`
	PlacedAt      time.Time `json:"placedAt"`
}

// Service 结算应用服务
type Service struct {
	kv        storage.KeyValueStore
	carts     *cartapp.Service
	publisher EventPublisher
	log       *zap.Logger

	// sagaTimeout 整个结算流程的时限
	sagaTimeout time.Duration
}

// NewService 创建结算应用服务
func NewService(kv storage.KeyValueStore, carts *cartapp.Service, publisher EventPublisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		kv:          kv,
		carts:       carts,
		publisher:   publisher,
		log:         log,
		sagaTimeout: 10 * time.Second,
	}
}

func orderKey(sessionID, orderNo string) string {
	return fmt.Sprintf("order:%s:%s", sessionID, orderNo)
}

// Checkout 提交订单
//
// 前置校验（表单、购物车非空）在Saga之外完成，Saga只编排
// 有副作用的步骤。
func (s *Service) Checkout(ctx context.Context, sessionID string, form *order.CheckoutForm) (*order.Order, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmpty
	}

	o := order.NewOrder(sessionID, c, form)

	sg := saga.NewSaga(s.sagaTimeout, s.log)

	sg.AddStep("保存订单快照",
		func(ctx context.Context) error {
			return s.saveOrder(ctx, o)
		},
		func(ctx context.Context) error {
			return s.kv.Delete(ctx, orderKey(sessionID, o.OrderNo))
		},
	)

	if s.publisher != nil {
		sg.AddStep("发布订单事件",
			func(ctx context.Context) error {
				return s.publisher.Publish(ctx, "order.placed", OrderPlacedEvent{
					OrderNo:       o.OrderNo,
					SessionID:     sessionID,
					Total:         o.Total,
					TotalQuantity: o.TotalQuantity,
					PaymentMethod: o.PaymentMethod,
					PlacedAt:      o.CreatedAt,
				})
			},
			func(ctx context.Context) error {
				return s.publisher.Publish(ctx, "order.cancelled", map[string]string{
					"orderNo":   o.OrderNo,
					"sessionId": sessionID,
				})
			},
		)
	}

	sg.AddStep("清空购物车",
		func(ctx context.Context) error {
			return s.carts.Clear(ctx, sessionID)
		},
		func(ctx context.Context) error {
			// 购物车是最后一步，失败时本步尚未生效，无需恢复
			return nil
		},
	)

	if err := sg.Execute(ctx); err != nil {
		metrics.OrdersFailedTotal.Inc()
		return nil, fmt.Errorf("结算失败: %w", err)
	}

	metrics.OrdersPlacedTotal.Inc()
	s.log.Info("订单已提交",
		zap.String("order_no", o.OrderNo),
		zap.String("session_id", sessionID),
		zap.Int64("total", o.Total),
	)
	return o, nil
}

// GetOrder 读取订单快照
func (s *Service) GetOrder(ctx context.Context, sessionID, orderNo string) (*order.Order, error) {
	data, err := s.kv.Get(ctx, orderKey(sessionID, orderNo))
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("解析订单快照失败: %w", err)
	}
	return &o, nil
}

func (s *Service) saveOrder(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("序列化订单失败: %w", err)
	}
	// 订单快照不设TTL：访客回到"我的订单"时仍可见
	return s.kv.Set(ctx, orderKey(o.SessionID, o.OrderNo), data, 0)
}
