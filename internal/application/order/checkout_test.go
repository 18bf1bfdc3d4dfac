package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/storage"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

type staticResolver map[string]*book.Book

func (r staticResolver) FetchBookByID(_ context.Context, id string) (*book.Book, error) {
	if b, ok := r[id]; ok {
		return b, nil
	}
	return nil, book.ErrNotFound
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail && routingKey == "order.placed" {
		return errors.New("MQ不可用")
	}
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newTestServices(publisher EventPublisher) (storage.KeyValueStore, *cartapp.Service, *Service) {
	kv := memory.NewKVStore()
	resolver := staticResolver{
		"1": {ID: "1", Title: "Война и мир", Price: 1000, DiscountPercentage: 20},
	}
	carts := cartapp.NewService(kv, resolver, 7*24*time.Hour, zap.NewNop())
	orders := NewService(kv, carts, publisher, zap.NewNop())
	return kv, carts, orders
}

func validForm() *order.CheckoutForm {
	return &order.CheckoutForm{
		Name:          "Иван Петров",
		Email:         "ivan@example.com",
		Address:       "Москва, ул. Тверская, 1",
		PaymentMethod: order.PaymentCash,
	}
}

func TestCheckout_Success(t *testing.T) {
	publisher := &recordingPublisher{}
	_, carts, orders := newTestServices(publisher)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", "1", 2)
	require.NoError(t, err)

	o, err := orders.Checkout(ctx, "sess-1", validForm())
	require.NoError(t, err)

	assert.NotEmpty(t, o.OrderNo)
	assert.Equal(t, int64(1600), o.Total)
	assert.Equal(t, []string{"order.placed"}, publisher.published())

	// 购物车已清空
	c, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	// 订单快照可读回
	loaded, err := orders.GetOrder(ctx, "sess-1", o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, o.Total, loaded.Total)
	assert.Len(t, loaded.Items, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	_, _, orders := newTestServices(nil)

	_, err := orders.Checkout(context.Background(), "sess-1", validForm())
	assert.ErrorIs(t, err, cart.ErrEmpty)
}

func TestCheckout_InvalidForm(t *testing.T) {
	_, carts, orders := newTestServices(nil)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)

	form := validForm()
	form.PaymentMethod = order.PaymentCard // 缺少卡信息
	_, err = orders.Checkout(ctx, "sess-1", form)
	assert.ErrorIs(t, err, order.ErrCardDetailsRequired)

	// 校验失败不触碰购物车
	c, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty())
}

// TestCheckout_PublishFails 事件发布失败时补偿：订单快照被删除，购物车保留
func TestCheckout_PublishFails(t *testing.T) {
	publisher := &recordingPublisher{fail: true}
	kv, carts, orders := newTestServices(publisher)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, "sess-1", validForm())
	require.Error(t, err)

	// 购物车未被清空
	c, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty())

	// 订单快照已被补偿删除
	deleted, err := kv.DeleteByPrefix(ctx, "order:sess-1:")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

// TestCheckout_NoPublisher MQ关闭时跳过事件发布
func TestCheckout_NoPublisher(t *testing.T) {
	_, carts, orders := newTestServices(nil)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)

	o, err := orders.Checkout(ctx, "sess-1", validForm())
	require.NoError(t, err)
	assert.NotEmpty(t, o.OrderNo)
}

func TestGetOrder_NotFound(t *testing.T) {
	_, _, orders := newTestServices(nil)

	_, err := orders.GetOrder(context.Background(), "sess-1", "ORD404")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
