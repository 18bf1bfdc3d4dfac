package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/application/preferences"
	"github.com/xiebiao/bookshop/internal/infrastructure/catalog/mock"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// 测试辅助工具
//
// 集成测试不依赖外部进程：完整的应用在内存里组装（内存KV存储、
// 固定种子的mock语料、无上游客户端），经httptest走真实的HTTP栈。
// 固定种子保证语料内容可复现，断言可以依赖具体书目。

// TestSeed mock语料的固定随机种子
const TestSeed = 42

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BooksData 目录查询响应数据
type BooksData struct {
	Books        []BookData  `json:"books"`
	Total        int         `json:"total"`
	Page         int         `json:"page"`
	PerPage      int         `json:"perPage"`
	TotalPages   int         `json:"totalPages"`
	Filters      FiltersData `json:"filters"`
	FromCache    bool        `json:"fromCache"`
	ErrorMessage string      `json:"errorMessage"`
}

// FiltersData 筛选条件响应数据
type FiltersData struct {
	Search         string   `json:"search"`
	Genres         []string `json:"genres"`
	Authors        []string `json:"authors"`
	Publishers     []string `json:"publishers"`
	Ratings        []int    `json:"ratings"`
	OnlyDiscounted bool     `json:"onlyDiscounted"`
	SortBy         string   `json:"sortBy"`
	Page           int      `json:"page"`
	PerPage        int      `json:"perPage"`
}

// BookData 图书响应数据
type BookData struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Author             string   `json:"author"`
	Price              int64    `json:"price"`
	DiscountPercentage int      `json:"discountPercentage"`
	DiscountedPrice    float64  `json:"discountedPrice"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"reviewCount"`
	Genres             []string `json:"genres"`
	Publisher          string   `json:"publisher"`
	HasPreview         bool     `json:"hasPreview"`
	HasAudioSample     bool     `json:"hasAudioSample"`
}

// CartData 购物车响应数据
type CartData struct {
	Items []struct {
		Book     BookData `json:"book"`
		Quantity int      `json:"quantity"`
		Subtotal int64    `json:"subtotal"`
	} `json:"items"`
	TotalQuantity int   `json:"totalQuantity"`
	Subtotal      int64 `json:"subtotal"`
	Discount      int64 `json:"discount"`
	Total         int64 `json:"total"`
}

// OrderData 订单响应数据
type OrderData struct {
	OrderNo       string `json:"orderNo"`
	TotalQuantity int    `json:"totalQuantity"`
	Subtotal      int64  `json:"subtotal"`
	Discount      int64  `json:"discount"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
}

// ThemeData 主题偏好响应数据
type ThemeData struct {
	Theme string `json:"theme"`
}

// PreviewData 预览响应数据
type PreviewData struct {
	BookID      string `json:"bookId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	PreviewText string `json:"previewText"`
}

// AudioData 试听片段响应数据
type AudioData struct {
	ID                 string `json:"id"`
	BookID             string `json:"bookId"`
	Duration           int    `json:"duration"`
	UseSpeechSynthesis bool   `json:"useSpeechSynthesis"`
	TextToRead         string `json:"textToRead"`
}

// NewTestServer 组装完整应用并启动httptest服务
//
// 与main.go的手动组装保持一致，区别只在：
// - 内存KV存储代替Redis
// - 不注入上游客户端（推荐与详情直接走本地语料）
// - 推荐延迟降到1ms，避免拖慢测试
func NewTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	metrics.InitMetrics()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	kv := memory.NewKVStore()
	catalogCache := cache.NewCatalogCache(kv, 30*time.Minute)
	source := mock.NewGenerator(TestSeed)
	jwtManager := jwt.NewManager("integration-secret", time.Hour)

	catalogService := appcatalog.NewService(
		source, catalogCache, kv, log,
		appcatalog.WithRecommendDelay(time.Millisecond),
	)
	cartService := appcart.NewService(kv, catalogService, time.Hour, log)
	orderService := apporder.NewService(kv, cartService, nil, log)
	prefService := preferences.NewService(kv, time.Hour, log)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	prefHandler := handler.NewPreferencesHandler(prefService)
	sessionMiddleware := middleware.NewSessionMiddleware(jwtManager, log)

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.Use(sessionMiddleware.Attach())
	{
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

		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:bookId", cartHandler.UpdateItem)
			cart.DELETE("/items/:bookId", cartHandler.RemoveItem)
		}

		v1.POST("/checkout", orderHandler.Checkout)
		v1.GET("/orders/:orderNo", orderHandler.GetOrder)

		theme := v1.Group("/preferences/theme")
		{
			theme.GET("", prefHandler.GetTheme)
			theme.PUT("", prefHandler.SetTheme)
		}
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// Client 带会话Token的测试客户端
//
// 首个响应的X-Session-Token头被自动记住并在后续请求携带，
// 同一个Client的所有请求落在同一个访客会话上。
type Client struct {
	t     *testing.T
	base  string
	token string
	http  *http.Client
}

// NewClient 创建测试客户端
func NewClient(t *testing.T, srv *httptest.Server) *Client {
	return &Client{
		t:    t,
		base: srv.URL + "/api/v1",
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Get 发送GET请求
func (c *Client) Get(path string) *Response {
	return c.do("GET", path, nil)
}

// Post 发送POST请求
func (c *Client) Post(path string, body interface{}) *Response {
	return c.do("POST", path, body)
}

// Put 发送PUT请求
func (c *Client) Put(path string, body interface{}) *Response {
	return c.do("PUT", path, body)
}

// Delete 发送DELETE请求
func (c *Client) Delete(path string) *Response {
	return c.do("DELETE", path, nil)
}

func (c *Client) do(method, path string, body interface{}) *Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "JSON序列化失败")
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	// 记住新签发的会话Token
	if token := resp.Header.Get(middleware.SessionTokenHeader); token != "" {
		c.token = token
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(c.t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// DecodeData 解析响应的data字段
func DecodeData(t *testing.T, resp *Response, out interface{}) {
	t.Helper()
	require.Equal(t, 0, resp.Code, "请求应该成功: %s", resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, out), "解析响应数据失败")
}
