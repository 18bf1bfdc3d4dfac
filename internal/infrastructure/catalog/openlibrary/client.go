// Package openlibrary 封装Open Library图书API客户端
//
// 设计说明：这是名义上游——当前部署环境访问不到外网，调用几乎
// 必然失败。客户端仍按真实集成实现（超时、熔断、字段映射），
// 降级决策留给调用方；熔断打开后跳过网络请求直接快速失败。
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Client Open Library API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient 创建客户端
func NewClient(baseURL string, httpClient *http.Client, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
		log:        log,
	}
}

// searchResponse /search.json响应
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverID          int64    `json:"cover_i"`
	Subject          []string `json:"subject"`
	FirstPublishYear int      `json:"first_publish_year"`
	PagesMedian      int      `json:"number_of_pages_median"`
	Language         []string `json:"language"`
	ISBN             []string `json:"isbn"`
	Publisher        []string `json:"publisher"`
}

// subjectsResponse /subjects/{genre}.json响应
type subjectsResponse struct {
	Works []searchDoc `json:"works"`
}

// SearchByTitle 按书名搜索
func (c *Client) SearchByTitle(ctx context.Context, title string, limit int) ([]*book.Book, error) {
	endpoint := fmt.Sprintf("%s/search.json?title=%s&limit=%d",
		c.baseURL, url.QueryEscape(title), limit)

	var resp searchResponse
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		metrics.UpstreamFallbacksTotal.WithLabelValues("openlibrary").Inc()
		return nil, err
	}

	docs := resp.Docs
	books := make([]*book.Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, c.mapDoc(doc))
	}
	return books, nil
}

// Recommendations 按分类取推荐作品
func (c *Client) Recommendations(ctx context.Context, genre string, limit int) ([]*book.Book, error) {
	if genre == "" {
		genre = "fiction"
	}
	endpoint := fmt.Sprintf("%s/subjects/%s.json?limit=%d",
		c.baseURL, url.PathEscape(strings.ToLower(genre)), limit)

	var resp subjectsResponse
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		metrics.UpstreamFallbacksTotal.WithLabelValues("openlibrary").Inc()
		return nil, err
	}

	works := resp.Works
	books := make([]*book.Book, 0, len(works))
	for _, w := range works {
		books = append(books, c.mapDoc(w))
	}
	return books, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求Open Library失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Open Library返回状态码%d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("解析Open Library响应失败: %w", err)
	}
	return nil
}

// mapDoc 将Open Library的作品记录映射为内部图书格式
// 上游没有价格与评分，这些字段留零值，由调用方补全或丢弃。
func (c *Client) mapDoc(doc searchDoc) *book.Book {
	id := strings.TrimPrefix(doc.Key, "/works/")

	author := "Неизвестный автор"
	if len(doc.AuthorName) > 0 {
		author = strings.Join(doc.AuthorName, ", ")
	}

	title := doc.Title
	if title == "" {
		title = "Неизвестное название"
	}

	cover := ""
	if doc.CoverID != 0 {
		cover = fmt.Sprintf("%s/b/id/%d-M.jpg", c.baseURL, doc.CoverID)
	}

	genres := doc.Subject
	if len(genres) == 0 {
		genres = []string{"Неизвестный жанр"}
	}

	pubDate := ""
	if doc.FirstPublishYear != 0 {
		pubDate = strconv.Itoa(doc.FirstPublishYear) + "-01-01"
	}

	language := "ru"
	if len(doc.Language) > 0 {
		language = doc.Language[0]
	}

	isbn := "Нет данных"
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	publisher := "Неизвестное издательство"
	if len(doc.Publisher) > 0 {
		publisher = doc.Publisher[0]
	}

	return &book.Book{
		ID:              id,
		Title:           title,
		Author:          author,
		Description:     "Описание отсутствует",
		CoverImage:      cover,
		Genres:          genres,
		PublicationDate: pubDate,
		Pages:           doc.PagesMedian,
		Language:        language,
		ISBN:            isbn,
		Publisher:       publisher,
		HasPreview:      true,
	}
}
