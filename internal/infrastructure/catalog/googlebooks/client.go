// Package googlebooks 封装Google Books图书API客户端
//
// 与openlibrary包同属名义上游：实现完整，但调用方必须准备好
// 降级到本地语料。
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Client Google Books API客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient 创建客户端
func NewClient(baseURL, apiKey string, httpClient *http.Client, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		breaker:    breaker,
		log:        log,
	}
}

type volumesResponse struct {
	Items []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	Description         string   `json:"description"`
	AverageRating       float64  `json:"averageRating"`
	RatingsCount        int      `json:"ratingsCount"`
	Categories          []string `json:"categories"`
	PublishedDate       string   `json:"publishedDate"`
	PageCount           int      `json:"pageCount"`
	Language            string   `json:"language"`
	Publisher           string   `json:"publisher"`
	PreviewLink         string   `json:"previewLink"`
	ImageLinks          struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
	IndustryIdentifiers []struct {
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

// Search 全文搜索图书
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]*book.Book, error) {
	endpoint := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d",
		c.baseURL, url.QueryEscape(query), maxResults)
	if c.apiKey != "" {
		endpoint += "&key=" + url.QueryEscape(c.apiKey)
	}

	var resp volumesResponse
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, endpoint, &resp)
	})
	if err != nil {
		metrics.UpstreamFallbacksTotal.WithLabelValues("googlebooks").Inc()
		return nil, err
	}

	items := resp.Items
	books := make([]*book.Book, 0, len(items))
	for _, item := range items {
		books = append(books, mapVolume(item))
	}
	return books, nil
}

// GetVolume 按ID取单卷详情
func (c *Client) GetVolume(ctx context.Context, id string) (*book.Book, error) {
	endpoint := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(id))
	if c.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.apiKey)
	}

	var v volume
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, endpoint, &v)
	})
	if err != nil {
		metrics.UpstreamFallbacksTotal.WithLabelValues("googlebooks").Inc()
		return nil, err
	}

	return mapVolume(v), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求Google Books失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Google Books返回状态码%d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("解析Google Books响应失败: %w", err)
	}
	return nil
}

// mapVolume 将Google Books卷映射为内部图书格式
func mapVolume(v volume) *book.Book {
	info := v.VolumeInfo

	title := info.Title
	if title == "" {
		title = "Неизвестное название"
	}

	author := "Неизвестный автор"
	if len(info.Authors) > 0 {
		author = strings.Join(info.Authors, ", ")
	}

	description := info.Description
	if description == "" {
		description = "Описание отсутствует"
	}

	genres := info.Categories
	if len(genres) == 0 {
		genres = []string{"Неизвестный жанр"}
	}

	language := info.Language
	if language == "" {
		language = "ru"
	}

	isbn := "Нет данных"
	if len(info.IndustryIdentifiers) > 0 {
		isbn = info.IndustryIdentifiers[0].Identifier
	}

	publisher := info.Publisher
	if publisher == "" {
		publisher = "Неизвестное издательство"
	}

	return &book.Book{
		ID:              v.ID,
		Title:           title,
		Author:          author,
		Description:     description,
		CoverImage:      info.ImageLinks.Thumbnail,
		Rating:          info.AverageRating,
		ReviewCount:     info.RatingsCount,
		Genres:          genres,
		PublicationDate: info.PublishedDate,
		Pages:           info.PageCount,
		Language:        language,
		ISBN:            isbn,
		Publisher:       publisher,
		HasPreview:      info.PreviewLink != "",
	}
}
