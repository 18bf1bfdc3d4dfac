// Package dto HTTP请求/响应数据结构
package dto

import "github.com/xiebiao/bookshop/internal/domain/book"

// BookResponse 图书响应
// 折后价与取整评分是派生字段，在接口层算好，客户端直接渲染。
type BookResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Author             string   `json:"author"`
	Description        string   `json:"description"`
	Price              int64    `json:"price"`
	DiscountPercentage int      `json:"discountPercentage,omitempty"`
	DiscountedPrice    float64  `json:"discountedPrice"`
	CoverImage         string   `json:"coverImage"`
	Rating             float64  `json:"rating"`
	RoundedRating      int      `json:"roundedRating"`
	ReviewCount        int      `json:"reviewCount"`
	Genres             []string `json:"genres"`
	PublicationDate    string   `json:"publicationDate"`
	Pages              int      `json:"pages"`
	Language           string   `json:"language"`
	ISBN               string   `json:"isbn"`
	Publisher          string   `json:"publisher"`
	HasPreview         bool     `json:"hasPreview"`
	HasAudioSample     bool     `json:"hasAudioSample"`
}

// FromBook 领域实体转响应
func FromBook(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:                 b.ID,
		Title:              b.Title,
		Author:             b.Author,
		Description:        b.Description,
		Price:              b.Price,
		DiscountPercentage: b.DiscountPercentage,
		DiscountedPrice:    b.DiscountedPrice(),
		CoverImage:         b.CoverImage,
		Rating:             b.Rating,
		RoundedRating:      b.RoundedRating(),
		ReviewCount:        b.ReviewCount,
		Genres:             b.Genres,
		PublicationDate:    b.PublicationDate,
		Pages:              b.Pages,
		Language:           b.Language,
		ISBN:               b.ISBN,
		Publisher:          b.Publisher,
		HasPreview:         b.HasPreview,
		HasAudioSample:     b.HasAudioSample,
	}
}

// FromBooks 批量转换
func FromBooks(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, len(books))
	for i, b := range books {
		out[i] = FromBook(b)
	}
	return out
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PreviewText     string `json:"previewText"`
	PreviewImageURL string `json:"previewImageUrl"`
}

// FromPreview 领域预览转响应
func FromPreview(p *book.Preview) *PreviewResponse {
	return &PreviewResponse{
		BookID:          p.BookID,
		Title:           p.Title,
		Author:          p.Author,
		PreviewText:     p.PreviewText,
		PreviewImageURL: p.PreviewImageURL,
	}
}

// AudioSampleResponse 试听片段响应
type AudioSampleResponse struct {
	ID                 string `json:"id"`
	BookID             string `json:"bookId"`
	Title              string `json:"title"`
	Duration           int    `json:"duration"`
	URL                string `json:"url,omitempty"`
	UseSpeechSynthesis bool   `json:"useSpeechSynthesis"`
	TextToRead         string `json:"textToRead,omitempty"`
}

// FromAudioSample 领域试听片段转响应
func FromAudioSample(a *book.AudioSample) *AudioSampleResponse {
	return &AudioSampleResponse{
		ID:                 a.ID,
		BookID:             a.BookID,
		Title:              a.Title,
		Duration:           a.Duration,
		URL:                a.URL,
		UseSpeechSynthesis: a.UseSpeechSynthesis,
		TextToRead:         a.TextToRead,
	}
}
