// Package book 图书领域模型
//
// 设计说明：图书是纯数据实体，目录的过滤、排序逻辑放在catalog包，
// 折扣价、取整评分这类只依赖自身字段的派生值放在实体方法上。
package book

import "math"

// Book 图书实体
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`

	// Price 原价（卢布整数）
	Price int64 `json:"price"`

	// DiscountPercentage 折扣百分比（0表示无折扣）
	DiscountPercentage int `json:"discountPercentage,omitempty"`

	CoverImage  string  `json:"coverImage"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`

	Genres          []string `json:"genres"`
	PublicationDate string   `json:"publicationDate"` // YYYY-MM-DD
	Pages           int      `json:"pages"`
	Language        string   `json:"language"`
	ISBN            string   `json:"isbn"`
	Publisher       string   `json:"publisher"`

	HasPreview     bool `json:"hasPreview"`
	HasAudioSample bool `json:"hasAudioSample"`
}

// HasDiscount 是否有折扣
func (b *Book) HasDiscount() bool {
	return b.DiscountPercentage > 0
}

// DiscountedPrice 折后价
// 无折扣时等于原价。折后价可能带小数，价格筛选与购物车小计
// 都基于这个值计算，金额汇总时才取整。
func (b *Book) DiscountedPrice() float64 {
	if b.DiscountPercentage <= 0 {
		return float64(b.Price)
	}
	return float64(b.Price) * (1 - float64(b.DiscountPercentage)/100)
}

// RoundedRating 四舍五入后的整星评分
// 评分筛选按整星桶匹配：勾选4星时匹配[3.5, 4.5)内的图书。
func (b *Book) RoundedRating() int {
	return int(math.Round(b.Rating))
}

// Preview 图书预览内容
type Preview struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PreviewText     string `json:"previewText"`
	PreviewImageURL string `json:"previewImageUrl"`
}

// AudioSample 有声书试听片段
type AudioSample struct {
	ID     string `json:"id"`
	BookID string `json:"bookId"`
	Title  string `json:"title"`

	// Duration 片段时长（秒）
	Duration int `json:"duration"`

	// URL 音频地址（语音合成模式下为空）
	URL string `json:"url,omitempty"`

	// UseSpeechSynthesis 是否由客户端用语音合成朗读TextToRead
	UseSpeechSynthesis bool   `json:"useSpeechSynthesis"`
	TextToRead         string `json:"textToRead,omitempty"`
}
