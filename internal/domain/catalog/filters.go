// Package catalog 目录查询领域
//
// 设计说明：过滤、排序、分页是纯函数（Engine），不感知缓存和存储；
// 筛选条件（Filters）负责自身的规范化与缓存键生成。这样查询管线
// 可以在没有Redis、没有HTTP的环境下单独测试。
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// 排序方式
const (
	SortPopularity = "popularity" // 按评论数降序（默认）
	SortPriceLow   = "price-low"  // 折后价升序
	SortPriceHigh  = "price-high" // 折后价降序
	SortRating     = "rating"     // 评分降序
	SortNewest     = "newest"     // 出版日期降序
)

// 价格筛选的缺省区间（与前端滑块范围一致）
const (
	DefaultPriceMin int64 = 0
	DefaultPriceMax int64 = 5000
)

// DefaultPerPage 默认每页数量
const DefaultPerPage = 12

// PriceRange 价格区间（对折后价取闭区间）
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Filters 目录筛选条件
//
// 多选字段（Genres/Authors/Publishers/Ratings）为空表示不筛选。
// Page/PerPage不参与缓存键：缓存的是过滤排序后的完整列表，
// 分页在缓存之上计算。
type Filters struct {
	Search     string     `json:"search"`
	Genres     []string   `json:"genres"`
	Authors    []string   `json:"authors"`
	Publishers []string   `json:"publishers"`
	PriceRange PriceRange `json:"priceRange"`
	Ratings    []int      `json:"ratings"`

	OnlyDiscounted bool `json:"onlyDiscounted"`
	HasPreview     bool `json:"hasPreview"`
	HasAudio       bool `json:"hasAudio"`

	SortBy string `json:"sortBy"`

	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// DefaultFilters 返回缺省筛选条件
func DefaultFilters() Filters {
	return Filters{
		PriceRange: PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
		SortBy:     SortPopularity,
		Page:       1,
		PerPage:    DefaultPerPage,
	}
}

// Normalize 规范化筛选条件
// 补齐零值字段的缺省值，保证后续管线不用再做判空。
func (f Filters) Normalize() Filters {
	if f.SortBy == "" {
		f.SortBy = SortPopularity
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PriceRange.Min == 0 && f.PriceRange.Max == 0 {
		f.PriceRange = PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}
	}
	return f
}

// ValidSortBy 校验排序方式
func ValidSortBy(s string) bool {
	switch s {
	case SortPopularity, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	}
	return false
}

// CacheKey 生成缓存键
//
// 两个语义相同的筛选条件必须得到同一个键，否则缓存命中率会被
// 选择顺序打散。因此：
// 1. 字段按固定顺序序列化（与字面量里的字段顺序无关）
// 2. 多选字段先排序再拼接（勾选顺序无关）
// 3. 不含Page/PerPage（缓存的是完整列表）
func (f Filters) CacheKey() string {
	genres := sortedCopy(f.Genres)
	authors := sortedCopy(f.Authors)
	publishers := sortedCopy(f.Publishers)

	ratings := make([]int, len(f.Ratings))
	copy(ratings, f.Ratings)
	sort.Ints(ratings)
	ratingParts := make([]string, len(ratings))
	for i, r := range ratings {
		ratingParts[i] = fmt.Sprintf("%d", r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "search=%s", strings.ToLower(strings.TrimSpace(f.Search)))
	fmt.Fprintf(&b, "|genres=%s", strings.Join(genres, ","))
	fmt.Fprintf(&b, "|authors=%s", strings.Join(authors, ","))
	fmt.Fprintf(&b, "|publishers=%s", strings.Join(publishers, ","))
	fmt.Fprintf(&b, "|price=%d-%d", f.PriceRange.Min, f.PriceRange.Max)
	fmt.Fprintf(&b, "|ratings=%s", strings.Join(ratingParts, ","))
	fmt.Fprintf(&b, "|discounted=%t", f.OnlyDiscounted)
	fmt.Fprintf(&b, "|preview=%t", f.HasPreview)
	fmt.Fprintf(&b, "|audio=%t", f.HasAudio)
	fmt.Fprintf(&b, "|sort=%s", f.SortBy)
	return b.String()
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
