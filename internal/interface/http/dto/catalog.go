package dto

import (
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// PriceRangeDTO 价格区间
type PriceRangeDTO struct {
	Min int64 `json:"min" binding:"min=0"`
	Max int64 `json:"max" binding:"min=0"`
}

// UpdateFiltersRequest 筛选条件部分更新请求
// 缺席的字段（null）保持现值，这也是为什么这里全是指针。
type UpdateFiltersRequest struct {
	Search         *string        `json:"search"`
	Genres         *[]string      `json:"genres"`
	Authors        *[]string      `json:"authors"`
	Publishers     *[]string      `json:"publishers"`
	PriceRange     *PriceRangeDTO `json:"priceRange"`
	Ratings        *[]int         `json:"ratings"`
	OnlyDiscounted *bool          `json:"onlyDiscounted"`
	HasPreview     *bool          `json:"hasPreview"`
	HasAudio       *bool          `json:"hasAudio"`
	SortBy         *string        `json:"sortBy"`
	Page           *int           `json:"page" binding:"omitempty,min=1"`
	PerPage        *int           `json:"perPage" binding:"omitempty,min=1,max=100"`
}

// ToFilterUpdate 转换为应用层的部分更新
func (r *UpdateFiltersRequest) ToFilterUpdate() appcatalog.FilterUpdate {
	update := appcatalog.FilterUpdate{
		Search:         r.Search,
		Genres:         r.Genres,
		Authors:        r.Authors,
		Publishers:     r.Publishers,
		Ratings:        r.Ratings,
		OnlyDiscounted: r.OnlyDiscounted,
		HasPreview:     r.HasPreview,
		HasAudio:       r.HasAudio,
		SortBy:         r.SortBy,
		Page:           r.Page,
		PerPage:        r.PerPage,
	}
	if r.PriceRange != nil {
		update.PriceRange = &catalog.PriceRange{
			Min: r.PriceRange.Min,
			Max: r.PriceRange.Max,
		}
	}
	return update
}

// SetPageRequest 翻页请求
type SetPageRequest struct {
	Page int `json:"page" binding:"required,min=1"`
}

// FiltersResponse 当前筛选条件
type FiltersResponse struct {
	Search         string             `json:"search"`
	Genres         []string           `json:"genres"`
	Authors        []string           `json:"authors"`
	Publishers     []string           `json:"publishers"`
	PriceRange     catalog.PriceRange `json:"priceRange"`
	Ratings        []int              `json:"ratings"`
	OnlyDiscounted bool               `json:"onlyDiscounted"`
	HasPreview     bool               `json:"hasPreview"`
	HasAudio       bool               `json:"hasAudio"`
	SortBy         string             `json:"sortBy"`
	Page           int                `json:"page"`
	PerPage        int                `json:"perPage"`
}

// FromFilters 领域筛选条件转响应
func FromFilters(f catalog.Filters) FiltersResponse {
	return FiltersResponse{
		Search:         f.Search,
		Genres:         emptyIfNil(f.Genres),
		Authors:        emptyIfNil(f.Authors),
		Publishers:     emptyIfNil(f.Publishers),
		PriceRange:     f.PriceRange,
		Ratings:        emptyIntsIfNil(f.Ratings),
		OnlyDiscounted: f.OnlyDiscounted,
		HasPreview:     f.HasPreview,
		HasAudio:       f.HasAudio,
		SortBy:         f.SortBy,
		Page:           f.Page,
		PerPage:        f.PerPage,
	}
}

// BooksResponse 目录查询响应
type BooksResponse struct {
	Books        []*BookResponse `json:"books"`
	Total        int             `json:"total"`
	Page         int             `json:"page"`
	PerPage      int             `json:"perPage"`
	TotalPages   int             `json:"totalPages"`
	Filters      FiltersResponse `json:"filters"`
	FromCache    bool            `json:"fromCache"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// FromQueryResult 查询结果转响应
func FromQueryResult(r *appcatalog.QueryResult) *BooksResponse {
	return &BooksResponse{
		Books:        FromBooks(r.Books),
		Total:        r.Total,
		Page:         r.Page,
		PerPage:      r.PerPage,
		TotalPages:   r.TotalPages,
		Filters:      FromFilters(r.Filters),
		FromCache:    r.FromCache,
		ErrorMessage: r.ErrorMessage,
	}
}

// ClearCacheResponse 清空缓存响应
type ClearCacheResponse struct {
	Deleted int `json:"deleted"`
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIntsIfNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
