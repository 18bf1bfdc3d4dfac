package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCacheKey_OrderIndependent 多选字段的勾选顺序不影响缓存键
func TestCacheKey_OrderIndependent(t *testing.T) {
	a := Filters{
		Genres:  []string{"Фантастика", "Классика"},
		Authors: []string{"Лев Толстой", "Антон Чехов"},
		Ratings: []int{5, 4},
	}.Normalize()

	b := Filters{
		Genres:  []string{"Классика", "Фантастика"},
		Authors: []string{"Антон Чехов", "Лев Толстой"},
		Ratings: []int{4, 5},
	}.Normalize()

	assert.Equal(t, a.CacheKey(), b.CacheKey())
}

// TestCacheKey_DistinctFilters 语义不同的条件得到不同的键
func TestCacheKey_DistinctFilters(t *testing.T) {
	base := DefaultFilters()

	withSearch := base
	withSearch.Search = "толстой"

	withDiscount := base
	withDiscount.OnlyDiscounted = true

	withPrice := base
	withPrice.PriceRange = PriceRange{Min: 100, Max: 900}

	keys := map[string]bool{
		base.CacheKey():         true,
		withSearch.CacheKey():   true,
		withDiscount.CacheKey(): true,
		withPrice.CacheKey():    true,
	}
	assert.Len(t, keys, 4)
}

// TestCacheKey_IgnoresPagination 分页不参与缓存键
func TestCacheKey_IgnoresPagination(t *testing.T) {
	a := DefaultFilters()
	b := DefaultFilters()
	b.Page = 3
	b.PerPage = 24

	assert.Equal(t, a.CacheKey(), b.CacheKey())
}

// TestCacheKey_SearchCaseInsensitive 搜索词大小写与首尾空白不影响键
func TestCacheKey_SearchCaseInsensitive(t *testing.T) {
	a := DefaultFilters()
	a.Search = "  Война и мир "
	b := DefaultFilters()
	b.Search = "война и мир"

	assert.Equal(t, a.CacheKey(), b.CacheKey())
}

func TestNormalize_Defaults(t *testing.T) {
	f := Filters{}.Normalize()

	assert.Equal(t, SortPopularity, f.SortBy)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.PerPage)
	assert.Equal(t, PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}, f.PriceRange)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	f := Filters{
		SortBy:     SortNewest,
		Page:       2,
		PerPage:    24,
		PriceRange: PriceRange{Min: 0, Max: 1200},
	}.Normalize()

	assert.Equal(t, SortNewest, f.SortBy)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, int64(1200), f.PriceRange.Max)
}

func TestValidSortBy(t *testing.T) {
	assert.True(t, ValidSortBy(SortPopularity))
	assert.True(t, ValidSortBy(SortPriceLow))
	assert.True(t, ValidSortBy(SortNewest))
	assert.False(t, ValidSortBy("alphabetical"))
	assert.False(t, ValidSortBy(""))
}
