package catalog

import (
	"sort"
	"strings"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Engine 目录查询引擎
//
// 纯函数集合：输入完整语料与筛选条件，输出过滤排序后的列表。
// 过滤阶段按固定顺序执行，每一阶段只在条件生效时收窄候选集。
type Engine struct{}

// NewEngine 创建查询引擎
func NewEngine() *Engine {
	return &Engine{}
}

// Apply 对语料执行过滤与排序，返回完整结果列表（未分页）
//
// 阶段顺序：搜索 → 价格 → 评分 → 分类 → 作者 → 出版社 →
// 仅折扣 → 预览/试听标记 → 排序
func (e *Engine) Apply(books []*book.Book, f Filters) []*book.Book {
	f = f.Normalize()

	result := books

	// 1. 搜索：标题、作者、简介或分类的大小写不敏感子串匹配
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		result = filter(result, func(b *book.Book) bool {
			if strings.Contains(strings.ToLower(b.Title), q) ||
				strings.Contains(strings.ToLower(b.Author), q) ||
				strings.Contains(strings.ToLower(b.Description), q) {
				return true
			}
			for _, g := range b.Genres {
				if strings.Contains(strings.ToLower(g), q) {
					return true
				}
			}
			return false
		})
	}

	// 2. 价格：折后价落在闭区间内
	// 原价1000、折扣20%的书在区间[0, 800]内可见
	result = filter(result, func(b *book.Book) bool {
		p := b.DiscountedPrice()
		return p >= float64(f.PriceRange.Min) && p <= float64(f.PriceRange.Max)
	})

	// 3. 评分：四舍五入后的整星评分命中任一勾选桶
	if len(f.Ratings) > 0 {
		buckets := make(map[int]bool, len(f.Ratings))
		for _, r := range f.Ratings {
			buckets[r] = true
		}
		result = filter(result, func(b *book.Book) bool {
			return buckets[b.RoundedRating()]
		})
	}

	// 4. 分类：勾选项与图书分类相等，或互为子串
	// 子串双向匹配让"Фантастика"能命中"Научная фантастика"
	if len(f.Genres) > 0 {
		result = filter(result, func(b *book.Book) bool {
			for _, selected := range f.Genres {
				s := strings.ToLower(selected)
				for _, g := range b.Genres {
					bg := strings.ToLower(g)
					if bg == s || strings.Contains(bg, s) || strings.Contains(s, bg) {
						return true
					}
				}
			}
			return false
		})
	}

	// 5. 作者：相等、互为子串、或姓氏（最后一个词）相同
	if len(f.Authors) > 0 {
		result = filter(result, func(b *book.Book) bool {
			ba := strings.ToLower(b.Author)
			for _, selected := range f.Authors {
				s := strings.ToLower(selected)
				if ba == s || strings.Contains(ba, s) || strings.Contains(s, ba) {
					return true
				}
				if lastNameOf(ba) == lastNameOf(s) {
					return true
				}
			}
			return false
		})
	}

	// 6. 出版社：相等或互为子串
	if len(f.Publishers) > 0 {
		result = filter(result, func(b *book.Book) bool {
			bp := strings.ToLower(b.Publisher)
			for _, selected := range f.Publishers {
				s := strings.ToLower(selected)
				if bp == s || strings.Contains(bp, s) || strings.Contains(s, bp) {
					return true
				}
			}
			return false
		})
	}

	// 7. 仅显示折扣商品
	if f.OnlyDiscounted {
		result = filter(result, func(b *book.Book) bool {
			return b.HasDiscount()
		})
	}

	// 8. 预览/试听标记
	if f.HasPreview {
		result = filter(result, func(b *book.Book) bool {
			return b.HasPreview
		})
	}
	if f.HasAudio {
		result = filter(result, func(b *book.Book) bool {
			return b.HasAudioSample
		})
	}

	// 排序（稳定排序：比较键相等时保留语料原有顺序）
	sorted := make([]*book.Book, len(result))
	copy(sorted, result)
	sortBooks(sorted, f.SortBy)
	return sorted
}

// filter 返回满足谓词的子集（不修改原切片）
func filter(books []*book.Book, keep func(*book.Book) bool) []*book.Book {
	out := make([]*book.Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// lastNameOf 提取姓氏（空格分隔的最后一个词）
func lastNameOf(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// sortBooks 按指定方式就地稳定排序
func sortBooks(books []*book.Book, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].DiscountedPrice() < books[j].DiscountedPrice()
		})
	case SortPriceHigh:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].DiscountedPrice() > books[j].DiscountedPrice()
		})
	case SortRating:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Rating > books[j].Rating
		})
	case SortNewest:
		// 出版日期为YYYY-MM-DD，字典序即时间序
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].PublicationDate > books[j].PublicationDate
		})
	default: // SortPopularity
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].ReviewCount > books[j].ReviewCount
		})
	}
}

// Page 一页查询结果
type Page struct {
	Books      []*book.Book
	Total      int // 过滤后的总数
	Page       int
	PerPage    int
	TotalPages int
}

// Paginate 对完整结果列表取一页
//
// 页码超出范围时返回空列表（Total/TotalPages仍然有效），
// 调用方据此渲染"无结果"而不是报错。
func Paginate(books []*book.Book, page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	total := len(books)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Books:      books[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
