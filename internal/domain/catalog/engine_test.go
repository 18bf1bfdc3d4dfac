package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// testCorpus 构造一组覆盖各筛选维度的图书
func testCorpus() []*book.Book {
	return []*book.Book{
		{
			ID: "1", Title: "Война и мир", Author: "Лев Толстой",
			Price: 1000, DiscountPercentage: 20, // 折后800
			Rating: 4.8, ReviewCount: 90,
			Genres: []string{"Классика"}, Publisher: "АСТ",
			PublicationDate: "1869-01-01",
			HasPreview:      true, HasAudioSample: true,
		},
		{
			ID: "2", Title: "Анна Каренина", Author: "Лев Толстой",
			Price: 800, Rating: 4.4, ReviewCount: 70,
			Genres: []string{"Классика", "Роман"}, Publisher: "Эксмо",
			PublicationDate: "1877-01-01",
			HasPreview:      true,
		},
		{
			ID: "3", Title: "Мы", Author: "Евгений Замятин",
			Price: 600, DiscountPercentage: 10, // 折后540
			Rating: 4.1, ReviewCount: 40,
			Genres: []string{"Научная фантастика"}, Publisher: "АСТ",
			PublicationDate: "1920-01-01",
			HasPreview:      true, HasAudioSample: true,
		},
		{
			ID: "4", Title: "Вишнёвый сад", Author: "Антон Чехов",
			Price: 450, Rating: 3.6, ReviewCount: 25,
			Genres: []string{"Драма"}, Publisher: "Азбука",
			PublicationDate: "1904-01-01",
			HasPreview:      true,
		},
	}
}

func TestApply_NoFilters_SortsByPopularity(t *testing.T) {
	e := NewEngine()

	result := e.Apply(testCorpus(), DefaultFilters())

	require.Len(t, result, 4)
	// 评论数降序：90, 70, 40, 25
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(result))
}

func TestApply_Search_MatchesSeveralFields(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Search = "толстой" // 作者匹配，大小写不敏感
	result := e.Apply(testCorpus(), f)
	assert.Equal(t, []string{"1", "2"}, ids(result))

	f.Search = "каренина" // 标题匹配
	result = e.Apply(testCorpus(), f)
	assert.Equal(t, []string{"2"}, ids(result))

	f.Search = "драма" // 分类匹配
	result = e.Apply(testCorpus(), f)
	assert.Equal(t, []string{"4"}, ids(result))

	f.Search = "достоевский"
	result = e.Apply(testCorpus(), f)
	assert.Empty(t, result)
}

// TestApply_PriceRange_UsesDiscountedPrice 价格筛选按折后价闭区间
func TestApply_PriceRange_UsesDiscountedPrice(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.PriceRange = PriceRange{Min: 0, Max: 800}

	result := e.Apply(testCorpus(), f)

	// 书1原价1000但折后恰好800，闭区间内可见；书2原价800无折扣
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, ids(result))

	f.PriceRange = PriceRange{Min: 0, Max: 799}
	result = e.Apply(testCorpus(), f)
	assert.ElementsMatch(t, []string{"3", "4"}, ids(result))
}

// TestApply_Ratings_RoundsToStars 评分筛选按四舍五入的整星桶
func TestApply_Ratings_RoundsToStars(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Ratings = []int{4}

	result := e.Apply(testCorpus(), f)

	// 4.4→4、4.1→4、3.6→4命中；4.8→5不命中
	assert.ElementsMatch(t, []string{"2", "3", "4"}, ids(result))
}

// TestApply_Genre_SubstringBothWays 分类匹配支持双向子串
func TestApply_Genre_SubstringBothWays(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Genres = []string{"Фантастика"}

	result := e.Apply(testCorpus(), f)

	// "Научная фантастика"包含"фантастика"
	assert.Equal(t, []string{"3"}, ids(result))
}

// TestApply_Author_LastNameMatch 作者匹配支持姓氏命中
func TestApply_Author_LastNameMatch(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Authors = []string{"Л. Толстой"}

	result := e.Apply(testCorpus(), f)

	assert.ElementsMatch(t, []string{"1", "2"}, ids(result))
}

func TestApply_Publisher(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Publishers = []string{"АСТ"}

	result := e.Apply(testCorpus(), f)

	assert.ElementsMatch(t, []string{"1", "3"}, ids(result))
}

func TestApply_OnlyDiscounted(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.OnlyDiscounted = true

	result := e.Apply(testCorpus(), f)

	assert.ElementsMatch(t, []string{"1", "3"}, ids(result))
}

func TestApply_AudioFlag(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.HasAudio = true

	result := e.Apply(testCorpus(), f)

	assert.ElementsMatch(t, []string{"1", "3"}, ids(result))
}

func TestApply_SortByPrice(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.SortBy = SortPriceLow
	result := e.Apply(testCorpus(), f)
	// 折后价：450, 540, 800, 800（书1折后与书2同价，稳定排序保留语料顺序）
	assert.Equal(t, []string{"4", "3", "1", "2"}, ids(result))

	f.SortBy = SortPriceHigh
	result = e.Apply(testCorpus(), f)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(result))
}

func TestApply_SortByNewest(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.SortBy = SortNewest

	result := e.Apply(testCorpus(), f)

	assert.Equal(t, []string{"3", "4", "2", "1"}, ids(result))
}

// TestApply_CombinedFilters 多条件交集
func TestApply_CombinedFilters(t *testing.T) {
	e := NewEngine()

	f := DefaultFilters()
	f.Publishers = []string{"АСТ"}
	f.OnlyDiscounted = true
	f.PriceRange = PriceRange{Min: 500, Max: 900}

	result := e.Apply(testCorpus(), f)

	assert.ElementsMatch(t, []string{"1", "3"}, ids(result))
}

// TestApply_DoesNotMutateInput 管线不改动输入语料
func TestApply_DoesNotMutateInput(t *testing.T) {
	e := NewEngine()
	corpus := testCorpus()

	f := DefaultFilters()
	f.SortBy = SortPriceLow
	e.Apply(corpus, f)

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(corpus))
}

func TestPaginate(t *testing.T) {
	// 25本书、每页10本、取第2页：下标10..19，共3页
	books := make([]*book.Book, 25)
	for i := range books {
		books[i] = &book.Book{ID: fmt.Sprintf("%d", i)}
	}

	page := Paginate(books, 2, 10)

	require.Len(t, page.Books, 10)
	assert.Equal(t, "10", page.Books[0].ID)
	assert.Equal(t, "19", page.Books[9].ID)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

// TestPaginate_OutOfRange 页码越界返回空页而不是报错
func TestPaginate_OutOfRange(t *testing.T) {
	books := make([]*book.Book, 5)
	for i := range books {
		books[i] = &book.Book{ID: fmt.Sprintf("%d", i)}
	}

	page := Paginate(books, 9, 12)

	assert.Empty(t, page.Books)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	books := make([]*book.Book, 25)
	for i := range books {
		books[i] = &book.Book{ID: fmt.Sprintf("%d", i)}
	}

	page := Paginate(books, 3, 10)

	assert.Len(t, page.Books, 5)
	assert.Equal(t, 3, page.TotalPages)
}

func TestDefaultFilterOptions(t *testing.T) {
	opts := DefaultFilterOptions()

	assert.Len(t, opts.Genres, 10)
	assert.Len(t, opts.Authors, 10)
	assert.Len(t, opts.Publishers, 7)
	assert.Equal(t, PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax}, opts.PriceRange)
	assert.Equal(t, "Русская литература", opts.Genres[0].Value)
}

func ids(books []*book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
