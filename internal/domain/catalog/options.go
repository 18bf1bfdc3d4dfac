package catalog

// FilterOption 筛选面板的一个可选项
type FilterOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterOptions 筛选面板可选项集合
type FilterOptions struct {
	Genres     []FilterOption `json:"genres"`
	Authors    []FilterOption `json:"authors"`
	Publishers []FilterOption `json:"publishers"`
	PriceRange PriceRange     `json:"priceRange"`
}

// DefaultFilterOptions 返回静态筛选可选项
//
// 名义上这些列表来自上游图书API；上游不可达时用与mock语料
// 对应的静态清单，计数是展示用的近似值。
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Genres:     DefaultGenreOptions(),
		Authors:    DefaultAuthorOptions(),
		Publishers: DefaultPublisherOptions(),
		PriceRange: PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
	}
}

// DefaultGenreOptions 分类可选项
func DefaultGenreOptions() []FilterOption {
	return []FilterOption{
		{ID: "russian", Value: "Русская литература", Label: "Русская литература", Count: 150},
		{ID: "fiction", Value: "Художественная литература", Label: "Художественная литература", Count: 35},
		{ID: "classics", Value: "Классика", Label: "Классика", Count: 28},
		{ID: "romance", Value: "Романтика", Label: "Романтика", Count: 18},
		{ID: "poetry", Value: "Поэзия", Label: "Поэзия", Count: 24},
		{ID: "adventure", Value: "Приключения", Label: "Приключения", Count: 15},
		{ID: "history", Value: "Историческая проза", Label: "Историческая проза", Count: 12},
		{ID: "philosophy", Value: "Философия", Label: "Философия", Count: 10},
		{ID: "drama", Value: "Драма", Label: "Драма", Count: 8},
		{ID: "satire", Value: "Сатира", Label: "Сатира", Count: 6},
	}
}

// DefaultAuthorOptions 作者可选项
func DefaultAuthorOptions() []FilterOption {
	return []FilterOption{
		{ID: "1", Value: "Лев Толстой", Label: "Лев Толстой", Count: 18},
		{ID: "2", Value: "Фёдор Достоевский", Label: "Фёдор Достоевский", Count: 16},
		{ID: "3", Value: "Александр Пушкин", Label: "Александр Пушкин", Count: 20},
		{ID: "4", Value: "Николай Гоголь", Label: "Николай Гоголь", Count: 14},
		{ID: "5", Value: "Антон Чехов", Label: "Антон Чехов", Count: 17},
		{ID: "6", Value: "Михаил Булгаков", Label: "Михаил Булгаков", Count: 9},
		{ID: "7", Value: "Иван Тургенев", Label: "Иван Тургенев", Count: 12},
		{ID: "8", Value: "Максим Горький", Label: "Максим Горький", Count: 15},
		{ID: "9", Value: "Борис Пастернак", Label: "Борис Пастернак", Count: 10},
		{ID: "10", Value: "Анна Ахматова", Label: "Анна Ахматова", Count: 19},
	}
}

// DefaultPublisherOptions 出版社可选项
func DefaultPublisherOptions() []FilterOption {
	return []FilterOption{
		{ID: "eksmo", Value: "Эксмо", Label: "Эксмо", Count: 35},
		{ID: "ast", Value: "АСТ", Label: "АСТ", Count: 42},
		{ID: "azbuka", Value: "Азбука", Label: "Азбука", Count: 28},
		{ID: "rosmen", Value: "Росмэн", Label: "Росмэн", Count: 15},
		{ID: "alfa", Value: "Альфа-книга", Label: "Альфа-книга", Count: 22},
		{ID: "mif", Value: "МИФ", Label: "МИФ", Count: 18},
		{ID: "academic", Value: "Академический проект", Label: "Академический проект", Count: 10},
	}
}
