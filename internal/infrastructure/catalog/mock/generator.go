// Package mock 提供本地图书语料生成器
//
// 设计说明：上游图书API在当前部署环境不可达，目录数据由本地
// 生成器产出。语料在进程生命周期内只生成一次（sync.Once），
// 之后所有查询共享同一份切片；生成器用独立的种子随机源，
// 固定种子可以得到逐字段可复现的语料。
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// 俄罗斯经典作家
var russianAuthors = []string{
	"Лев Толстой",
	"Фёдор Достоевский",
	"Александр Пушкин",
	"Николай Гоголь",
	"Антон Чехов",
	"Михаил Булгаков",
	"Иван Тургенев",
	"Максим Горький",
	"Борис Пастернак",
	"Анна Ахматова",
}

// 各作家的作品清单
var bookTitles = map[string][]string{
	"Лев Толстой": {
		"Война и мир", "Анна Каренина", "Воскресение", "Севастопольские рассказы",
		"Казаки", "Детство", "Отрочество", "Юность", "Крейцерова соната",
		"Смерть Ивана Ильича", "Хаджи-Мурат", "Власть тьмы", "Плоды просвещения",
		"Живой труп", "После бала", "Исповедь",
	},
	"Фёдор Достоевский": {
		"Преступление и наказание", "Братья Карамазовы", "Идиот", "Бесы",
		"Подросток", "Униженные и оскорбленные", "Игрок", "Белые ночи",
		"Записки из подполья", "Записки из мертвого дома", "Бедные люди",
		"Двойник", "Вечный муж", "Кроткая", "Село Степанчиково и его обитатели",
	},
	"Александр Пушкин": {
		"Евгений Онегин", "Капитанская дочка", "Пиковая дама", "Борис Годунов",
		"Руслан и Людмила", "Дубровский", "Повести Белкина", "Медный всадник",
		"Сказка о царе Салтане", "Сказка о рыбаке и рыбке", "Сказка о мертвой царевне",
		"Бахчисарайский фонтан", "Маленькие трагедии", "Полтава", "Арап Петра Великого",
	},
	"Николай Гоголь": {
		"Мертвые души", "Ревизор", "Тарас Бульба", "Вечера на хуторе близ Диканьки",
		"Миргород", "Нос", "Шинель", "Портрет", "Невский проспект",
		"Вий", "Записки сумасшедшего", "Женитьба", "Игроки", "Петербургские повести",
	},
	"Антон Чехов": {
		"Вишневый сад", "Чайка", "Три сестры", "Дядя Ваня", "Палата №6",
		"Человек в футляре", "Дама с собачкой", "Ионыч", "Хамелеон",
		"Толстый и тонкий", "Смерть чиновника", "Каштанка", "Степь",
		"Скучная история", "Попрыгунья", "Остров Сахалин",
	},
	"Михаил Булгаков": {
		"Мастер и Маргарита", "Собачье сердце", "Белая гвардия", "Дни Турбиных",
		"Бег", "Роковые яйца", "Дьяволиада", "Записки юного врача",
		"Зойкина квартира", "Театральный роман", "Жизнь господина де Мольера", "Иван Васильевич",
	},
	"Иван Тургенев": {
		"Отцы и дети", "Дворянское гнездо", "Рудин", "Накануне", "Записки охотника",
		"Ася", "Вешние воды", "Дым", "Новь", "Первая любовь",
		"Месяц в деревне", "Муму", "Песнь торжествующей любви", "Стихотворения в прозе",
	},
	"Максим Горький": {
		"На дне", "Мать", "Детство", "В людях", "Мои университеты",
		"Старуха Изергиль", "Челкаш", "Фома Гордеев", "Жизнь Клима Самгина",
		"Макар Чудра", "Песня о Соколе", "Песня о Буревестнике", "Егор Булычов и другие",
		"Васса Железнова", "Дачники",
	},
	"Борис Пастернак": {
		"Доктор Живаго", "Сестра моя – жизнь", "Второе рождение", "Поверх барьеров",
		"Охранная грамота", "Детство Люверс", "Воздушные пути", "Избранные стихотворения",
		"Близнец в тучах", "Высокая болезнь", "Девятьсот пятый год", "Лейтенант Шмидт",
	},
	"Анна Ахматова": {
		"Реквием", "Вечер", "Четки", "Белая стая", "Подорожник",
		"Anno Domini", "Тростник", "Поэма без героя", "Бег времени",
		"У самого моря", "Путем всея земли", "Из шести книг", "Седьмая книга",
		"Ветер войны", "Северные элегии",
	},
}

var coverImages = []string{
	"https://covers.openlibrary.org/b/id/8091016-M.jpg",
	"https://covers.openlibrary.org/b/id/7395361-M.jpg",
	"https://covers.openlibrary.org/b/id/6424911-M.jpg",
	"https://covers.openlibrary.org/b/id/8025123-M.jpg",
	"https://covers.openlibrary.org/b/id/7886519-M.jpg",
	"https://covers.openlibrary.org/b/id/8155423-M.jpg",
	"https://covers.openlibrary.org/b/id/7897138-M.jpg",
	"https://covers.openlibrary.org/b/id/12547271-M.jpg",
	"https://covers.openlibrary.org/b/id/12499202-M.jpg",
	"https://covers.openlibrary.org/b/id/12705555-M.jpg",
}

var publishers = []string{
	"Эксмо", "АСТ", "Азбука", "Росмэн", "Альфа-книга", "МИФ", "Академический проект",
}

var descriptions = []string{
	"Это классическое произведение русской литературы, исследующее глубины человеческой души и моральные дилеммы общества.",
	"Роман отражает реалии русской жизни, раскрывая сложные характеры героев на фоне исторических и социальных перемен.",
	"Автор мастерски переплетает судьбы героев, создавая многогранное повествование о жизни, любви и поиске смысла.",
	"Эта книга — яркий образец русской литературной традиции, сочетающий в себе глубокий психологизм и философские размышления.",
	"Произведение погружает читателя в атмосферу русской культуры и истории, затрагивая вечные вопросы человеческого бытия.",
	"В этом романе раскрывается богатство русской души, противоречия человеческой природы и красота русского языка.",
	"Книга представляет собой глубокое исследование русского национального характера и исторической судьбы России.",
	"Автор виртуозно описывает быт и нравы русского общества, создавая живую панораму эпохи.",
	"Это произведение — неотъемлемая часть золотого фонда русской классической литературы, покоряющая своей глубиной и многогранностью.",
	"Роман сочетает в себе психологическую глубину, социальный анализ и философское осмысление действительности в лучших традициях русской литературы.",
}

var additionalGenres = []string{
	"Классика", "Драма", "Историческая проза", "Романтика", "Приключения",
}

// Generator 本地语料生成器，实现catalog.Source
type Generator struct {
	seed int64

	once   sync.Once
	corpus []*book.Book
	byID   map[string]*book.Book
}

var _ catalog.Source = (*Generator)(nil)

// NewGenerator 创建语料生成器
// seed为0时按当前时间播种。
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{seed: seed}
}

// Corpus 返回完整语料（首次调用时生成，之后复用）
func (g *Generator) Corpus(_ context.Context) ([]*book.Book, error) {
	g.once.Do(g.generate)
	return g.corpus, nil
}

// ByID 按ID查找图书
func (g *Generator) ByID(_ context.Context, id string) (*book.Book, error) {
	g.once.Do(g.generate)
	if b, ok := g.byID[id]; ok {
		return b, nil
	}
	return nil, book.ErrNotFound
}

// generate 生成全部图书
//
// 主要作家（Толстой/Достоевский/Пушкин）生成更多作品，
// 其余作家各14本，以作品清单长度为上限。
func (g *Generator) generate() {
	rng := rand.New(rand.NewSource(g.seed))

	var books []*book.Book
	byID := make(map[string]*book.Book)

	for _, author := range russianAuthors {
		titles := bookTitles[author]

		count := 14
		if author == "Лев Толстой" || author == "Фёдор Достоевский" || author == "Александр Пушкин" {
			count = 20
		}
		if count > len(titles) {
			count = len(titles)
		}

		for i := 0; i < count; i++ {
			title := titles[i]
			b := g.newBook(rng, author, title)
			books = append(books, b)
			byID[b.ID] = b
		}
	}

	g.corpus = books
	g.byID = byID
}

// newBook 生成一本图书的随机字段
func (g *Generator) newBook(rng *rand.Rand, author, title string) *book.Book {
	id := fmt.Sprintf("%s-%s-%s",
		strings.ReplaceAll(author, " ", "-"),
		strings.ReplaceAll(title, " ", "-"),
		randomSuffix(rng),
	)

	// 约30%的书有5%~34%的折扣
	discount := 0
	if rng.Float64() > 0.7 {
		discount = rng.Intn(30) + 5
	}

	// 评分限制在[3, 5]
	rating := 3.5 + rng.Float64()*1.5
	if rating > 5 {
		rating = 5
	}
	if rating < 3 {
		rating = 3
	}

	return &book.Book{
		ID:                 id,
		Title:              title,
		Author:             author,
		Description:        descriptions[rng.Intn(len(descriptions))],
		Price:              int64(rng.Intn(1000) + 500),
		DiscountPercentage: discount,
		CoverImage:         coverImages[rng.Intn(len(coverImages))],
		Rating:             rating,
		ReviewCount:        rng.Intn(100) + 10,
		Genres:             genresFor(rng, author),
		PublicationDate:    fmt.Sprintf("%d-01-01", 1800+rng.Intn(100)),
		Pages:              rng.Intn(300) + 100,
		Language:           "Русский",
		ISBN: fmt.Sprintf("978-5-%04d-%03d-%d",
			rng.Intn(10000), rng.Intn(1000), rng.Intn(10)),
		Publisher:      publishers[rng.Intn(len(publishers))],
		HasPreview:     true,
		HasAudioSample: rng.Float64() > 0.3,
	}
}

// genresFor 按作家选取合适的分类组合
func genresFor(rng *rand.Rand, author string) []string {
	genres := []string{"Русская литература"}

	switch author {
	case "Лев Толстой", "Фёдор Достоевский":
		genres = append(genres, "Классика", "Философия")
	case "Александр Пушкин", "Анна Ахматова":
		genres = append(genres, "Поэзия", "Классика")
	case "Михаил Булгаков":
		genres = append(genres, "Фантастика", "Философия")
	case "Николай Гоголь":
		genres = append(genres, "Сатира", "Классика")
	case "Антон Чехов":
		genres = append(genres, "Драма", "Художественная литература")
	default:
		genres = append(genres, "Художественная литература",
			additionalGenres[rng.Intn(len(additionalGenres))])
	}
	return genres
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// randomSuffix 生成短随机尾缀，保证同名作品的ID不冲突
func randomSuffix(rng *rand.Rand) string {
	buf := make([]byte, 5)
	for i := range buf {
		buf[i] = suffixAlphabet[rng.Intn(len(suffixAlphabet))]
	}
	return string(buf)
}
