package catalog

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// maxRecommendations 推荐列表上限
const maxRecommendations = 8

// GetRecommendedBooks 取某本书的推荐列表
//
// 先模拟网络延迟（详情页的推荐区块是异步加载的），然后尝试
// 名义上游；上游失败降级为本地语料的组合推荐：
// 同作者最多2本 + 同分类最多4本 + 其他高分书最多2本，打乱顺序。
func (s *Service) GetRecommendedBooks(ctx context.Context, bookID, author string, genres []string) ([]*book.Book, error) {
	select {
	case <-time.After(s.recommendDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if s.upstream != nil {
		genre := ""
		if len(genres) > 0 {
			genre = genres[0]
		}
		books, err := s.upstream.Recommendations(ctx, genre, maxRecommendations)
		if err == nil && len(books) > 0 {
			return books, nil
		}
		if err != nil {
			s.log.Warn("推荐上游不可用，降级到本地语料", zap.Error(err))
		}
	}

	return s.mockRecommendations(ctx, bookID, author, genres)
}

// mockRecommendations 从本地语料组合推荐
func (s *Service) mockRecommendations(ctx context.Context, bookID, author string, genres []string) ([]*book.Book, error) {
	corpus, err := s.source.Corpus(ctx)
	if err != nil {
		return nil, err
	}

	genreSet := make(map[string]bool, len(genres))
	for _, g := range genres {
		genreSet[g] = true
	}

	var byAuthor, byGenre, others []*book.Book
	for _, b := range corpus {
		if b.ID == bookID {
			continue
		}
		switch {
		case b.Author == author:
			byAuthor = append(byAuthor, b)
		case hasAnyGenre(b, genreSet):
			byGenre = append(byGenre, b)
		default:
			others = append(others, b)
		}
	}

	// 其他书按评分降序，取最高的几本
	popular := make([]*book.Book, len(others))
	copy(popular, others)
	sortByRating(popular)

	recommendations := make([]*book.Book, 0, maxRecommendations)
	recommendations = append(recommendations, head(byAuthor, 2)...)
	recommendations = append(recommendations, head(byGenre, 4)...)
	recommendations = append(recommendations, head(popular, 2)...)

	s.shuffle(recommendations)
	return head(recommendations, maxRecommendations), nil
}

func hasAnyGenre(b *book.Book, genreSet map[string]bool) bool {
	for _, g := range b.Genres {
		if genreSet[g] {
			return true
		}
	}
	return false
}

func sortByRating(books []*book.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Rating > books[j].Rating
	})
}

func head(books []*book.Book, n int) []*book.Book {
	if len(books) <= n {
		return books
	}
	return books[:n]
}

// shuffle 打乱推荐顺序，避免推荐区块每次都以同作者开头
func (s *Service) shuffle(books []*book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})
}
