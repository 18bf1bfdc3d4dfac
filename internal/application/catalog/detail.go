package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/cache"
)

// audioSampleDuration 试听片段固定时长（1:34）
const audioSampleDuration = 94

// FetchBookByID 取单本图书详情
//
// 顺序：缓存 → 语料 → 详情上游。语料和上游都没有该ID时
// 生成占位图书（随机一本的字段+请求的ID），保证详情页总能渲染。
func (s *Service) FetchBookByID(ctx context.Context, id string) (*book.Book, error) {
	if b, err := s.cache.GetBook(ctx, id); err == nil {
		return b, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("图书缓存读取失败", zap.String("book_id", id), zap.Error(err))
	}

	b, err := s.source.ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, book.ErrNotFound) {
			return nil, err
		}
		b = s.upstreamBook(ctx, id)
		if b == nil {
			b, err = s.placeholderBook(ctx, id)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.cache.SetBook(ctx, b); err != nil {
		s.log.Warn("图书缓存写入失败", zap.String("book_id", id), zap.Error(err))
	}
	return b, nil
}

// upstreamBook 向详情上游要一次未知ID，拿不到返回nil
func (s *Service) upstreamBook(ctx context.Context, id string) *book.Book {
	if s.detailUpstream == nil {
		return nil
	}
	b, err := s.detailUpstream.GetVolume(ctx, id)
	if err != nil {
		s.log.Debug("详情上游不可用，改用占位图书", zap.String("book_id", id), zap.Error(err))
		return nil
	}
	b.ID = id
	return b
}

// placeholderBook 为未知ID生成占位图书
func (s *Service) placeholderBook(ctx context.Context, id string) (*book.Book, error) {
	corpus, err := s.source.Corpus(ctx)
	if err != nil || len(corpus) == 0 {
		if err == nil {
			err = book.ErrNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	template := corpus[s.rng.Intn(len(corpus))]
	s.mu.Unlock()

	placeholder := *template
	placeholder.ID = id
	placeholder.Title = fmt.Sprintf("Книга %s", truncateRunes(id, 8))
	return &placeholder, nil
}

// FetchBookPreview 取图书预览内容
func (s *Service) FetchBookPreview(ctx context.Context, id string) (*book.Preview, error) {
	if p, err := s.cache.GetPreview(ctx, id); err == nil {
		return p, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("预览缓存读取失败", zap.String("book_id", id), zap.Error(err))
	}

	b, err := s.FetchBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &book.Preview{
		BookID:          id,
		Title:           b.Title,
		Author:          b.Author,
		PreviewText:     previewText(b.Title, b.Author, b.Description),
		PreviewImageURL: b.CoverImage,
	}

	if err := s.cache.SetPreview(ctx, p); err != nil {
		s.log.Warn("预览缓存写入失败", zap.String("book_id", id), zap.Error(err))
	}
	return p, nil
}

// FetchAudioSample 取图书试听片段
//
// 没有真实音频文件：片段以语音合成模式返回，客户端朗读TextToRead。
func (s *Service) FetchAudioSample(ctx context.Context, id string) (*book.AudioSample, error) {
	if a, err := s.cache.GetAudio(ctx, id); err == nil {
		return a, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("试听缓存读取失败", zap.String("book_id", id), zap.Error(err))
	}

	b, err := s.FetchBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a := &book.AudioSample{
		ID:                 id + "-audio",
		BookID:             id,
		Title:              b.Title,
		Duration:           audioSampleDuration,
		URL:                "",
		UseSpeechSynthesis: true,
		TextToRead:         fmt.Sprintf("%s автора %s. %s", b.Title, b.Author, truncateRunes(b.Description, 250)),
	}

	if err := s.cache.SetAudio(ctx, a); err != nil {
		s.log.Warn("试听缓存写入失败", zap.String("book_id", id), zap.Error(err))
	}
	return a, nil
}

// previewText 组装预览文本：介绍段落 + 虚构的第一章开头
func previewText(title, author, description string) string {
	intro := fmt.Sprintf("«%s» — одно из знаменитых произведений %s. %s", title, author, description)

	firstWord := title
	for i, r := range title {
		if r == ' ' {
			firstWord = title[:i]
			break
		}
	}

	content := fmt.Sprintf("Этот день должен был стать особенным. %s знал это с самого утра, "+
		"когда первые лучи солнца коснулись его лица. За окном шелестели листья, и где-то вдалеке "+
		"слышался шум реки. Мир казался таким обычным, но внутри него всё изменилось.\n\n"+
		"\"Иногда самые значительные перемены начинаются с малого,\" — подумал он, вспоминая слова, "+
		"которые часто повторял его отец. Эта мысль стала для него путеводной звездой в тот момент, "+
		"когда всё остальное казалось неопределённым.\n\n"+
		"События прошедших месяцев оставили свой след, но сейчас, стоя на пороге новой жизни, "+
		"он чувствовал, что готов двигаться дальше. Будущее, сотканное из неизвестности, "+
		"уже не пугало его так, как раньше.", firstWord)

	return intro + "\n\nГлава 1\n\n" + content
}

// truncateRunes 按字符数截断（按字节截断会撕裂кириллица）
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
