package catalog

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Source 语料来源接口
//
// 查询引擎不关心语料从哪来：mock生成器、上游API降级包装器
// 都实现这个接口。返回的切片在进程内共享，调用方不得修改。
type Source interface {
	// Corpus 返回完整图书语料
	Corpus(ctx context.Context) ([]*book.Book, error)

	// ByID 按ID查找单本图书，找不到返回book.ErrNotFound
	ByID(ctx context.Context, id string) (*book.Book, error)
}
