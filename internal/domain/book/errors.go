package book

import "errors"

var (
	// ErrNotFound 图书不存在
	ErrNotFound = errors.New("图书不存在")

	// ErrNoPreview 图书没有预览内容
	ErrNoPreview = errors.New("图书没有预览内容")

	// ErrNoAudioSample 图书没有试听片段
	ErrNoAudioSample = errors.New("图书没有试听片段")
)
