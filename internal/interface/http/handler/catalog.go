package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CatalogHandler 目录HTTP处理器
type CatalogHandler struct {
	catalogService *appcatalog.Service
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalogService *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListBooks 按会话当前筛选条件查询目录
// @Summary      查询图书目录
// @Description  按会话保存的筛选条件返回一页图书
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BooksResponse}
// @Router       /api/v1/books [get]
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	result, err := h.catalogService.FetchBooks(c.Request.Context(), sessionID)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	response.Success(c, dto.FromQueryResult(result))
}

// UpdateFilters 更新筛选条件并重新查询
// @Summary      更新筛选条件
// @Description  部分更新：请求中缺席的字段保持现值；不带页码的变更重置到第1页
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateFiltersRequest true "筛选条件变更"
// @Success      200 {object} response.Response{data=dto.BooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books/filters [put]
func (h *CatalogHandler) UpdateFilters(c *gin.Context) {
	var req dto.UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.catalogService.UpdateFilters(c.Request.Context(), sessionID, req.ToFilterUpdate())
	if err != nil {
		if errors.Is(err, appcatalog.ErrInvalidSortBy) {
			response.ErrorWithCode(c, 40900, "非法的排序方式")
			return
		}
		h.handleQueryError(c, err)
		return
	}
	response.Success(c, dto.FromQueryResult(result))
}

// ResetFilters 恢复缺省筛选条件
// @Summary      重置筛选条件
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=dto.BooksResponse}
// @Router       /api/v1/books/filters/reset [post]
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	result, err := h.catalogService.ResetFilters(c.Request.Context(), sessionID)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	response.Success(c, dto.FromQueryResult(result))
}

// SetPage 翻页
// @Summary      翻页
// @Description  页码越界时状态不变，返回当前页
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        request body dto.SetPageRequest true "页码"
// @Success      200 {object} response.Response{data=dto.BooksResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books/page [put]
func (h *CatalogHandler) SetPage(c *gin.Context) {
	var req dto.SetPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	result, err := h.catalogService.SetPage(c.Request.Context(), sessionID, req.Page)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	response.Success(c, dto.FromQueryResult(result))
}

// GetBook 取单本图书详情
// @Summary      图书详情
// @Tags         目录
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books/{id} [get]
func (h *CatalogHandler) GetBook(c *gin.Context) {
	b, err := h.catalogService.FetchBookByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBook(b))
}

// GetPreview 取图书预览内容
// @Summary      图书预览
// @Tags         目录
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.PreviewResponse}
// @Router       /api/v1/books/{id}/preview [get]
func (h *CatalogHandler) GetPreview(c *gin.Context) {
	p, err := h.catalogService.FetchBookPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromPreview(p))
}

// GetAudioSample 取图书试听片段
// @Summary      图书试听片段
// @Tags         目录
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.AudioSampleResponse}
// @Router       /api/v1/books/{id}/audio [get]
func (h *CatalogHandler) GetAudioSample(c *gin.Context) {
	a, err := h.catalogService.FetchAudioSample(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromAudioSample(a))
}

// GetRecommendations 取推荐列表
// @Summary      相关推荐
// @Description  同作者/同分类/高分书的组合推荐，最多8本
// @Tags         目录
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/v1/books/{id}/recommendations [get]
func (h *CatalogHandler) GetRecommendations(c *gin.Context) {
	id := c.Param("id")

	// 推荐基于当前书的作者与分类
	b, err := h.catalogService.FetchBookByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	recs, err := h.catalogService.GetRecommendedBooks(c.Request.Context(), b.ID, b.Author, b.Genres)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromBooks(recs))
}

// GetFilterOptions 取筛选面板可选项
// @Summary      筛选可选项
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=catalog.FilterOptions}
// @Router       /api/v1/filter-options [get]
func (h *CatalogHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.catalogService.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, opts)
}

// ClearCache 清空目录缓存
// @Summary      清空目录缓存
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=dto.ClearCacheResponse}
// @Router       /api/v1/cache [delete]
func (h *CatalogHandler) ClearCache(c *gin.Context) {
	deleted, err := h.catalogService.ClearCache(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ClearCacheResponse{Deleted: deleted})
}

// handleQueryError 目录查询错误的统一处理
// 被取代的查询返回409：客户端应当丢弃这次响应。
func (h *CatalogHandler) handleQueryError(c *gin.Context, err error) {
	if errors.Is(err, appcatalog.ErrSuperseded) {
		response.ErrorWithCode(c, 40901, "查询已被更新的请求取代")
		return
	}
	response.Error(c, err)
}
