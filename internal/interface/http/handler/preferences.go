package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/preferences"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// PreferencesHandler 偏好设置HTTP处理器
type PreferencesHandler struct {
	prefService *preferences.Service
}

// NewPreferencesHandler 创建偏好设置处理器
func NewPreferencesHandler(prefService *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{prefService: prefService}
}

// GetTheme 取主题偏好
// @Summary      查看主题偏好
// @Tags         偏好
// @Produce      json
// @Success      200 {object} response.Response{data=dto.ThemeResponse}
// @Router       /api/v1/preferences/theme [get]
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	theme, err := h.prefService.GetTheme(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ThemeResponse{Theme: theme})
}

// SetTheme 保存主题偏好
// @Summary      设置主题偏好
// @Tags         偏好
// @Accept       json
// @Produce      json
// @Param        request body dto.ThemeRequest true "light | dark | system"
// @Success      200 {object} response.Response{data=dto.ThemeResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/preferences/theme [put]
func (h *PreferencesHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	if err := h.prefService.SetTheme(c.Request.Context(), sessionID, req.Theme); err != nil {
		if errors.Is(err, preferences.ErrInvalidTheme) {
			response.ErrorWithCode(c, 40900, "非法的主题值")
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ThemeResponse{Theme: req.Theme})
}
