package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// SettingHandler 平台设置 HTTP 处理器
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler 创建 SettingHandler
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// GetSettings 获取流程限制
// GET /api/v1/admin/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	setting, err := h.settingSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

// UpdateSettings 更新流程限制
// PUT /api/v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdatePlatformSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	setting, err := h.settingSvc.Update(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, setting)
}

func (h *SettingHandler) handleSettingError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		response.NotFound(c, 25001, "平台设置未初始化")
	default:
		response.InternalError(c)
	}
}
