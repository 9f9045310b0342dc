package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// ProgressHandler 学习路线进度 HTTP 处理器
type ProgressHandler struct {
	progressSvc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// GetProgress 学习路线进度
// GET /api/v1/student/roadmaps/:slug/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	progress, err := h.progressSvc.Get(c.Request.Context(), c.Param("slug"), caller)
	if err != nil {
		h.handleProgressError(c, err)
		return
	}

	response.OK(c, progress)
}

// SetTopic 标记主题完成状态
// PUT /api/v1/student/roadmaps/:slug/topics/:topicId
func (h *ProgressHandler) SetTopic(c *gin.Context) {
	var req dto.SetTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	progress, err := h.progressSvc.SetTopic(c.Request.Context(), c.Param("slug"), c.Param("topicId"), &req, caller)
	if err != nil {
		h.handleProgressError(c, err)
		return
	}

	response.OK(c, progress)
}

func (h *ProgressHandler) handleProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRoadmapSlug):
		response.BadRequest(c, 26002, "学习路线标识格式无效")
	case errors.Is(err, service.ErrInvalidTopicID):
		response.BadRequest(c, 26003, "主题标识格式无效")
	default:
		response.InternalError(c)
	}
}
