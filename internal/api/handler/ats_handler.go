package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// ATSHandler 简历评分 HTTP 处理器
type ATSHandler struct {
	atsSvc service.ATSService
}

// NewATSHandler 创建 ATSHandler
func NewATSHandler(atsSvc service.ATSService) *ATSHandler {
	return &ATSHandler{atsSvc: atsSvc}
}

// Score 计算简历 ATS 得分
// POST /api/v1/student/ats/score
func (h *ATSHandler) Score(c *gin.Context) {
	var req dto.AtsScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.atsSvc.Score(c.Request.Context(), &req)
	if err != nil {
		if handleJobScopeError(c, err) {
			return
		}
		if errors.Is(err, service.ErrNoKeywords) {
			response.BadRequest(c, 26001, "未提供关键词且无法从职位中提取")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, res)
}
