package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// SubmissionHandler 轮次答卷 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Submit 学生提交当前轮次答卷
// POST /api/v1/student/applications/:id/rounds/:roundId/submit
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Submit(c.Request.Context(), c.Param("id"), c.Param("roundId"), &req, caller)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, sub)
}

// Evaluate 招聘方为轮次答卷评分
// PUT /api/v1/recruiter/applications/:id/rounds/:roundId/evaluate
func (h *SubmissionHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Evaluate(c.Request.Context(), c.Param("id"), c.Param("roundId"), &req, caller)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, sub)
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	if handleCommonError(c, err) ||
		handlePipelineError(c, err) ||
		handleApplicationScopeError(c, err) ||
		handleJobScopeError(c, err) {
		return
	}
	response.InternalError(c)
}
