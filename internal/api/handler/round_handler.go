package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// RoundHandler 招聘轮次 HTTP 处理器
type RoundHandler struct {
	roundSvc service.RoundService
}

// NewRoundHandler 创建 RoundHandler
func NewRoundHandler(roundSvc service.RoundService) *RoundHandler {
	return &RoundHandler{roundSvc: roundSvc}
}

// CreateRound 追加轮次
// POST /api/v1/recruiter/jobs/:jobId/rounds
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var req dto.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	round, err := h.roundSvc.Create(c.Request.Context(), c.Param("jobId"), &req, caller)
	if err != nil {
		h.handleRoundError(c, err)
		return
	}

	response.Created(c, round)
}

// ListRounds 按顺序列出职位轮次
// GET /api/v1/recruiter/jobs/:jobId/rounds
func (h *RoundHandler) ListRounds(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	rounds, err := h.roundSvc.List(c.Request.Context(), c.Param("jobId"), caller)
	if err != nil {
		h.handleRoundError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rounds})
}

// UpdateRound 更新轮次
// PUT /api/v1/recruiter/jobs/:jobId/rounds/:roundId
func (h *RoundHandler) UpdateRound(c *gin.Context) {
	var req dto.UpdateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	round, err := h.roundSvc.Update(c.Request.Context(), c.Param("jobId"), c.Param("roundId"), &req, caller)
	if err != nil {
		h.handleRoundError(c, err)
		return
	}

	response.OK(c, round)
}

// DeleteRound 删除轮次
// DELETE /api/v1/recruiter/jobs/:jobId/rounds/:roundId
func (h *RoundHandler) DeleteRound(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.roundSvc.Delete(c.Request.Context(), c.Param("jobId"), c.Param("roundId"), caller); err != nil {
		h.handleRoundError(c, err)
		return
	}

	response.OK(c, nil)
}

// MoveRound 轮次与相邻轮次交换
// PATCH /api/v1/recruiter/jobs/:jobId/rounds/:roundId/move
func (h *RoundHandler) MoveRound(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	rounds, err := h.roundSvc.Move(c.Request.Context(), c.Param("jobId"), c.Param("roundId"), pipeline.Direction(req.Direction), caller)
	if err != nil {
		h.handleRoundError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rounds})
}

func (h *RoundHandler) handleRoundError(c *gin.Context, err error) {
	if handleCommonError(c, err) || handlePipelineError(c, err) || handleJobScopeError(c, err) {
		return
	}
	response.InternalError(c)
}
