package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// ApplicationHandler 投递模块 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Apply 学生投递职位
// POST /api/v1/student/jobs/:jobId/apply
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Apply(c.Request.Context(), c.Param("jobId"), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.Created(c, app)
}

// ListMyApplications 学生自己的投递
// GET /api/v1/student/applications
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, total, err := h.appSvc.ListMine(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListJobApplications 职位下的投递（招聘方）
// GET /api/v1/recruiter/jobs/:jobId/applications?status=
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, total, err := h.appSvc.ListByJob(c.Request.Context(), c.Param("jobId"), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetApplication 投递详情；学生视角隐藏评分与备注
// GET /api/v1/student/applications/:id
// GET /api/v1/recruiter/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	detail, err := h.appSvc.Detail(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, detail)
}

// Advance 推进到下一轮
// PATCH /api/v1/recruiter/applications/:id/advance
func (h *ApplicationHandler) Advance(c *gin.Context) {
	var req dto.AdvanceRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Advance(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// SetStatus 设置投递状态
// PATCH /api/v1/recruiter/applications/:id/status
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.SetStatus(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// Withdraw 学生撤回投递
// PATCH /api/v1/student/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Withdraw(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	if handleCommonError(c, err) ||
		handlePipelineError(c, err) ||
		handleApplicationScopeError(c, err) ||
		handleJobScopeError(c, err) {
		return
	}
	response.InternalError(c)
}
