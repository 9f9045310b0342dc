package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// JobHandler 职位模块 HTTP 处理器
type JobHandler struct {
	jobSvc service.JobService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// ListJobs 公开职位列表
// GET /api/v1/jobs?q=&page=&pageSize=
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.JobListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	list, total, err := h.jobSvc.ListOpen(c.Request.Context(), &req)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetJob 职位详情
// GET /api/v1/jobs/:jobId
func (h *JobHandler) GetJob(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), c.Param("jobId"), caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// CreateJob 创建职位（含投递表单与轮次）
// POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.Created(c, job)
}

// ListMyJobs 招聘方自己的职位
// GET /api/v1/recruiter/jobs
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, total, err := h.jobSvc.ListMine(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateJob 更新职位基础信息
// PUT /api/v1/recruiter/jobs/:jobId
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Update(c.Request.Context(), c.Param("jobId"), &req, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// SetJobStatus 管理员下架或恢复职位
// PATCH /api/v1/admin/jobs/:jobId/status
func (h *JobHandler) SetJobStatus(c *gin.Context) {
	var req dto.AdminJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.SetStatusByAdmin(c.Request.Context(), c.Param("jobId"), &req, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// ────────────────────── 投递表单字段 ──────────────────────

// AddField 追加表单字段
// POST /api/v1/recruiter/jobs/:jobId/custom-fields
func (h *JobHandler) AddField(c *gin.Context) {
	var def pipeline.FieldDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.AddField(c.Request.Context(), c.Param("jobId"), def, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.Created(c, job)
}

// ReplaceField 整体替换表单字段
// PUT /api/v1/recruiter/jobs/:jobId/custom-fields/:fieldId
func (h *JobHandler) ReplaceField(c *gin.Context) {
	var def pipeline.FieldDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.ReplaceField(c.Request.Context(), c.Param("jobId"), c.Param("fieldId"), def, caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// RemoveField 删除表单字段
// DELETE /api/v1/recruiter/jobs/:jobId/custom-fields/:fieldId
func (h *JobHandler) RemoveField(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.RemoveField(c.Request.Context(), c.Param("jobId"), c.Param("fieldId"), caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// MoveField 表单字段与相邻字段交换
// PATCH /api/v1/recruiter/jobs/:jobId/custom-fields/:fieldId/move
func (h *JobHandler) MoveField(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.MoveField(c.Request.Context(), c.Param("jobId"), c.Param("fieldId"), pipeline.Direction(req.Direction), caller)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// handleJobError 职位模块错误映射
func (h *JobHandler) handleJobError(c *gin.Context, err error) {
	if handleCommonError(c, err) || handlePipelineError(c, err) || handleJobScopeError(c, err) {
		return
	}
	response.InternalError(c)
}
