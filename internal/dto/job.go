package dto

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"

// ── 职位模块 DTO ──

// CreateJobRequest 创建职位请求（多步表单一次性提交，可同时携带轮次）
type CreateJobRequest struct {
	Title        string                     `json:"title"        binding:"required,min=1,max=200"`
	Company      string                     `json:"company"      binding:"required,min=1,max=200"`
	Location     string                     `json:"location"     binding:"omitempty,max=200"`
	Description  string                     `json:"description"  binding:"omitempty,max=20000"`
	Status       string                     `json:"status"       binding:"omitempty,oneof=DRAFT OPEN"`
	CustomFields []pipeline.FieldDefinition `json:"customFields"`
	Rounds       []CreateRoundRequest       `json:"rounds"       binding:"omitempty,dive"`
}

// UpdateJobRequest 更新职位基础信息
type UpdateJobRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Company     *string `json:"company"     binding:"omitempty,min=1,max=200"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=20000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=DRAFT OPEN CLOSED"`
	Version     *int    `json:"version"`
}

// JobListRequest 职位列表查询
type JobListRequest struct {
	PaginationRequest
	Q string `form:"q" binding:"omitempty,max=100"`
}

// MoveRequest 相邻交换请求
type MoveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// AdminJobStatusRequest 管理员下架/恢复职位
type AdminJobStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN CLOSED"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// JobResponse 职位响应
type JobResponse struct {
	ID           string                     `json:"id"`
	RecruiterID  string                     `json:"recruiterId"`
	Title        string                     `json:"title"`
	Company      string                     `json:"company"`
	Location     string                     `json:"location,omitempty"`
	Description  string                     `json:"description,omitempty"`
	Status       string                     `json:"status"`
	CustomFields []pipeline.FieldDefinition `json:"customFields"`
	Rounds       []RoundResponse            `json:"rounds,omitempty"`
	Version      int                        `json:"version"`
	CreatedAt    string                     `json:"createdAt"`
	UpdatedAt    string                     `json:"updatedAt"`
}

// JobSummary 职位简要信息
type JobSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Status  string `json:"status"`
}
