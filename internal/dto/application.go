package dto

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"

// ── 投递模块 DTO ──

// ApplyRequest 学生投递请求
type ApplyRequest struct {
	CustomFieldAnswers map[string]any `json:"customFieldAnswers"`
	ResumeURL          string         `json:"resumeUrl"   binding:"omitempty,url,max=500"`
	CoverLetter        string         `json:"coverLetter" binding:"omitempty,max=10000"`
}

// AdvanceRequest 推进到下一轮（请求体可省略）
type AdvanceRequest struct {
	Reason  string `json:"reason"  binding:"omitempty,max=500"`
	Version *int   `json:"version"`
}

// SetStatusRequest 招聘方设置投递状态
type SetStatusRequest struct {
	Status  string `json:"status"  binding:"required,oneof=APPLIED IN_PROGRESS SHORTLISTED REJECTED HIRED"`
	Reason  string `json:"reason"  binding:"omitempty,max=500"`
	Version *int   `json:"version"`
}

// WithdrawRequest 学生撤回投递
type WithdrawRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ApplicationListRequest 投递列表查询
type ApplicationListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=APPLIED IN_PROGRESS SHORTLISTED REJECTED HIRED WITHDRAWN"`
}

// ApplicationResponse 投递响应
type ApplicationResponse struct {
	ID                 string         `json:"id"`
	JobID              string         `json:"jobId"`
	StudentID          string         `json:"studentId"`
	Status             string         `json:"status"`
	CurrentRoundID     *string        `json:"currentRoundId"`
	CustomFieldAnswers map[string]any `json:"customFieldAnswers"`
	ResumeURL          string         `json:"resumeUrl,omitempty"`
	CoverLetter        string         `json:"coverLetter,omitempty"`
	Version            int            `json:"version"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
	Job                *JobSummary    `json:"job,omitempty"`
}

// RoundProgress 投递详情中的单轮进度
type RoundProgress struct {
	Round      RoundResponse       `json:"round"`
	IsCurrent  bool                `json:"isCurrent"`
	Submission *SubmissionResponse `json:"submission,omitempty"`
}

// StatusLogResponse 状态变更记录
type StatusLogResponse struct {
	FromStatus  string  `json:"fromStatus,omitempty"`
	ToStatus    string  `json:"toStatus"`
	FromRoundID *string `json:"fromRoundId,omitempty"`
	ToRoundID   *string `json:"toRoundId,omitempty"`
	Event       string  `json:"event"`
	OperatorID  string  `json:"operatorId"`
	Reason      string  `json:"reason,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// EvaluationSummaryResponse 投递级评估汇总（仅供参考，不影响状态）
type EvaluationSummaryResponse struct {
	WeightedPercent float64        `json:"weightedPercent"`
	EvaluatedRounds int            `json:"evaluatedRounds"`
	Rounds          []RoundSummary `json:"rounds"`
}

// RoundSummary 单轮评分汇总
type RoundSummary struct {
	RoundID   string `json:"roundId"`
	RoundName string `json:"roundName"`
	pipeline.Summary
}

// ApplicationDetailResponse 投递详情
type ApplicationDetailResponse struct {
	ApplicationResponse
	Rounds  []RoundProgress            `json:"rounds"`
	Summary *EvaluationSummaryResponse `json:"summary,omitempty"`
	History []StatusLogResponse        `json:"history"`
}
