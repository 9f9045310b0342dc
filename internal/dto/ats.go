package dto

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/ats"

// AtsScoreRequest 简历评分请求；未给出关键词时从 jobId 对应职位中提取
type AtsScoreRequest struct {
	ResumeText string   `json:"resumeText" binding:"required,max=100000"`
	Keywords   []string `json:"keywords"   binding:"omitempty,max=100,dive,max=100"`
	JobID      string   `json:"jobId"      binding:"omitempty,uuid"`
}

// AtsScoreResponse 简历评分响应
type AtsScoreResponse struct {
	Keywords []string `json:"keywords"`
	ats.Result
}
