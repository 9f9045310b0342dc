package dto

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"

// ── 轮次答卷与评估 DTO ──

// SubmitRoundRequest 学生提交轮次答卷
type SubmitRoundRequest struct {
	FieldAnswers map[string]any `json:"fieldAnswers"`
	Attachments  []string       `json:"attachments" binding:"omitempty,max=20,dive,max=500"`
}

// EvaluateRequest 招聘方评分
type EvaluateRequest struct {
	EvaluationScores map[string]pipeline.Score `json:"evaluationScores"`
	RecruiterNotes   string                    `json:"recruiterNotes" binding:"omitempty,max=10000"`
}

// SubmissionResponse 轮次答卷响应；学生视角不包含评分与备注
type SubmissionResponse struct {
	ID               string                    `json:"id"`
	ApplicationID    string                    `json:"applicationId"`
	RoundID          string                    `json:"roundId"`
	Status           string                    `json:"status"`
	FieldAnswers     map[string]any            `json:"fieldAnswers"`
	Attachments      []string                  `json:"attachments"`
	EvaluationScores map[string]pipeline.Score `json:"evaluationScores,omitempty"`
	RecruiterNotes   string                    `json:"recruiterNotes,omitempty"`
	SubmittedAt      *string                   `json:"submittedAt,omitempty"`
	EvaluatedAt      *string                   `json:"evaluatedAt,omitempty"`
	Summary          *pipeline.Summary         `json:"summary,omitempty"`
}
