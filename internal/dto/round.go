package dto

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"

// ── 轮次模块 DTO ──

// CreateRoundRequest 创建轮次请求；orderIndex 缺省时追加到末尾
type CreateRoundRequest struct {
	Name               string                         `json:"name"         binding:"required,min=1,max=100"`
	Description        string                         `json:"description"  binding:"omitempty,max=5000"`
	OrderIndex         *int                           `json:"orderIndex"   binding:"omitempty,min=0"`
	Instructions       string                         `json:"instructions" binding:"omitempty,max=10000"`
	CustomFields       []pipeline.FieldDefinition     `json:"customFields"`
	EvaluationCriteria []pipeline.EvaluationCriterion `json:"evaluationCriteria"`
}

// UpdateRoundRequest 更新轮次（评分维度随轮次一并编辑）
type UpdateRoundRequest struct {
	Name               *string                         `json:"name"         binding:"omitempty,min=1,max=100"`
	Description        *string                         `json:"description"  binding:"omitempty,max=5000"`
	Instructions       *string                         `json:"instructions" binding:"omitempty,max=10000"`
	CustomFields       *[]pipeline.FieldDefinition     `json:"customFields"`
	EvaluationCriteria *[]pipeline.EvaluationCriterion `json:"evaluationCriteria"`
	Version            *int                            `json:"version"`
}

// RoundResponse 轮次响应
type RoundResponse struct {
	ID                 string                         `json:"id"`
	JobID              string                         `json:"jobId"`
	Name               string                         `json:"name"`
	Description        string                         `json:"description,omitempty"`
	OrderIndex         int                            `json:"orderIndex"`
	Instructions       string                         `json:"instructions,omitempty"`
	CustomFields       []pipeline.FieldDefinition     `json:"customFields"`
	EvaluationCriteria []pipeline.EvaluationCriterion `json:"evaluationCriteria"`
	Version            int                            `json:"version"`
}
