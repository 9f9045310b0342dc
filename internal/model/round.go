package model

import (
	"gorm.io/datatypes"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// Round 招聘轮次表：对应 rounds
// 同一职位内 order_index 从 0 连续编号，唯一约束为 DEFERRABLE 以便事务内重排
type Round struct {
	RoundID            string                                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roundId"`
	JobID              string                                            `gorm:"type:uuid;not null;index"                       json:"jobId"`
	Name               string                                            `gorm:"type:varchar(100);not null"                     json:"name"`
	Description        string                                            `gorm:"type:text"                                      json:"description,omitempty"`
	OrderIndex         int                                               `gorm:"not null"                                       json:"orderIndex"`
	Instructions       string                                            `gorm:"type:text"                                      json:"instructions,omitempty"`
	CustomFields       datatypes.JSONSlice[pipeline.FieldDefinition]     `gorm:"type:jsonb"                                     json:"customFields"`
	EvaluationCriteria datatypes.JSONSlice[pipeline.EvaluationCriterion] `gorm:"type:jsonb"                                     json:"evaluationCriteria"`
	Version            int                                               `gorm:"not null;default:1"                             json:"version"`
	BaseModel
}

func (Round) TableName() string { return "rounds" }

// Fields 返回轮次表单字段
func (r *Round) Fields() []pipeline.FieldDefinition {
	return []pipeline.FieldDefinition(r.CustomFields)
}

// Criteria 返回轮次评分维度
func (r *Round) Criteria() []pipeline.EvaluationCriterion {
	return []pipeline.EvaluationCriterion(r.EvaluationCriteria)
}
