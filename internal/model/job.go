package model

import (
	"gorm.io/datatypes"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// 职位状态
const (
	JobStatusDraft  = "DRAFT"
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

// Job 职位表：对应 jobs
type Job struct {
	JobID        string                                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"jobId"`
	RecruiterID  string                                        `gorm:"type:varchar(64);not null;index"                json:"recruiterId"`
	Title        string                                        `gorm:"type:varchar(200);not null"                     json:"title"`
	Company      string                                        `gorm:"type:varchar(200);not null"                     json:"company"`
	Location     string                                        `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Description  string                                        `gorm:"type:text"                                      json:"description,omitempty"`
	Status       string                                        `gorm:"type:varchar(20);not null;default:'OPEN'"       json:"status"` // DRAFT | OPEN | CLOSED
	CustomFields datatypes.JSONSlice[pipeline.FieldDefinition] `gorm:"type:jsonb"                                     json:"customFields"`
	VersionedModel

	// 关联
	Rounds []Round `gorm:"foreignKey:JobID;references:JobID" json:"rounds,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// Fields 返回职位投递表单字段
func (j *Job) Fields() []pipeline.FieldDefinition {
	return []pipeline.FieldDefinition(j.CustomFields)
}

// Machine 按轮次顺序构建状态机
func (j *Job) Machine() *pipeline.Machine {
	return pipeline.NewMachine(RoundRefs(j.Rounds))
}

// RoundRefs 提取轮次 id 与顺序
func RoundRefs(rounds []Round) []pipeline.RoundRef {
	refs := make([]pipeline.RoundRef, 0, len(rounds))
	for _, r := range rounds {
		refs = append(refs, pipeline.RoundRef{ID: r.RoundID, OrderIndex: r.OrderIndex})
	}
	return refs
}
