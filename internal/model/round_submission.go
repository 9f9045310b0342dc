package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// RoundSubmission 轮次答卷表：对应 round_submissions（每个投递每轮一条）
type RoundSubmission struct {
	SubmissionID     string                                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"submissionId"`
	ApplicationID    string                                            `gorm:"type:uuid;not null"                             json:"applicationId"`
	RoundID          string                                            `gorm:"type:uuid;not null"                             json:"roundId"`
	Status           string                                            `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	FieldAnswers     datatypes.JSONMap                                 `gorm:"type:jsonb"                                     json:"fieldAnswers"`
	Attachments      pq.StringArray                                    `gorm:"type:text[]"                                    json:"attachments"`
	EvaluationScores datatypes.JSONType[map[string]pipeline.Score]     `gorm:"type:jsonb"                                     json:"evaluationScores"`
	RecruiterNotes   string                                            `gorm:"type:text"                                      json:"recruiterNotes,omitempty"`
	SubmittedAt      *time.Time                                        `json:"submittedAt,omitempty"`
	EvaluatedAt      *time.Time                                        `json:"evaluatedAt,omitempty"`
	FieldSnapshot    datatypes.JSONSlice[pipeline.FieldDefinition]     `gorm:"type:jsonb"                                     json:"fieldSnapshot"`
	CriteriaSnapshot datatypes.JSONSlice[pipeline.EvaluationCriterion] `gorm:"type:jsonb"                                     json:"criteriaSnapshot"`
	BaseModel
}

func (RoundSubmission) TableName() string { return "round_submissions" }

// View 转换为领域视图
func (s *RoundSubmission) View() *pipeline.Submission {
	return &pipeline.Submission{
		Status:           pipeline.SubmissionStatus(s.Status),
		FieldAnswers:     map[string]any(s.FieldAnswers),
		Attachments:      []string(s.Attachments),
		Scores:           s.EvaluationScores.Data(),
		RecruiterNotes:   s.RecruiterNotes,
		SubmittedAt:      s.SubmittedAt,
		EvaluatedAt:      s.EvaluatedAt,
		FieldSnapshot:    []pipeline.FieldDefinition(s.FieldSnapshot),
		CriteriaSnapshot: []pipeline.EvaluationCriterion(s.CriteriaSnapshot),
	}
}

// Apply 将领域视图写回持久化字段
func (s *RoundSubmission) Apply(v *pipeline.Submission) {
	s.Status = string(v.Status)
	s.FieldAnswers = datatypes.JSONMap(v.FieldAnswers)
	s.Attachments = pq.StringArray(v.Attachments)
	s.EvaluationScores = datatypes.NewJSONType(v.Scores)
	s.RecruiterNotes = v.RecruiterNotes
	s.SubmittedAt = v.SubmittedAt
	s.EvaluatedAt = v.EvaluatedAt
	s.FieldSnapshot = datatypes.JSONSlice[pipeline.FieldDefinition](v.FieldSnapshot)
	s.CriteriaSnapshot = datatypes.JSONSlice[pipeline.EvaluationCriterion](v.CriteriaSnapshot)
}
