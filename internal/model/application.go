package model

import (
	"gorm.io/datatypes"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// Application 投递表：对应 applications（同一学生对同一职位仅一条，永不删除）
type Application struct {
	ApplicationID      string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"applicationId"`
	JobID              string            `gorm:"type:uuid;not null"                             json:"jobId"`
	StudentID          string            `gorm:"type:varchar(64);not null"                      json:"studentId"`
	Status             string            `gorm:"type:varchar(20);not null;default:'APPLIED'"    json:"status"`
	CurrentRoundID     *string           `gorm:"type:uuid"                                      json:"currentRoundId,omitempty"`
	CustomFieldAnswers datatypes.JSONMap `gorm:"type:jsonb"                                     json:"customFieldAnswers"`
	ResumeURL          string            `gorm:"type:varchar(500)"                              json:"resumeUrl,omitempty"`
	CoverLetter        string            `gorm:"type:text"                                      json:"coverLetter,omitempty"`
	Version            int               `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	// 关联
	Job *Job `gorm:"foreignKey:JobID;references:JobID" json:"job,omitempty"`
}

func (Application) TableName() string { return "applications" }

// Pointer 当前轮次 id，未指向任何轮次时为空串
func (a *Application) Pointer() string {
	if a.CurrentRoundID == nil {
		return ""
	}
	return *a.CurrentRoundID
}

// State 构建状态机当前状态
func (a *Application) State(subs []RoundSubmission) pipeline.State {
	completed := make(map[string]bool, len(subs))
	for _, s := range subs {
		if pipeline.SubmissionStatus(s.Status).Done() {
			completed[s.RoundID] = true
		}
	}
	return pipeline.State{
		Status:         pipeline.Status(a.Status),
		CurrentRoundID: a.Pointer(),
		Completed:      completed,
	}
}

// ApplyState 将状态机结果写回
func (a *Application) ApplyState(st pipeline.State) {
	a.Status = string(st.Status)
	if st.CurrentRoundID == "" {
		a.CurrentRoundID = nil
		return
	}
	id := st.CurrentRoundID
	a.CurrentRoundID = &id
}
