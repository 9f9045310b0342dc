package model

import "time"

// ApplicationStatusLog 投递状态变更记录表：对应 application_status_logs（纯审计日志）
type ApplicationStatusLog struct {
	LogID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"logId"`
	ApplicationID string    `gorm:"type:uuid;not null;index"                       json:"applicationId"`
	FromStatus    string    `gorm:"type:varchar(20)"                               json:"fromStatus,omitempty"`
	ToStatus      string    `gorm:"type:varchar(20);not null"                      json:"toStatus"`
	FromRoundID   *string   `gorm:"type:uuid"                                      json:"fromRoundId,omitempty"`
	ToRoundID     *string   `gorm:"type:uuid"                                      json:"toRoundId,omitempty"`
	Event         string    `gorm:"type:varchar(20);not null"                      json:"event"` // apply | advance | set_status | withdraw
	OperatorID    string    `gorm:"type:varchar(64);not null"                      json:"operatorId"`
	Reason        string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

func (ApplicationStatusLog) TableName() string { return "application_status_logs" }
