package model

import "time"

// TopicProgress 学习路线主题进度表：对应 topic_progress
type TopicProgress struct {
	StudentID   string    `gorm:"type:varchar(64);primaryKey"        json:"studentId"`
	RoadmapSlug string    `gorm:"type:varchar(100);primaryKey"       json:"roadmapSlug"`
	TopicID     string    `gorm:"type:varchar(100);primaryKey"       json:"topicId"`
	Completed   bool      `gorm:"not null;default:false"             json:"completed"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (TopicProgress) TableName() string { return "topic_progress" }
