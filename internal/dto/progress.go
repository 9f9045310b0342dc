package dto

// SetTopicRequest 标记主题完成/未完成
type SetTopicRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TopicProgressResponse 单个主题进度
type TopicProgressResponse struct {
	TopicID   string `json:"topicId"`
	Completed bool   `json:"completed"`
	UpdatedAt string `json:"updatedAt"`
}

// RoadmapProgressResponse 学习路线进度
type RoadmapProgressResponse struct {
	RoadmapSlug    string                  `json:"roadmapSlug"`
	CompletedCount int                     `json:"completedCount"`
	Topics         []TopicProgressResponse `json:"topics"`
}
