package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
)

// TopicProgressRepository 学习路线主题进度数据访问接口
type TopicProgressRepository interface {
	Upsert(ctx context.Context, p *model.TopicProgress) error
	ListByRoadmap(ctx context.Context, studentID, slug string) ([]model.TopicProgress, error)
}

type topicProgressRepo struct {
	db *gorm.DB
}

// NewTopicProgressRepo 创建 TopicProgressRepository 实例
func NewTopicProgressRepo(db *gorm.DB) TopicProgressRepository {
	return &topicProgressRepo{db: db}
}

// Upsert 幂等写入主题完成状态
func (r *topicProgressRepo) Upsert(ctx context.Context, p *model.TopicProgress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "roadmap_slug"}, {Name: "topic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
		}).
		Create(p).Error
}

func (r *topicProgressRepo) ListByRoadmap(ctx context.Context, studentID, slug string) ([]model.TopicProgress, error) {
	var items []model.TopicProgress
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND roadmap_slug = ?", studentID, slug).
		Order("topic_id ASC").
		Find(&items).Error
	return items, err
}
