package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
)

// StatusLogRepository 投递状态变更日志数据访问接口
type StatusLogRepository interface {
	Create(ctx context.Context, log *model.ApplicationStatusLog) error
	ListByApplication(ctx context.Context, applicationID string) ([]model.ApplicationStatusLog, error)
}

type statusLogRepo struct {
	db *gorm.DB
}

// NewStatusLogRepo 创建 StatusLogRepository 实例
func NewStatusLogRepo(db *gorm.DB) StatusLogRepository {
	return &statusLogRepo{db: db}
}

func (r *statusLogRepo) Create(ctx context.Context, log *model.ApplicationStatusLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *statusLogRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.ApplicationStatusLog, error) {
	var logs []model.ApplicationStatusLog
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
