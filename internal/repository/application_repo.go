package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

// ApplicationRepository 投递数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByJobAndStudent(ctx context.Context, jobID, studentID string) (*model.Application, error)
	ListByJob(ctx context.Context, jobID, status string, offset, limit int) ([]model.Application, int64, error)
	ListAllByJob(ctx context.Context, jobID string) ([]model.Application, error)
	ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.Application, int64, error)
	CountByCurrentRound(ctx context.Context, roundID string) (int64, error)
	Update(ctx context.Context, app *model.Application) error
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create 创建投递；(job_id, student_id) 重复时返回 ErrDuplicate
func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return translate(r.db.WithContext(ctx).Omit("Job").Create(app).Error)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByJobAndStudent(ctx context.Context, jobID, studentID string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID, status string, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("job_id = ?", jobID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepo) ListAllByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("student_id = ?", studentID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Job").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepo) CountByCurrentRound(ctx context.Context, roundID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("current_round_id = ?", roundID).
		Count(&n).Error
	return n, err
}

// Update 以 version 为条件更新状态与当前轮次
func (r *applicationRepo) Update(ctx context.Context, app *model.Application) error {
	oldVersion := app.Version
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("application_id = ? AND version = ?", app.ApplicationID, oldVersion).
		Updates(map[string]interface{}{
			"status":           app.Status,
			"current_round_id": app.CurrentRoundID,
			"updated_by":       app.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	app.Version = oldVersion + 1
	return nil
}
