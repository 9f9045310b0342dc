package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

// JobRepository 职位数据访问接口
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListOpen(ctx context.Context, q string, offset, limit int) ([]model.Job, int64, error)
	ListByRecruiter(ctx context.Context, recruiterID string, offset, limit int) ([]model.Job, int64, error)
	Update(ctx context.Context, job *model.Job) error
}

type jobRepo struct {
	db *gorm.DB
}

// NewJobRepo 创建 JobRepository 实例
func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create 创建职位，携带的轮次一并写入
func (r *jobRepo) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("job_id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) ListOpen(ctx context.Context, q string, offset, limit int) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("status = ?", model.JobStatusOpen)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + escapeLike(q) + "%"
		db = db.Where("title ILIKE ? OR company ILIKE ? OR location ILIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string, offset, limit int) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("recruiter_id = ?", recruiterID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepo) Update(ctx context.Context, job *model.Job) error {
	oldVersion := job.Version
	result := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("job_id = ? AND version = ?", job.JobID, oldVersion).
		Updates(map[string]interface{}{
			"title":         job.Title,
			"company":       job.Company,
			"location":      job.Location,
			"description":   job.Description,
			"status":        job.Status,
			"custom_fields": job.CustomFields,
			"updated_by":    job.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	job.Version = oldVersion + 1
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_").Replace(s)
}
