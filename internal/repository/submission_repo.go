package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
)

// SubmissionRepository 轮次答卷数据访问接口
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.RoundSubmission) error
	CreateIfAbsent(ctx context.Context, sub *model.RoundSubmission) error
	Get(ctx context.Context, applicationID, roundID string) (*model.RoundSubmission, error)
	ListByApplication(ctx context.Context, applicationID string) ([]model.RoundSubmission, error)
	ListByApplications(ctx context.Context, applicationIDs []string) ([]model.RoundSubmission, error)
	Save(ctx context.Context, sub *model.RoundSubmission) error
	CountByRound(ctx context.Context, roundID string) (int64, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

// Create 创建答卷；(application_id, round_id) 重复时返回 ErrDuplicate
func (r *submissionRepo) Create(ctx context.Context, sub *model.RoundSubmission) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

// CreateIfAbsent 建档；(application_id, round_id) 已存在时不做任何事，
// 不产生唯一约束错误，可在事务中安全调用
func (r *submissionRepo) CreateIfAbsent(ctx context.Context, sub *model.RoundSubmission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_id"}, {Name: "round_id"}},
			DoNothing: true,
		}).
		Create(sub).Error
}

func (r *submissionRepo) Get(ctx context.Context, applicationID, roundID string) (*model.RoundSubmission, error) {
	var sub model.RoundSubmission
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND round_id = ?", applicationID, roundID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.RoundSubmission, error) {
	var subs []model.RoundSubmission
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepo) ListByApplications(ctx context.Context, applicationIDs []string) ([]model.RoundSubmission, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	var subs []model.RoundSubmission
	err := r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepo) Save(ctx context.Context, sub *model.RoundSubmission) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *submissionRepo) CountByRound(ctx context.Context, roundID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RoundSubmission{}).
		Where("round_id = ?", roundID).
		Count(&count).Error
	return count, err
}
