package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

// RoundRepository 招聘轮次数据访问接口
type RoundRepository interface {
	Create(ctx context.Context, round *model.Round) error
	GetByID(ctx context.Context, id string) (*model.Round, error)
	ListByJob(ctx context.Context, jobID string) ([]model.Round, error)
	Update(ctx context.Context, round *model.Round) error
	Delete(ctx context.Context, id string) error
	// Reorder 批量写入 order_index，需在事务内调用（唯一约束延迟到提交时检查）
	Reorder(ctx context.Context, refs []pipeline.RoundRef) error
}

type roundRepo struct {
	db *gorm.DB
}

// NewRoundRepo 创建 RoundRepository 实例
func NewRoundRepo(db *gorm.DB) RoundRepository {
	return &roundRepo{db: db}
}

func (r *roundRepo) Create(ctx context.Context, round *model.Round) error {
	return r.db.WithContext(ctx).Create(round).Error
}

func (r *roundRepo) GetByID(ctx context.Context, id string) (*model.Round, error) {
	var round model.Round
	err := r.db.WithContext(ctx).
		Where("round_id = ?", id).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepo) ListByJob(ctx context.Context, jobID string) ([]model.Round, error) {
	var rounds []model.Round
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("order_index ASC").
		Find(&rounds).Error
	return rounds, err
}

func (r *roundRepo) Update(ctx context.Context, round *model.Round) error {
	oldVersion := round.Version
	result := r.db.WithContext(ctx).
		Model(&model.Round{}).
		Where("round_id = ? AND version = ?", round.RoundID, oldVersion).
		Updates(map[string]interface{}{
			"name":                round.Name,
			"description":         round.Description,
			"instructions":        round.Instructions,
			"custom_fields":       round.CustomFields,
			"evaluation_criteria": round.EvaluationCriteria,
			"updated_by":          round.UpdatedBy,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	round.Version = oldVersion + 1
	return nil
}

// Delete 硬删除：轮次顺序需保持连续，不保留软删除行
func (r *roundRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("round_id = ?", id).
		Delete(&model.Round{}).Error
}

func (r *roundRepo) Reorder(ctx context.Context, refs []pipeline.RoundRef) error {
	for _, ref := range refs {
		err := r.db.WithContext(ctx).
			Model(&model.Round{}).
			Where("round_id = ?", ref.ID).
			Update("order_index", ref.OrderIndex).Error
		if err != nil {
			return err
		}
	}
	return nil
}
