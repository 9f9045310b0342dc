package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Job         JobRepository
	Round       RoundRepository
	Application ApplicationRepository
	Submission  SubmissionRepository
	StatusLog   StatusLogRepository
	Setting     PlatformSettingRepository
	Progress    TopicProgressRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Job:         NewJobRepo(db),
		Round:       NewRoundRepo(db),
		Application: NewApplicationRepo(db),
		Submission:  NewSubmissionRepo(db),
		StatusLog:   NewStatusLogRepo(db),
		Setting:     NewPlatformSettingRepo(db),
		Progress:    NewTopicProgressRepo(db),
	}
}

// BeginTx 开启事务；未连接数据库（单元测试中的 mock 聚合）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在事务中执行 fn，出错或 panic 时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}
	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

// translate 将驱动层唯一约束错误映射为 ErrDuplicate
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicate
	}
	return err
}
