package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
)

// PlatformSettingRepository 平台设置数据访问接口
type PlatformSettingRepository interface {
	Get(ctx context.Context) (*model.PlatformSetting, error)
	Update(ctx context.Context, cfg *model.PlatformSetting) error
}

type platformSettingRepo struct {
	db *gorm.DB
}

// NewPlatformSettingRepo 创建 PlatformSettingRepository 实例
func NewPlatformSettingRepo(db *gorm.DB) PlatformSettingRepository {
	return &platformSettingRepo{db: db}
}

func (r *platformSettingRepo) Get(ctx context.Context) (*model.PlatformSetting, error) {
	var cfg model.PlatformSetting
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *platformSettingRepo) Update(ctx context.Context, cfg *model.PlatformSetting) error {
	cfg.Singleton = true
	return r.db.WithContext(ctx).Save(cfg).Error
}
