package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
)

// ── 平台设置模块业务错误 ──

var (
	ErrSettingNotFound = errors.New("平台设置未初始化")
)

// SettingService 平台设置业务接口
type SettingService interface {
	Get(ctx context.Context) (*dto.PlatformSettingResponse, error)
	Update(ctx context.Context, req *dto.UpdatePlatformSettingRequest, caller Caller) (*dto.PlatformSettingResponse, error)
	// Limits 读取流程限制；读取失败时回退为默认值
	Limits(ctx context.Context) model.PlatformSetting
}

type settingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingService 创建 SettingService 实例
func NewSettingService(repo *repository.Repository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *settingService) Get(ctx context.Context) (*dto.PlatformSettingResponse, error) {
	cfg, err := s.repo.Setting.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		s.logger.Error("查询平台设置失败", zap.Error(err))
		return nil, err
	}
	return toSettingResponse(cfg), nil
}

// ────────────────────── Update ──────────────────────

func (s *settingService) Update(ctx context.Context, req *dto.UpdatePlatformSettingRequest, caller Caller) (*dto.PlatformSettingResponse, error) {
	cfg, err := s.repo.Setting.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询平台设置失败", zap.Error(err))
			return nil, err
		}
		def := model.DefaultPlatformSetting()
		cfg = &def
	}

	if req.MaxRoundsPerJob != nil {
		cfg.MaxRoundsPerJob = *req.MaxRoundsPerJob
	}
	if req.MaxFieldsPerForm != nil {
		cfg.MaxFieldsPerForm = *req.MaxFieldsPerForm
	}
	if req.MaxCriteriaPerRound != nil {
		cfg.MaxCriteriaPerRound = *req.MaxCriteriaPerRound
	}
	if req.DefaultMaxFileSizeMB != nil {
		cfg.DefaultMaxFileSizeMB = *req.DefaultMaxFileSizeMB
	}
	cfg.UpdatedBy = caller.ptr()

	if err := s.repo.Setting.Update(ctx, cfg); err != nil {
		s.logger.Error("更新平台设置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("平台设置已更新", zap.String("operator", caller.UserID))
	return toSettingResponse(cfg), nil
}

// ────────────────────── Limits ──────────────────────

func (s *settingService) Limits(ctx context.Context) model.PlatformSetting {
	def := model.DefaultPlatformSetting()
	cfg, err := s.repo.Setting.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("读取平台设置失败，使用默认限制", zap.Error(err))
		}
		return def
	}
	out := *cfg
	if out.MaxRoundsPerJob <= 0 {
		out.MaxRoundsPerJob = def.MaxRoundsPerJob
	}
	if out.MaxFieldsPerForm <= 0 {
		out.MaxFieldsPerForm = def.MaxFieldsPerForm
	}
	if out.MaxCriteriaPerRound <= 0 {
		out.MaxCriteriaPerRound = def.MaxCriteriaPerRound
	}
	if out.DefaultMaxFileSizeMB <= 0 {
		out.DefaultMaxFileSizeMB = def.DefaultMaxFileSizeMB
	}
	return out
}

func toSettingResponse(cfg *model.PlatformSetting) *dto.PlatformSettingResponse {
	resp := &dto.PlatformSettingResponse{
		MaxRoundsPerJob:      cfg.MaxRoundsPerJob,
		MaxFieldsPerForm:     cfg.MaxFieldsPerForm,
		MaxCriteriaPerRound:  cfg.MaxCriteriaPerRound,
		DefaultMaxFileSizeMB: cfg.DefaultMaxFileSizeMB,
	}
	if !cfg.UpdatedAt.IsZero() {
		resp.UpdatedAt = dto.FormatTime(cfg.UpdatedAt)
	}
	return resp
}
