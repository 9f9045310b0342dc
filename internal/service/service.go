package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Sachinchaurasiya360/InternHack-sub000/config"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Setting     SettingService
	Job         JobService
	Round       RoundService
	Application ApplicationService
	Submission  SubmissionService
	Export      ExportService
	ATS         ATSService
	Progress    ProgressService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：操作锁与职位缓存降级为无操作
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	opts := options{
		lockTTL:  cfg.Pipeline.ActionLockTTL,
		cacheTTL: cfg.Pipeline.JobCacheTTL,
		now:      time.Now,
	}
	setting := NewSettingService(repo, logger)
	return &Service{
		Setting:     setting,
		Job:         NewJobService(repo, setting, rdb, opts, logger),
		Round:       NewRoundService(repo, setting, rdb, logger),
		Application: NewApplicationService(repo, rdb, opts, logger),
		Submission:  NewSubmissionService(repo, rdb, opts, logger),
		Export:      NewExportService(repo, logger),
		ATS:         NewATSService(repo, logger),
		Progress:    NewProgressService(repo, logger),
	}
}

// options 流程相关的运行参数
type options struct {
	lockTTL  time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

func (o options) withDefaults() options {
	if o.lockTTL <= 0 {
		o.lockTTL = 5 * time.Second
	}
	if o.cacheTTL <= 0 {
		o.cacheTTL = 2 * time.Minute
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}
