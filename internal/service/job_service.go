package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// ── 职位模块业务错误 ──

var (
	ErrJobNotFound   = errors.New("职位不存在")
	ErrJobForbidden  = errors.New("无权管理该职位")
	ErrJobNotOpen    = errors.New("职位未开放投递")
	ErrFieldNotFound = errors.New("字段不存在")
	ErrFieldExists   = errors.New("字段 id 已存在")
)

// JobService 职位业务接口
type JobService interface {
	Create(ctx context.Context, req *dto.CreateJobRequest, caller Caller) (*dto.JobResponse, error)
	Get(ctx context.Context, id string, caller Caller) (*dto.JobResponse, error)
	ListOpen(ctx context.Context, req *dto.JobListRequest) ([]dto.JobResponse, int64, error)
	ListMine(ctx context.Context, req *dto.PaginationRequest, caller Caller) ([]dto.JobResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateJobRequest, caller Caller) (*dto.JobResponse, error)
	SetStatusByAdmin(ctx context.Context, id string, req *dto.AdminJobStatusRequest, caller Caller) (*dto.JobResponse, error)

	// 投递表单逐字段编辑；已提交的答案不随字段删除而改写
	AddField(ctx context.Context, jobID string, def pipeline.FieldDefinition, caller Caller) (*dto.JobResponse, error)
	ReplaceField(ctx context.Context, jobID, fieldID string, def pipeline.FieldDefinition, caller Caller) (*dto.JobResponse, error)
	RemoveField(ctx context.Context, jobID, fieldID string, caller Caller) (*dto.JobResponse, error)
	MoveField(ctx context.Context, jobID, fieldID string, dir pipeline.Direction, caller Caller) (*dto.JobResponse, error)
}

type jobService struct {
	repo     *repository.Repository
	settings SettingService
	rdb      *redis.Client
	opts     options
	logger   *zap.Logger
}

// NewJobService 创建 JobService 实例
func NewJobService(repo *repository.Repository, settings SettingService, rdb *redis.Client, opts options, logger *zap.Logger) JobService {
	return &jobService{repo: repo, settings: settings, rdb: rdb, opts: opts.withDefaults(), logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *jobService) Create(ctx context.Context, req *dto.CreateJobRequest, caller Caller) (*dto.JobResponse, error) {
	limits := s.settings.Limits(ctx)

	fields, err := prepareFields(req.CustomFields, limits)
	if err != nil {
		return nil, err
	}
	if len(req.Rounds) > limits.MaxRoundsPerJob {
		return nil, ErrTooManyRounds
	}

	status := req.Status
	if status == "" {
		status = model.JobStatusOpen
	}

	job := &model.Job{
		JobID:        uuid.NewString(),
		RecruiterID:  caller.UserID,
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Status:       status,
		CustomFields: datatypes.JSONSlice[pipeline.FieldDefinition](fields),
	}
	job.Version = 1
	job.CreatedBy = caller.ptr()
	job.UpdatedBy = caller.ptr()

	// 按请求中的 orderIndex 稳定排序后重新连续编号
	reqRounds := append([]dto.CreateRoundRequest(nil), req.Rounds...)
	sort.SliceStable(reqRounds, func(i, j int) bool {
		return orderOf(reqRounds[i], i) < orderOf(reqRounds[j], j)
	})
	for i, rr := range reqRounds {
		round, err := buildRound(job.JobID, rr, i, limits, caller)
		if err != nil {
			return nil, err
		}
		job.Rounds = append(job.Rounds, *round)
	}

	if err := s.repo.Job.Create(ctx, job); err != nil {
		s.logger.Error("创建职位失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("职位已创建",
		zap.String("job_id", job.JobID),
		zap.String("recruiter_id", caller.UserID),
		zap.Int("rounds", len(job.Rounds)),
	)
	return toJobResponse(job), nil
}

func orderOf(r dto.CreateRoundRequest, pos int) int {
	if r.OrderIndex != nil {
		return *r.OrderIndex
	}
	return pos
}

// buildRound 由请求构建轮次模型（字段与评分维度已清洗）
func buildRound(jobID string, req dto.CreateRoundRequest, orderIndex int, limits model.PlatformSetting, caller Caller) (*model.Round, error) {
	fields, err := prepareFields(req.CustomFields, limits)
	if err != nil {
		return nil, err
	}
	criteria, err := prepareCriteria(req.EvaluationCriteria, limits)
	if err != nil {
		return nil, err
	}
	round := &model.Round{
		RoundID:            uuid.NewString(),
		JobID:              jobID,
		Name:               req.Name,
		Description:        req.Description,
		OrderIndex:         orderIndex,
		Instructions:       req.Instructions,
		CustomFields:       datatypes.JSONSlice[pipeline.FieldDefinition](fields),
		EvaluationCriteria: datatypes.JSONSlice[pipeline.EvaluationCriterion](criteria),
		Version:            1,
	}
	round.CreatedBy = caller.ptr()
	round.UpdatedBy = caller.ptr()
	return round, nil
}

// ────────────────────── Get ──────────────────────

// Get 职位详情；非 OPEN 状态仅职位所有者与管理员可见。OPEN 职位详情走缓存
func (s *jobService) Get(ctx context.Context, id string, caller Caller) (*dto.JobResponse, error) {
	var cached dto.JobResponse
	if hit, err := s.rdb.GetJSON(ctx, jobCacheKey(id), &cached); err != nil {
		s.logger.Warn("读取职位缓存失败", zap.String("id", id), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	job, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("查询职位失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toJobResponse(job)
	if job.Status != model.JobStatusOpen {
		if !caller.CanManage(job) {
			return nil, ErrJobNotFound
		}
		return resp, nil
	}

	if err := s.rdb.SetJSON(ctx, jobCacheKey(id), resp, s.opts.cacheTTL); err != nil {
		s.logger.Warn("写入职位缓存失败", zap.String("id", id), zap.Error(err))
	}
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *jobService) ListOpen(ctx context.Context, req *dto.JobListRequest) ([]dto.JobResponse, int64, error) {
	jobs, total, err := s.repo.Job.ListOpen(ctx, req.Q, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询职位列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toJobResponses(jobs), total, nil
}

func (s *jobService) ListMine(ctx context.Context, req *dto.PaginationRequest, caller Caller) ([]dto.JobResponse, int64, error) {
	jobs, total, err := s.repo.Job.ListByRecruiter(ctx, caller.UserID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的职位失败", zap.String("recruiter_id", caller.UserID), zap.Error(err))
		return nil, 0, err
	}
	return toJobResponses(jobs), total, nil
}

func toJobResponses(jobs []model.Job) []dto.JobResponse {
	list := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		list = append(list, *toJobResponse(&jobs[i]))
	}
	return list
}

// ────────────────────── Update ──────────────────────

func (s *jobService) Update(ctx context.Context, id string, req *dto.UpdateJobRequest, caller Caller) (*dto.JobResponse, error) {
	return s.mutate(ctx, id, caller, func(job *model.Job) error {
		if req.Version != nil && *req.Version != job.Version {
			return pkgerrors.ErrOptimisticLock
		}
		if req.Title != nil {
			job.Title = *req.Title
		}
		if req.Company != nil {
			job.Company = *req.Company
		}
		if req.Location != nil {
			job.Location = *req.Location
		}
		if req.Description != nil {
			job.Description = *req.Description
		}
		if req.Status != nil {
			job.Status = *req.Status
		}
		return nil
	})
}

// SetStatusByAdmin 管理员下架或恢复职位
func (s *jobService) SetStatusByAdmin(ctx context.Context, id string, req *dto.AdminJobStatusRequest, caller Caller) (*dto.JobResponse, error) {
	resp, err := s.mutate(ctx, id, caller, func(job *model.Job) error {
		job.Status = req.Status
		return nil
	})
	if err == nil {
		s.logger.Info("管理员变更职位状态",
			zap.String("job_id", id),
			zap.String("status", req.Status),
			zap.String("reason", req.Reason),
			zap.String("operator", caller.UserID),
		)
	}
	return resp, err
}

// ────────────────────── 字段编辑 ──────────────────────

func (s *jobService) AddField(ctx context.Context, jobID string, def pipeline.FieldDefinition, caller Caller) (*dto.JobResponse, error) {
	limits := s.settings.Limits(ctx)
	nf, err := prepareField(def, limits)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, jobID, caller, func(job *model.Job) error {
		fields := job.Fields()
		if len(fields) >= limits.MaxFieldsPerForm {
			return ErrTooManyFields
		}
		if pipeline.IndexOfField(fields, nf.ID) >= 0 {
			return ErrFieldExists
		}
		job.CustomFields = append(append(datatypes.JSONSlice[pipeline.FieldDefinition]{}, fields...), nf)
		return nil
	})
}

func (s *jobService) ReplaceField(ctx context.Context, jobID, fieldID string, def pipeline.FieldDefinition, caller Caller) (*dto.JobResponse, error) {
	def.ID = fieldID
	nf, err := prepareField(def, s.settings.Limits(ctx))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, jobID, caller, func(job *model.Job) error {
		fields, ok := pipeline.ReplaceField(job.Fields(), nf)
		if !ok {
			return ErrFieldNotFound
		}
		job.CustomFields = datatypes.JSONSlice[pipeline.FieldDefinition](fields)
		return nil
	})
}

func (s *jobService) RemoveField(ctx context.Context, jobID, fieldID string, caller Caller) (*dto.JobResponse, error) {
	return s.mutate(ctx, jobID, caller, func(job *model.Job) error {
		fields, ok := pipeline.RemoveField(job.Fields(), fieldID)
		if !ok {
			return ErrFieldNotFound
		}
		job.CustomFields = datatypes.JSONSlice[pipeline.FieldDefinition](fields)
		return nil
	})
}

func (s *jobService) MoveField(ctx context.Context, jobID, fieldID string, dir pipeline.Direction, caller Caller) (*dto.JobResponse, error) {
	return s.mutate(ctx, jobID, caller, func(job *model.Job) error {
		fields, err := pipeline.MoveField(job.Fields(), fieldID, dir)
		if err != nil {
			if errors.Is(err, pipeline.ErrIndexOutOfRange) {
				return ErrFieldNotFound
			}
			return err
		}
		job.CustomFields = datatypes.JSONSlice[pipeline.FieldDefinition](fields)
		return nil
	})
}

// ── 辅助函数 ──

// mutate 加载职位、校验归属、应用修改并以乐观锁写回
func (s *jobService) mutate(ctx context.Context, id string, caller Caller, fn func(job *model.Job) error) (*dto.JobResponse, error) {
	job, err := loadOwnedJob(ctx, s.repo, id, caller)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) && !errors.Is(err, ErrJobForbidden) {
			s.logger.Error("查询职位失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	if err := fn(job); err != nil {
		return nil, err
	}
	job.UpdatedBy = caller.ptr()

	if err := s.repo.Job.Update(ctx, job); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新职位失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	invalidateJobCache(ctx, s.rdb, s.logger, id)
	return toJobResponse(job), nil
}

// loadOwnedJob 加载职位并校验调用方可管理
func loadOwnedJob(ctx context.Context, repo *repository.Repository, id string, caller Caller) (*model.Job, error) {
	job, err := repo.Job.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if !caller.CanManage(job) {
		return nil, ErrJobForbidden
	}
	return job, nil
}

func jobCacheKey(id string) string { return "job:" + id }

func invalidateJobCache(ctx context.Context, rdb *redis.Client, logger *zap.Logger, id string) {
	if err := rdb.Delete(ctx, jobCacheKey(id)); err != nil {
		logger.Warn("清除职位缓存失败", zap.String("id", id), zap.Error(err))
	}
}
