package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// ── 轮次模块业务错误 ──

var (
	ErrRoundNotFound = errors.New("轮次不存在")
	ErrRoundInUse    = errors.New("轮次已有投递或答卷，不能删除")
)

// RoundService 招聘轮次业务接口
type RoundService interface {
	Create(ctx context.Context, jobID string, req *dto.CreateRoundRequest, caller Caller) (*dto.RoundResponse, error)
	List(ctx context.Context, jobID string, caller Caller) ([]dto.RoundResponse, error)
	Update(ctx context.Context, jobID, roundID string, req *dto.UpdateRoundRequest, caller Caller) (*dto.RoundResponse, error)
	Delete(ctx context.Context, jobID, roundID string, caller Caller) error
	Move(ctx context.Context, jobID, roundID string, dir pipeline.Direction, caller Caller) ([]dto.RoundResponse, error)
}

type roundService struct {
	repo     *repository.Repository
	settings SettingService
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewRoundService 创建 RoundService 实例
func NewRoundService(repo *repository.Repository, settings SettingService, rdb *redis.Client, logger *zap.Logger) RoundService {
	return &roundService{repo: repo, settings: settings, rdb: rdb, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 在指定位置插入轮次（缺省追加到末尾），其余轮次顺延并保持编号连续
func (s *roundService) Create(ctx context.Context, jobID string, req *dto.CreateRoundRequest, caller Caller) (*dto.RoundResponse, error) {
	job, err := s.loadJob(ctx, jobID, caller)
	if err != nil {
		return nil, err
	}
	limits := s.settings.Limits(ctx)
	if len(job.Rounds) >= limits.MaxRoundsPerJob {
		return nil, ErrTooManyRounds
	}

	pos := len(job.Rounds)
	if req.OrderIndex != nil && *req.OrderIndex < pos {
		pos = *req.OrderIndex
	}
	round, err := buildRound(jobID, *req, pos, limits, caller)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(job.Rounds)+1)
	for _, r := range job.Rounds {
		ids = append(ids, r.RoundID)
	}
	ids = append(ids[:pos], append([]string{round.RoundID}, ids[pos:]...)...)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Round.Create(ctx, round); err != nil {
			return err
		}
		return tx.Round.Reorder(ctx, pipeline.Renumber(ids))
	})
	if err != nil {
		s.logger.Error("创建轮次失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}
	invalidateJobCache(ctx, s.rdb, s.logger, jobID)

	s.logger.Info("轮次已创建",
		zap.String("job_id", jobID),
		zap.String("round_id", round.RoundID),
		zap.Int("order_index", pos),
	)
	return toRoundResponse(round), nil
}

// ────────────────────── List ──────────────────────

func (s *roundService) List(ctx context.Context, jobID string, caller Caller) ([]dto.RoundResponse, error) {
	job, err := s.loadJob(ctx, jobID, caller)
	if err != nil {
		return nil, err
	}
	return toRoundResponses(job.Rounds), nil
}

// ────────────────────── Update ──────────────────────

// Update 修改轮次内容；顺序只能通过 Move 调整
func (s *roundService) Update(ctx context.Context, jobID, roundID string, req *dto.UpdateRoundRequest, caller Caller) (*dto.RoundResponse, error) {
	job, err := s.loadJob(ctx, jobID, caller)
	if err != nil {
		return nil, err
	}
	round := findRound(job.Rounds, roundID)
	if round == nil {
		return nil, ErrRoundNotFound
	}
	if req.Version != nil && *req.Version != round.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	limits := s.settings.Limits(ctx)
	if req.Name != nil {
		round.Name = *req.Name
	}
	if req.Description != nil {
		round.Description = *req.Description
	}
	if req.Instructions != nil {
		round.Instructions = *req.Instructions
	}
	if req.CustomFields != nil {
		fields, err := prepareFields(*req.CustomFields, limits)
		if err != nil {
			return nil, err
		}
		round.CustomFields = datatypes.JSONSlice[pipeline.FieldDefinition](fields)
	}
	if req.EvaluationCriteria != nil {
		criteria, err := prepareCriteria(*req.EvaluationCriteria, limits)
		if err != nil {
			return nil, err
		}
		round.EvaluationCriteria = datatypes.JSONSlice[pipeline.EvaluationCriterion](criteria)
	}
	round.UpdatedBy = caller.ptr()

	if err := s.repo.Round.Update(ctx, round); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新轮次失败", zap.String("round_id", roundID), zap.Error(err))
		}
		return nil, err
	}
	invalidateJobCache(ctx, s.rdb, s.logger, jobID)
	return toRoundResponse(round), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除未被引用的轮次，其余轮次重新连续编号
func (s *roundService) Delete(ctx context.Context, jobID, roundID string, caller Caller) error {
	job, err := s.loadJob(ctx, jobID, caller)
	if err != nil {
		return err
	}
	if findRound(job.Rounds, roundID) == nil {
		return ErrRoundNotFound
	}

	pointers, err := s.repo.Application.CountByCurrentRound(ctx, roundID)
	if err != nil {
		s.logger.Error("统计轮次引用失败", zap.String("round_id", roundID), zap.Error(err))
		return err
	}
	subs, err := s.repo.Submission.CountByRound(ctx, roundID)
	if err != nil {
		s.logger.Error("统计轮次答卷失败", zap.String("round_id", roundID), zap.Error(err))
		return err
	}
	if pointers > 0 || subs > 0 {
		return ErrRoundInUse
	}

	ids := make([]string, 0, len(job.Rounds))
	for _, r := range job.Rounds {
		if r.RoundID != roundID {
			ids = append(ids, r.RoundID)
		}
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Round.Delete(ctx, roundID); err != nil {
			return err
		}
		return tx.Round.Reorder(ctx, pipeline.Renumber(ids))
	})
	if err != nil {
		s.logger.Error("删除轮次失败", zap.String("round_id", roundID), zap.Error(err))
		return err
	}
	invalidateJobCache(ctx, s.rdb, s.logger, jobID)

	s.logger.Info("轮次已删除", zap.String("job_id", jobID), zap.String("round_id", roundID))
	return nil
}

// ────────────────────── Move ──────────────────────

// Move 与相邻轮次交换位置；首轮上移、末轮下移为无操作
func (s *roundService) Move(ctx context.Context, jobID, roundID string, dir pipeline.Direction, caller Caller) ([]dto.RoundResponse, error) {
	job, err := s.loadJob(ctx, jobID, caller)
	if err != nil {
		return nil, err
	}
	refs, err := pipeline.MoveRound(model.RoundRefs(job.Rounds), roundID, dir)
	if err != nil {
		if errors.Is(err, pipeline.ErrIndexOutOfRange) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.Round.Reorder(ctx, refs)
	}); err != nil {
		s.logger.Error("调整轮次顺序失败", zap.String("round_id", roundID), zap.Error(err))
		return nil, err
	}
	invalidateJobCache(ctx, s.rdb, s.logger, jobID)

	order := make(map[string]int, len(refs))
	for _, ref := range refs {
		order[ref.ID] = ref.OrderIndex
	}
	rounds := make([]model.Round, len(job.Rounds))
	for _, r := range job.Rounds {
		r.OrderIndex = order[r.RoundID]
		rounds[r.OrderIndex] = r
	}
	return toRoundResponses(rounds), nil
}

// ── 辅助函数 ──

func (s *roundService) loadJob(ctx context.Context, jobID string, caller Caller) (*model.Job, error) {
	job, err := loadOwnedJob(ctx, s.repo, jobID, caller)
	if err != nil && !errors.Is(err, ErrJobNotFound) && !errors.Is(err, ErrJobForbidden) {
		s.logger.Error("查询职位失败", zap.String("job_id", jobID), zap.Error(err))
	}
	return job, err
}

func findRound(rounds []model.Round, id string) *model.Round {
	for i := range rounds {
		if rounds[i].RoundID == id {
			return &rounds[i]
		}
	}
	return nil
}

func toRoundResponses(rounds []model.Round) []dto.RoundResponse {
	list := make([]dto.RoundResponse, 0, len(rounds))
	for i := range rounds {
		list = append(list, *toRoundResponse(&rounds[i]))
	}
	return list
}
