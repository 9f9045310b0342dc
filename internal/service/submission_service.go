package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// SubmissionService 轮次答卷与评分业务接口
type SubmissionService interface {
	// Submit 学生提交当前轮次答卷，可重复提交覆盖，不推进轮次
	Submit(ctx context.Context, applicationID, roundID string, req *dto.SubmitRoundRequest, caller Caller) (*dto.SubmissionResponse, error)
	// Evaluate 招聘方按轮次评分维度打分，提交前后均可
	Evaluate(ctx context.Context, applicationID, roundID string, req *dto.EvaluateRequest, caller Caller) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	opts   options
	logger *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, rdb *redis.Client, opts options, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, rdb: rdb, opts: opts.withDefaults(), logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, applicationID, roundID string, req *dto.SubmitRoundRequest, caller Caller) (*dto.SubmissionResponse, error) {
	release, err := s.rdb.AcquireLock(ctx, applicationLockKey(applicationID), s.opts.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	app, job, err := loadApplication(ctx, s.repo, s.logger, applicationID)
	if err != nil {
		return nil, err
	}
	if app.StudentID != caller.UserID {
		return nil, ErrApplicationNotFound
	}

	subs, err := s.repo.Submission.ListByApplication(ctx, applicationID)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("application_id", applicationID), zap.Error(err))
		return nil, err
	}
	if _, err := job.Machine().Transition(app.State(subs), pipeline.SubmitRound{RoundID: roundID}); err != nil {
		return nil, err
	}
	round := findRound(job.Rounds, roundID)

	sub, created := pickSubmission(subs, applicationID, roundID, pipeline.SubmissionInProgress, caller)
	view := sub.View()
	if err := view.Submit(round.Fields(), req.FieldAnswers, req.Attachments, s.opts.now()); err != nil {
		return nil, err
	}
	sub.Apply(view)
	sub.UpdatedBy = caller.ptr()

	if err := s.persist(ctx, sub, created); err != nil {
		s.logger.Error("保存答卷失败",
			zap.String("application_id", applicationID),
			zap.String("round_id", roundID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("轮次答卷已提交",
		zap.String("application_id", applicationID),
		zap.String("round_id", roundID),
		zap.Int("attachments", len(sub.Attachments)),
	)
	return toSubmissionResponse(sub, true), nil
}

// ────────────────────── Evaluate ──────────────────────

func (s *submissionService) Evaluate(ctx context.Context, applicationID, roundID string, req *dto.EvaluateRequest, caller Caller) (*dto.SubmissionResponse, error) {
	release, err := s.rdb.AcquireLock(ctx, applicationLockKey(applicationID), s.opts.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	_, job, err := loadApplication(ctx, s.repo, s.logger, applicationID)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(job) {
		return nil, ErrApplicationForbidden
	}
	round := findRound(job.Rounds, roundID)
	if round == nil {
		return nil, pipeline.ErrRoundNotInJob
	}

	subs, err := s.repo.Submission.ListByApplication(ctx, applicationID)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("application_id", applicationID), zap.Error(err))
		return nil, err
	}
	sub, created := pickSubmission(subs, applicationID, roundID, pipeline.SubmissionPending, caller)
	view := sub.View()
	if err := view.Evaluate(round.Criteria(), req.EvaluationScores, req.RecruiterNotes, s.opts.now()); err != nil {
		return nil, err
	}
	sub.Apply(view)
	sub.UpdatedBy = caller.ptr()

	if err := s.persist(ctx, sub, created); err != nil {
		s.logger.Error("保存评分失败",
			zap.String("application_id", applicationID),
			zap.String("round_id", roundID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("轮次已评分",
		zap.String("application_id", applicationID),
		zap.String("round_id", roundID),
		zap.String("operator", caller.UserID),
	)
	return toSubmissionResponse(sub, false), nil
}

// ── 辅助函数 ──

// pickSubmission 取出该轮答卷，不存在时以给定状态新建（尚未持久化）
func pickSubmission(subs []model.RoundSubmission, applicationID, roundID string, status pipeline.SubmissionStatus, caller Caller) (*model.RoundSubmission, bool) {
	for i := range subs {
		if subs[i].RoundID == roundID {
			return &subs[i], false
		}
	}
	sub := &model.RoundSubmission{
		SubmissionID:  uuid.NewString(),
		ApplicationID: applicationID,
		RoundID:       roundID,
		Status:        string(status),
	}
	sub.CreatedBy = caller.ptr()
	return sub, true
}

func (s *submissionService) persist(ctx context.Context, sub *model.RoundSubmission, created bool) error {
	if !created {
		return s.repo.Submission.Save(ctx, sub)
	}
	err := s.repo.Submission.Create(ctx, sub)
	if errors.Is(err, pkgerrors.ErrDuplicate) {
		// 并发建档：改为覆盖已存在的那一条
		existing, gerr := s.repo.Submission.Get(ctx, sub.ApplicationID, sub.RoundID)
		if gerr != nil {
			if errors.Is(gerr, gorm.ErrRecordNotFound) {
				return err
			}
			return gerr
		}
		sub.SubmissionID = existing.SubmissionID
		sub.CreatedAt = existing.CreatedAt
		return s.repo.Submission.Save(ctx, sub)
	}
	return err
}
