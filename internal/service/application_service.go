package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/jwt"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// ── 投递模块业务错误 ──

var (
	ErrApplicationNotFound  = errors.New("投递记录不存在")
	ErrApplicationForbidden = errors.New("无权操作该投递")
)

// ApplicationService 投递流程业务接口
type ApplicationService interface {
	Apply(ctx context.Context, jobID string, req *dto.ApplyRequest, caller Caller) (*dto.ApplicationResponse, error)
	Detail(ctx context.Context, id string, caller Caller) (*dto.ApplicationDetailResponse, error)
	ListMine(ctx context.Context, req *dto.PaginationRequest, caller Caller) ([]dto.ApplicationResponse, int64, error)
	ListByJob(ctx context.Context, jobID string, req *dto.ApplicationListRequest, caller Caller) ([]dto.ApplicationResponse, int64, error)

	// 状态流转统一经由 pipeline.Machine
	Advance(ctx context.Context, id string, req *dto.AdvanceRequest, caller Caller) (*dto.ApplicationResponse, error)
	SetStatus(ctx context.Context, id string, req *dto.SetStatusRequest, caller Caller) (*dto.ApplicationResponse, error)
	Withdraw(ctx context.Context, id string, req *dto.WithdrawRequest, caller Caller) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	opts   options
	logger *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(repo *repository.Repository, rdb *redis.Client, opts options, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, rdb: rdb, opts: opts.withDefaults(), logger: logger}
}

// ────────────────────── Apply ──────────────────────

// Apply 学生投递：校验表单答案，指向第一轮并为其建立进行中的答卷
func (s *applicationService) Apply(ctx context.Context, jobID string, req *dto.ApplyRequest, caller Caller) (*dto.ApplicationResponse, error) {
	release, err := s.rdb.AcquireLock(ctx, "apply:"+jobID+":"+caller.UserID, s.opts.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	job, err := s.repo.Job.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("查询职位失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}
	if job.Status != model.JobStatusOpen {
		return nil, ErrJobNotOpen
	}

	_, err = s.repo.Application.GetByJobAndStudent(ctx, jobID, caller.UserID)
	if err == nil {
		return nil, pipeline.ErrAlreadyApplied
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询投递记录失败", zap.Error(err))
		return nil, err
	}

	answers, err := pipeline.ValidateAnswers(job.Fields(), req.CustomFieldAnswers)
	if err != nil {
		return nil, err
	}
	st, err := job.Machine().Transition(pipeline.State{}, pipeline.Apply{})
	if err != nil {
		return nil, err
	}

	app := &model.Application{
		ApplicationID:      uuid.NewString(),
		JobID:              jobID,
		StudentID:          caller.UserID,
		CustomFieldAnswers: datatypes.JSONMap(answers),
		ResumeURL:          req.ResumeURL,
		CoverLetter:        req.CoverLetter,
		Version:            1,
	}
	app.ApplyState(st)
	app.CreatedBy = caller.ptr()
	app.UpdatedBy = caller.ptr()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Application.Create(ctx, app); err != nil {
			return err
		}
		if err := ensureSubmission(ctx, tx, app.ApplicationID, st.CurrentRoundID, caller); err != nil {
			return err
		}
		return tx.StatusLog.Create(ctx, newStatusLog(app.ApplicationID, pipeline.State{}, st, pipeline.Apply{}, caller, ""))
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, pipeline.ErrAlreadyApplied
		}
		s.logger.Error("创建投递失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学生已投递",
		zap.String("application_id", app.ApplicationID),
		zap.String("job_id", jobID),
		zap.String("student_id", caller.UserID),
	)
	app.Job = job
	return toApplicationResponse(app), nil
}

// ────────────────────── Detail ──────────────────────

// Detail 投递详情：按轮次顺序列出答卷、评分汇总与状态历史。
// 学生只能看到自己的投递，且不返回评分与备注
func (s *applicationService) Detail(ctx context.Context, id string, caller Caller) (*dto.ApplicationDetailResponse, error) {
	app, job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	forStudent := caller.Role == jwt.RoleStudent
	if forStudent {
		if app.StudentID != caller.UserID {
			return nil, ErrApplicationNotFound
		}
	} else if !caller.CanManage(job) {
		return nil, ErrApplicationForbidden
	}

	subs, err := s.repo.Submission.ListByApplication(ctx, id)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	logs, err := s.repo.StatusLog.ListByApplication(ctx, id)
	if err != nil {
		s.logger.Error("查询状态历史失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}

	app.Job = job
	resp := &dto.ApplicationDetailResponse{
		ApplicationResponse: *toApplicationResponse(app),
		Rounds:              make([]dto.RoundProgress, 0, len(job.Rounds)),
		History:             make([]dto.StatusLogResponse, 0, len(logs)),
	}

	byRound := make(map[string]*model.RoundSubmission, len(subs))
	for i := range subs {
		byRound[subs[i].RoundID] = &subs[i]
	}
	for i := range job.Rounds {
		r := &job.Rounds[i]
		progress := dto.RoundProgress{
			Round:     *toRoundResponse(r),
			IsCurrent: r.RoundID == app.Pointer(),
		}
		if sub, ok := byRound[r.RoundID]; ok {
			progress.Submission = toSubmissionResponse(sub, forStudent)
		}
		resp.Rounds = append(resp.Rounds, progress)
	}
	if !forStudent {
		resp.Summary = evaluationSummary(job.Rounds, byRound)
	}
	for i := range logs {
		resp.History = append(resp.History, toStatusLogResponse(&logs[i]))
	}
	return resp, nil
}

// evaluationSummary 已评分轮次的汇总（使用评分时的维度快照）
func evaluationSummary(rounds []model.Round, byRound map[string]*model.RoundSubmission) *dto.EvaluationSummaryResponse {
	out := &dto.EvaluationSummaryResponse{Rounds: []dto.RoundSummary{}}
	var summaries []pipeline.Summary
	for _, r := range rounds {
		sub, ok := byRound[r.RoundID]
		if !ok || sub.EvaluatedAt == nil || len(sub.CriteriaSnapshot) == 0 {
			continue
		}
		sum := pipeline.Summarize(sub.CriteriaSnapshot, sub.EvaluationScores.Data())
		summaries = append(summaries, sum)
		out.Rounds = append(out.Rounds, dto.RoundSummary{RoundID: r.RoundID, RoundName: r.Name, Summary: sum})
	}
	out.WeightedPercent, out.EvaluatedRounds = pipeline.AggregatePercent(summaries)
	return out
}

// ────────────────────── List ──────────────────────

func (s *applicationService) ListMine(ctx context.Context, req *dto.PaginationRequest, caller Caller) ([]dto.ApplicationResponse, int64, error) {
	apps, total, err := s.repo.Application.ListByStudent(ctx, caller.UserID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的投递失败", zap.String("student_id", caller.UserID), zap.Error(err))
		return nil, 0, err
	}
	return toApplicationResponses(apps), total, nil
}

func (s *applicationService) ListByJob(ctx context.Context, jobID string, req *dto.ApplicationListRequest, caller Caller) ([]dto.ApplicationResponse, int64, error) {
	if _, err := loadOwnedJob(ctx, s.repo, jobID, caller); err != nil {
		return nil, 0, err
	}
	apps, total, err := s.repo.Application.ListByJob(ctx, jobID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询职位投递列表失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, 0, err
	}
	return toApplicationResponses(apps), total, nil
}

func toApplicationResponses(apps []model.Application) []dto.ApplicationResponse {
	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, *toApplicationResponse(&apps[i]))
	}
	return list
}

// ────────────────────── 状态流转 ──────────────────────

// Advance 推进到下一轮，只移动当前轮次指针，不改变状态
func (s *applicationService) Advance(ctx context.Context, id string, req *dto.AdvanceRequest, caller Caller) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, req.Version, pipeline.Advance{}, req.Reason, caller)
}

// SetStatus 招聘方直接设置状态；HIRED 要求所有轮次已完成或跳过
func (s *applicationService) SetStatus(ctx context.Context, id string, req *dto.SetStatusRequest, caller Caller) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, req.Version, pipeline.SetStatus{To: pipeline.Status(req.Status)}, req.Reason, caller)
}

// Withdraw 学生撤回自己的投递
func (s *applicationService) Withdraw(ctx context.Context, id string, req *dto.WithdrawRequest, caller Caller) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, id, nil, pipeline.Withdraw{}, req.Reason, caller)
}

// transition 加锁执行一次状态机流转并在同一事务中写入投递、答卷与日志
func (s *applicationService) transition(ctx context.Context, id string, version *int, ev pipeline.Event, reason string, caller Caller) (*dto.ApplicationResponse, error) {
	release, err := s.rdb.AcquireLock(ctx, applicationLockKey(id), s.opts.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	app, job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := ev.(pipeline.Withdraw); ok {
		if app.StudentID != caller.UserID {
			return nil, ErrApplicationNotFound
		}
	} else if !caller.CanManage(job) {
		return nil, ErrApplicationForbidden
	}
	if version != nil && *version != app.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	subs, err := s.repo.Submission.ListByApplication(ctx, id)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	cur := app.State(subs)
	next, err := job.Machine().Transition(cur, ev)
	if err != nil {
		return nil, err
	}

	app.Job = job
	if next.Status == cur.Status && next.CurrentRoundID == cur.CurrentRoundID {
		return toApplicationResponse(app), nil
	}

	app.ApplyState(next)
	app.UpdatedBy = caller.ptr()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Application.Update(ctx, app); err != nil {
			return err
		}
		if next.CurrentRoundID != cur.CurrentRoundID {
			if err := skipLeftRound(ctx, tx, id, cur, caller); err != nil {
				return err
			}
			if err := ensureSubmission(ctx, tx, id, next.CurrentRoundID, caller); err != nil {
				return err
			}
		}
		return tx.StatusLog.Create(ctx, newStatusLog(id, cur, next, ev, caller, reason))
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新投递状态失败", zap.String("application_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("投递状态已变更",
		zap.String("application_id", id),
		zap.String("event", ev.Name()),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(next.Status)),
		zap.String("round", next.CurrentRoundID),
		zap.String("operator", caller.UserID),
	)
	return toApplicationResponse(app), nil
}

// ── 辅助函数 ──

// load 加载投递及其职位（含轮次）
func (s *applicationService) load(ctx context.Context, id string) (*model.Application, *model.Job, error) {
	return loadApplication(ctx, s.repo, s.logger, id)
}

func loadApplication(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Application, *model.Job, error) {
	app, err := repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrApplicationNotFound
		}
		logger.Error("查询投递失败", zap.String("id", id), zap.Error(err))
		return nil, nil, err
	}
	job, err := repo.Job.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrJobNotFound
		}
		logger.Error("查询职位失败", zap.String("job_id", app.JobID), zap.Error(err))
		return nil, nil, err
	}
	return app, job, nil
}

func applicationLockKey(id string) string { return "application:" + id }

// ensureSubmission 为当前轮次建立进行中的答卷（已存在则保持不变）
func ensureSubmission(ctx context.Context, tx *repository.Repository, applicationID, roundID string, caller Caller) error {
	if roundID == "" {
		return nil
	}
	sub := &model.RoundSubmission{
		SubmissionID:  uuid.NewString(),
		ApplicationID: applicationID,
		RoundID:       roundID,
		Status:        string(pipeline.SubmissionInProgress),
	}
	sub.CreatedBy = caller.ptr()
	sub.UpdatedBy = caller.ptr()
	return tx.Submission.CreateIfAbsent(ctx, sub)
}

// skipLeftRound 推进离开一个未完成的轮次时，将其答卷记为 SKIPPED
func skipLeftRound(ctx context.Context, tx *repository.Repository, applicationID string, cur pipeline.State, caller Caller) error {
	if cur.CurrentRoundID == "" || cur.Completed[cur.CurrentRoundID] {
		return nil
	}
	sub, err := tx.Submission.Get(ctx, applicationID, cur.CurrentRoundID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = &model.RoundSubmission{
			SubmissionID:  uuid.NewString(),
			ApplicationID: applicationID,
			RoundID:       cur.CurrentRoundID,
			Status:        string(pipeline.SubmissionSkipped),
		}
		sub.CreatedBy = caller.ptr()
		sub.UpdatedBy = caller.ptr()
		return tx.Submission.CreateIfAbsent(ctx, sub)
	}
	if err != nil {
		return err
	}
	sub.Status = string(pipeline.SubmissionSkipped)
	sub.UpdatedBy = caller.ptr()
	return tx.Submission.Save(ctx, sub)
}

func newStatusLog(applicationID string, from, to pipeline.State, ev pipeline.Event, caller Caller, reason string) *model.ApplicationStatusLog {
	return &model.ApplicationStatusLog{
		LogID:         uuid.NewString(),
		ApplicationID: applicationID,
		FromStatus:    string(from.Status),
		ToStatus:      string(to.Status),
		FromRoundID:   optional(from.CurrentRoundID),
		ToRoundID:     optional(to.CurrentRoundID),
		Event:         ev.Name(),
		OperatorID:    caller.UserID,
		Reason:        reason,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
