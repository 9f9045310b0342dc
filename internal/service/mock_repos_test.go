package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

// ── Mock 聚合 ──

type mocks struct {
	job        *mockJobRepo
	round      *mockRoundRepo
	app        *mockApplicationRepo
	submission *mockSubmissionRepo
	log        *mockStatusLogRepo
	setting    *mockSettingRepo
	progress   *mockProgressRepo
}

func newMockRepository() (*repository.Repository, *mocks) {
	rounds := &mockRoundRepo{rounds: make(map[string]*model.Round)}
	m := &mocks{
		job:        &mockJobRepo{jobs: make(map[string]*model.Job), rounds: rounds},
		round:      rounds,
		app:        &mockApplicationRepo{apps: make(map[string]*model.Application)},
		submission: &mockSubmissionRepo{subs: make(map[string]*model.RoundSubmission)},
		log:        &mockStatusLogRepo{},
		setting:    &mockSettingRepo{},
		progress:   &mockProgressRepo{items: make(map[string]*model.TopicProgress)},
	}
	repo := &repository.Repository{
		Job:         m.job,
		Round:       m.round,
		Application: m.app,
		Submission:  m.submission,
		StatusLog:   m.log,
		Setting:     m.setting,
		Progress:    m.progress,
	}
	return repo, m
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ── Mock JobRepository ──

type mockJobRepo struct {
	jobs   map[string]*model.Job
	rounds *mockRoundRepo
}

func (m *mockJobRepo) Create(_ context.Context, job *model.Job) error {
	stored := *job
	stored.Rounds = nil
	m.jobs[job.JobID] = &stored
	for i := range job.Rounds {
		r := job.Rounds[i]
		r.JobID = job.JobID
		m.rounds.rounds[r.RoundID] = &r
	}
	return nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *j
	cp.Rounds, _ = m.rounds.ListByJob(ctx, id)
	return &cp, nil
}

func (m *mockJobRepo) list(filter func(*model.Job) bool) []model.Job {
	var result []model.Job
	for _, j := range m.jobs {
		if filter(j) {
			result = append(result, *j)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].JobID < result[k].JobID })
	return result
}

func (m *mockJobRepo) ListOpen(_ context.Context, q string, offset, limit int) ([]model.Job, int64, error) {
	q = strings.ToLower(q)
	all := m.list(func(j *model.Job) bool {
		return j.Status == model.JobStatusOpen &&
			(q == "" || strings.Contains(strings.ToLower(j.Title+" "+j.Company), q))
	})
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockJobRepo) ListByRecruiter(_ context.Context, recruiterID string, offset, limit int) ([]model.Job, int64, error) {
	all := m.list(func(j *model.Job) bool { return j.RecruiterID == recruiterID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockJobRepo) Update(_ context.Context, job *model.Job) error {
	stored, ok := m.jobs[job.JobID]
	if !ok || stored.Version != job.Version {
		return pkgerrors.ErrOptimisticLock
	}
	job.Version++
	cp := *job
	cp.Rounds = nil
	m.jobs[job.JobID] = &cp
	return nil
}

// ── Mock RoundRepository ──

type mockRoundRepo struct {
	rounds map[string]*model.Round
}

func (m *mockRoundRepo) Create(_ context.Context, round *model.Round) error {
	cp := *round
	m.rounds[round.RoundID] = &cp
	return nil
}

func (m *mockRoundRepo) GetByID(_ context.Context, id string) (*model.Round, error) {
	if r, ok := m.rounds[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoundRepo) ListByJob(_ context.Context, jobID string) ([]model.Round, error) {
	var result []model.Round
	for _, r := range m.rounds {
		if r.JobID == jobID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].OrderIndex < result[k].OrderIndex })
	return result, nil
}

func (m *mockRoundRepo) Update(_ context.Context, round *model.Round) error {
	stored, ok := m.rounds[round.RoundID]
	if !ok || stored.Version != round.Version {
		return pkgerrors.ErrOptimisticLock
	}
	round.Version++
	cp := *round
	m.rounds[round.RoundID] = &cp
	return nil
}

func (m *mockRoundRepo) Delete(_ context.Context, id string) error {
	delete(m.rounds, id)
	return nil
}

func (m *mockRoundRepo) Reorder(_ context.Context, refs []pipeline.RoundRef) error {
	for _, ref := range refs {
		if r, ok := m.rounds[ref.ID]; ok {
			r.OrderIndex = ref.OrderIndex
		}
	}
	return nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps map[string]*model.Application
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	for _, a := range m.apps {
		if a.JobID == app.JobID && a.StudentID == app.StudentID {
			return pkgerrors.ErrDuplicate
		}
	}
	cp := *app
	cp.Job = nil
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetByJobAndStudent(_ context.Context, jobID, studentID string) (*model.Application, error) {
	for _, a := range m.apps {
		if a.JobID == jobID && a.StudentID == studentID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) filter(fn func(*model.Application) bool) []model.Application {
	var result []model.Application
	for _, a := range m.apps {
		if fn(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].ApplicationID < result[k].ApplicationID })
	return result
}

func (m *mockApplicationRepo) ListByJob(_ context.Context, jobID, status string, offset, limit int) ([]model.Application, int64, error) {
	all := m.filter(func(a *model.Application) bool {
		return a.JobID == jobID && (status == "" || a.Status == status)
	})
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockApplicationRepo) ListAllByJob(_ context.Context, jobID string) ([]model.Application, error) {
	return m.filter(func(a *model.Application) bool { return a.JobID == jobID }), nil
}

func (m *mockApplicationRepo) ListByStudent(_ context.Context, studentID string, offset, limit int) ([]model.Application, int64, error) {
	all := m.filter(func(a *model.Application) bool { return a.StudentID == studentID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockApplicationRepo) CountByCurrentRound(_ context.Context, roundID string) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if a.Pointer() == roundID {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.Application) error {
	stored, ok := m.apps[app.ApplicationID]
	if !ok || stored.Version != app.Version {
		return pkgerrors.ErrOptimisticLock
	}
	app.Version++
	cp := *app
	cp.Job = nil
	m.apps[app.ApplicationID] = &cp
	return nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	subs map[string]*model.RoundSubmission
}

func subKey(applicationID, roundID string) string { return applicationID + "/" + roundID }

func (m *mockSubmissionRepo) Create(_ context.Context, sub *model.RoundSubmission) error {
	key := subKey(sub.ApplicationID, sub.RoundID)
	if _, ok := m.subs[key]; ok {
		return pkgerrors.ErrDuplicate
	}
	cp := *sub
	m.subs[key] = &cp
	return nil
}

func (m *mockSubmissionRepo) CreateIfAbsent(ctx context.Context, sub *model.RoundSubmission) error {
	if _, ok := m.subs[subKey(sub.ApplicationID, sub.RoundID)]; ok {
		return nil
	}
	return m.Create(ctx, sub)
}

func (m *mockSubmissionRepo) Get(_ context.Context, applicationID, roundID string) (*model.RoundSubmission, error) {
	if s, ok := m.subs[subKey(applicationID, roundID)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByApplication(_ context.Context, applicationID string) ([]model.RoundSubmission, error) {
	return m.ListByApplications(context.Background(), []string{applicationID})
}

func (m *mockSubmissionRepo) ListByApplications(_ context.Context, applicationIDs []string) ([]model.RoundSubmission, error) {
	want := make(map[string]bool, len(applicationIDs))
	for _, id := range applicationIDs {
		want[id] = true
	}
	var result []model.RoundSubmission
	for _, s := range m.subs {
		if want[s.ApplicationID] {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].SubmissionID < result[k].SubmissionID })
	return result, nil
}

func (m *mockSubmissionRepo) Save(_ context.Context, sub *model.RoundSubmission) error {
	cp := *sub
	m.subs[subKey(sub.ApplicationID, sub.RoundID)] = &cp
	return nil
}

func (m *mockSubmissionRepo) CountByRound(_ context.Context, roundID string) (int64, error) {
	var n int64
	for _, s := range m.subs {
		if s.RoundID == roundID {
			n++
		}
	}
	return n, nil
}

// ── Mock StatusLogRepository ──

type mockStatusLogRepo struct {
	logs []model.ApplicationStatusLog
}

func (m *mockStatusLogRepo) Create(_ context.Context, log *model.ApplicationStatusLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockStatusLogRepo) ListByApplication(_ context.Context, applicationID string) ([]model.ApplicationStatusLog, error) {
	var result []model.ApplicationStatusLog
	for _, l := range m.logs {
		if l.ApplicationID == applicationID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock PlatformSettingRepository ──

type mockSettingRepo struct {
	cfg *model.PlatformSetting
}

func (m *mockSettingRepo) Get(_ context.Context) (*model.PlatformSetting, error) {
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockSettingRepo) Update(_ context.Context, cfg *model.PlatformSetting) error {
	cp := *cfg
	m.cfg = &cp
	return nil
}

// ── Mock TopicProgressRepository ──

type mockProgressRepo struct {
	items map[string]*model.TopicProgress
}

func (m *mockProgressRepo) Upsert(_ context.Context, p *model.TopicProgress) error {
	cp := *p
	m.items[p.StudentID+"/"+p.RoadmapSlug+"/"+p.TopicID] = &cp
	return nil
}

func (m *mockProgressRepo) ListByRoadmap(_ context.Context, studentID, slug string) ([]model.TopicProgress, error) {
	var result []model.TopicProgress
	for _, it := range m.items {
		if it.StudentID == studentID && it.RoadmapSlug == slug {
			result = append(result, *it)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].TopicID < result[k].TopicID })
	return result, nil
}
