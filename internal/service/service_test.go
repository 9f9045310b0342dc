package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/jwt"
)

// ── 测试辅助 ──

var (
	testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	recruiter = Caller{UserID: "rec-1", Role: jwt.RoleRecruiter}
	otherRec  = Caller{UserID: "rec-2", Role: jwt.RoleRecruiter}
	admin     = Caller{UserID: "admin-1", Role: jwt.RoleAdmin}
	student   = Caller{UserID: "stu-1", Role: jwt.RoleStudent}
	student2  = Caller{UserID: "stu-2", Role: jwt.RoleStudent}
)

func setupTestServices() (*Service, *mocks) {
	repo, m := newMockRepository()
	logger := zap.NewNop()
	opts := options{now: func() time.Time { return testNow }}
	setting := NewSettingService(repo, logger)
	svc := &Service{
		Setting:     setting,
		Job:         NewJobService(repo, setting, nil, opts, logger),
		Round:       NewRoundService(repo, setting, nil, logger),
		Application: NewApplicationService(repo, nil, opts, logger),
		Submission:  NewSubmissionService(repo, nil, opts, logger),
		Export:      NewExportService(repo, logger),
		ATS:         NewATSService(repo, logger),
		Progress:    NewProgressService(repo, logger),
	}
	return svc, m
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// newJobRequest 两轮职位：A(0) 代码仓库 + 质量评分；B(1) 面试，两个加权维度
func newJobRequest() *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:   "Backend Intern",
		Company: "Acme",
		CustomFields: []pipeline.FieldDefinition{
			{ID: "gpa", Label: "GPA", FieldType: pipeline.FieldNumeric, Required: true},
			{ID: "portfolio", Label: "Portfolio", FieldType: pipeline.FieldURL},
		},
		Rounds: []dto.CreateRoundRequest{
			{
				Name:       "B",
				OrderIndex: intPtr(1),
				EvaluationCriteria: []pipeline.EvaluationCriterion{
					{ID: "comm", Criterion: "Communication", MaxScore: 5},
					{ID: "depth", Criterion: "Depth", MaxScore: 10, Weight: floatPtr(3)},
				},
			},
			{
				Name:       "A",
				OrderIndex: intPtr(0),
				CustomFields: []pipeline.FieldDefinition{
					{ID: "repo", Label: "Repository", FieldType: pipeline.FieldURL, Required: true},
					{ID: "notes", Label: "Notes", FieldType: pipeline.FieldTextarea},
				},
				EvaluationCriteria: []pipeline.EvaluationCriterion{
					{ID: "quality", Criterion: "Code quality", MaxScore: 10},
				},
			},
		},
	}
}

// seedJob 创建职位并返回 (职位, A 轮 id, B 轮 id)
func seedJob(t *testing.T, svc *Service) (*dto.JobResponse, string, string) {
	t.Helper()
	job, err := svc.Job.Create(context.Background(), newJobRequest(), recruiter)
	if err != nil {
		t.Fatalf("创建职位失败: %v", err)
	}
	if len(job.Rounds) != 2 {
		t.Fatalf("期望 2 个轮次，实际 %d", len(job.Rounds))
	}
	return job, job.Rounds[0].ID, job.Rounds[1].ID
}

// seedApplication 学生投递 seedJob 创建的职位
func seedApplication(t *testing.T, svc *Service, jobID string, caller Caller) *dto.ApplicationResponse {
	t.Helper()
	app, err := svc.Application.Apply(context.Background(), jobID, &dto.ApplyRequest{
		CustomFieldAnswers: map[string]any{"gpa": 8.7},
	}, caller)
	if err != nil {
		t.Fatalf("投递失败: %v", err)
	}
	return app
}
