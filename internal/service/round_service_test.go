package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
)

func roundNames(rounds []dto.RoundResponse) []string {
	names := make([]string, 0, len(rounds))
	for _, r := range rounds {
		names = append(names, r.Name)
	}
	return names
}

func assertOrder(t *testing.T, got []dto.RoundResponse, want ...string) {
	t.Helper()
	names := roundNames(got)
	if len(names) != len(want) {
		t.Fatalf("期望轮次 %v，实际 %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] || got[i].OrderIndex != i {
			t.Fatalf("期望轮次 %v（连续编号），实际 %v", want, names)
		}
	}
}

// ── Create 测试 ──

func TestRoundService_Create_InsertShiftsOthers(t *testing.T) {
	svc, _ := setupTestServices()
	job, _, _ := seedJob(t, svc)
	ctx := context.Background()

	_, err := svc.Round.Create(ctx, job.ID, &dto.CreateRoundRequest{Name: "Screening", OrderIndex: intPtr(0)}, recruiter)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	// 超出范围的位置追加到末尾
	_, err = svc.Round.Create(ctx, job.ID, &dto.CreateRoundRequest{Name: "Offer", OrderIndex: intPtr(99)}, recruiter)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	rounds, err := svc.Round.List(ctx, job.ID, recruiter)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	assertOrder(t, rounds, "Screening", "A", "B", "Offer")
}

func TestRoundService_Create_Forbidden(t *testing.T) {
	svc, _ := setupTestServices()
	job, _, _ := seedJob(t, svc)

	_, err := svc.Round.Create(context.Background(), job.ID, &dto.CreateRoundRequest{Name: "X"}, otherRec)
	if !errors.Is(err, ErrJobForbidden) {
		t.Errorf("期望 ErrJobForbidden，实际: %v", err)
	}
}

func TestRoundService_Create_TooManyCriteria(t *testing.T) {
	svc, m := setupTestServices()
	job, _, _ := seedJob(t, svc)
	cfg := model.DefaultPlatformSetting()
	cfg.MaxCriteriaPerRound = 1
	m.setting.cfg = &cfg

	_, err := svc.Round.Create(context.Background(), job.ID, &dto.CreateRoundRequest{
		Name: "Panel",
		EvaluationCriteria: []pipeline.EvaluationCriterion{
			{Criterion: "a", MaxScore: 5},
			{Criterion: "b", MaxScore: 5},
		},
	}, recruiter)
	if !errors.Is(err, ErrTooManyCriteria) {
		t.Errorf("期望 ErrTooManyCriteria，实际: %v", err)
	}
}

// ── Move 测试 ──

func TestRoundService_Move(t *testing.T) {
	svc, _ := setupTestServices()
	job, roundA, _ := seedJob(t, svc)
	ctx := context.Background()

	rounds, err := svc.Round.Move(ctx, job.ID, roundA, pipeline.DirectionDown, recruiter)
	if err != nil {
		t.Fatalf("Move 应成功: %v", err)
	}
	assertOrder(t, rounds, "B", "A")

	// 末轮下移为无操作
	rounds, err = svc.Round.Move(ctx, job.ID, roundA, pipeline.DirectionDown, recruiter)
	if err != nil {
		t.Fatalf("Move 应成功: %v", err)
	}
	assertOrder(t, rounds, "B", "A")

	rounds, err = svc.Round.Move(ctx, job.ID, roundA, pipeline.DirectionUp, recruiter)
	if err != nil {
		t.Fatalf("Move 应成功: %v", err)
	}
	assertOrder(t, rounds, "A", "B")

	if _, err := svc.Round.Move(ctx, job.ID, "missing", pipeline.DirectionUp, recruiter); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("期望 ErrRoundNotFound，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestRoundService_Update(t *testing.T) {
	svc, _ := setupTestServices()
	job, _, roundB := seedJob(t, svc)
	ctx := context.Background()

	name := "Final interview"
	got, err := svc.Round.Update(ctx, job.ID, roundB, &dto.UpdateRoundRequest{Name: &name, Version: intPtr(1)}, recruiter)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got.Name != name || got.Version != 2 {
		t.Errorf("期望 Name=%s Version=2，实际 Name=%s Version=%d", name, got.Name, got.Version)
	}
	if got.OrderIndex != 1 {
		t.Errorf("Update 不应改变顺序，实际 orderIndex=%d", got.OrderIndex)
	}

	_, err = svc.Round.Update(ctx, job.ID, roundB, &dto.UpdateRoundRequest{Name: &name, Version: intPtr(1)}, recruiter)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("过期版本应返回 ErrOptimisticLock，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestRoundService_Delete_InUse(t *testing.T) {
	svc, _ := setupTestServices()
	job, roundA, roundB := seedJob(t, svc)
	ctx := context.Background()
	seedApplication(t, svc, job.ID, student)

	if err := svc.Round.Delete(ctx, job.ID, roundA, recruiter); !errors.Is(err, ErrRoundInUse) {
		t.Errorf("投递指向的轮次不能删除，期望 ErrRoundInUse，实际: %v", err)
	}

	if err := svc.Round.Delete(ctx, job.ID, roundB, recruiter); err != nil {
		t.Fatalf("未被引用的轮次应可删除: %v", err)
	}
	rounds, _ := svc.Round.List(ctx, job.ID, recruiter)
	assertOrder(t, rounds, "A")
}

func TestRoundService_Delete_RenumbersRemaining(t *testing.T) {
	svc, _ := setupTestServices()
	job, roundA, _ := seedJob(t, svc)
	ctx := context.Background()

	if err := svc.Round.Delete(ctx, job.ID, roundA, recruiter); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	rounds, _ := svc.Round.List(ctx, job.ID, recruiter)
	assertOrder(t, rounds, "B")

	if err := svc.Round.Delete(ctx, job.ID, roundA, recruiter); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("重复删除应返回 ErrRoundNotFound，实际: %v", err)
	}
}
