package pipeline

import (
	"strings"
	"time"
)

// SubmissionStatus 轮次答卷状态
type SubmissionStatus string

const (
	SubmissionPending    SubmissionStatus = "PENDING"
	SubmissionInProgress SubmissionStatus = "IN_PROGRESS"
	SubmissionCompleted  SubmissionStatus = "COMPLETED"
	SubmissionSkipped    SubmissionStatus = "SKIPPED"
)

// Done 完成或跳过的轮次计入录用前的完成度
func (s SubmissionStatus) Done() bool {
	return s == SubmissionCompleted || s == SubmissionSkipped
}

// Submission 单轮答卷与评估记录（与持久化无关的视图）
type Submission struct {
	Status           SubmissionStatus
	FieldAnswers     map[string]any
	Attachments      []string
	Scores           map[string]Score
	RecruiterNotes   string
	SubmittedAt      *time.Time
	EvaluatedAt      *time.Time
	FieldSnapshot    []FieldDefinition
	CriteriaSnapshot []EvaluationCriterion
}

// Submit 学生提交答卷：校验答案、覆盖已有答案与附件、标记 COMPLETED。
// 评估相关字段（评分、备注、evaluatedAt）保持不变。
func (s *Submission) Submit(fields []FieldDefinition, answers map[string]any, attachments []string, now time.Time) error {
	normalized, err := ValidateAnswers(fields, answers)
	if err != nil {
		return err
	}
	s.FieldAnswers = normalized
	s.Attachments = CleanAttachments(attachments)
	s.Status = SubmissionCompleted
	s.SubmittedAt = &now
	s.FieldSnapshot = append([]FieldDefinition(nil), fields...)
	return nil
}

// Evaluate 招聘方评分：可在提交前或提交后进行，不改变答卷状态
func (s *Submission) Evaluate(criteria []EvaluationCriterion, scores map[string]Score, notes string, now time.Time) error {
	applied, err := ApplyScores(criteria, scores)
	if err != nil {
		return err
	}
	if len(criteria) == 0 {
		applied = nil
	}
	s.Scores = applied
	s.RecruiterNotes = strings.TrimSpace(notes)
	s.EvaluatedAt = &now
	s.CriteriaSnapshot = append([]EvaluationCriterion(nil), criteria...)
	return nil
}

// CleanAttachments 去除空白与重复的附件地址
func CleanAttachments(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
