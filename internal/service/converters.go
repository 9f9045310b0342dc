package service

import (
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// ── 模型 → DTO 转换 ──

func toJobResponse(job *model.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:           job.JobID,
		RecruiterID:  job.RecruiterID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		Description:  job.Description,
		Status:       job.Status,
		CustomFields: nonNilFields(job.Fields()),
		Version:      job.Version,
		CreatedAt:    dto.FormatTime(job.CreatedAt),
		UpdatedAt:    dto.FormatTime(job.UpdatedAt),
	}
	for i := range job.Rounds {
		resp.Rounds = append(resp.Rounds, *toRoundResponse(&job.Rounds[i]))
	}
	return resp
}

func toJobSummary(job *model.Job) *dto.JobSummary {
	if job == nil {
		return nil
	}
	return &dto.JobSummary{ID: job.JobID, Title: job.Title, Company: job.Company, Status: job.Status}
}

func toRoundResponse(r *model.Round) *dto.RoundResponse {
	criteria := r.Criteria()
	if criteria == nil {
		criteria = []pipeline.EvaluationCriterion{}
	}
	return &dto.RoundResponse{
		ID:                 r.RoundID,
		JobID:              r.JobID,
		Name:               r.Name,
		Description:        r.Description,
		OrderIndex:         r.OrderIndex,
		Instructions:       r.Instructions,
		CustomFields:       nonNilFields(r.Fields()),
		EvaluationCriteria: criteria,
		Version:            r.Version,
	}
}

func toApplicationResponse(app *model.Application) *dto.ApplicationResponse {
	answers := map[string]any(app.CustomFieldAnswers)
	if answers == nil {
		answers = map[string]any{}
	}
	return &dto.ApplicationResponse{
		ID:                 app.ApplicationID,
		JobID:              app.JobID,
		StudentID:          app.StudentID,
		Status:             app.Status,
		CurrentRoundID:     app.CurrentRoundID,
		CustomFieldAnswers: answers,
		ResumeURL:          app.ResumeURL,
		CoverLetter:        app.CoverLetter,
		Version:            app.Version,
		CreatedAt:          dto.FormatTime(app.CreatedAt),
		UpdatedAt:          dto.FormatTime(app.UpdatedAt),
		Job:                toJobSummary(app.Job),
	}
}

// toSubmissionResponse 学生视角隐藏评分、备注与汇总
func toSubmissionResponse(sub *model.RoundSubmission, forStudent bool) *dto.SubmissionResponse {
	v := sub.View()
	answers := v.FieldAnswers
	if answers == nil {
		answers = map[string]any{}
	}
	attachments := v.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	resp := &dto.SubmissionResponse{
		ID:            sub.SubmissionID,
		ApplicationID: sub.ApplicationID,
		RoundID:       sub.RoundID,
		Status:        sub.Status,
		FieldAnswers:  answers,
		Attachments:   attachments,
		SubmittedAt:   dto.FormatTimePtr(v.SubmittedAt),
	}
	if forStudent {
		return resp
	}
	resp.EvaluationScores = v.Scores
	resp.RecruiterNotes = v.RecruiterNotes
	resp.EvaluatedAt = dto.FormatTimePtr(v.EvaluatedAt)
	if v.EvaluatedAt != nil && len(v.CriteriaSnapshot) > 0 {
		summary := pipeline.Summarize(v.CriteriaSnapshot, v.Scores)
		resp.Summary = &summary
	}
	return resp
}

func toStatusLogResponse(l *model.ApplicationStatusLog) dto.StatusLogResponse {
	return dto.StatusLogResponse{
		FromStatus:  l.FromStatus,
		ToStatus:    l.ToStatus,
		FromRoundID: l.FromRoundID,
		ToRoundID:   l.ToRoundID,
		Event:       l.Event,
		OperatorID:  l.OperatorID,
		Reason:      l.Reason,
		CreatedAt:   dto.FormatTime(l.CreatedAt),
	}
}

func nonNilFields(fields []pipeline.FieldDefinition) []pipeline.FieldDefinition {
	if fields == nil {
		return []pipeline.FieldDefinition{}
	}
	return fields
}
