package handler

import "github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Job         *JobHandler
	Round       *RoundHandler
	Application *ApplicationHandler
	Submission  *SubmissionHandler
	Export      *ExportHandler
	Setting     *SettingHandler
	ATS         *ATSHandler
	Progress    *ProgressHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Job:         NewJobHandler(svc.Job),
		Round:       NewRoundHandler(svc.Round),
		Application: NewApplicationHandler(svc.Application),
		Submission:  NewSubmissionHandler(svc.Submission),
		Export:      NewExportHandler(svc.Export),
		Setting:     NewSettingHandler(svc.Setting),
		ATS:         NewATSHandler(svc.ATS),
		Progress:    NewProgressHandler(svc.Progress),
	}
}
