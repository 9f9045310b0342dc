package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/ats"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
)

// ── ATS 模块业务错误 ──

var (
	ErrNoKeywords = errors.New("未提供关键词且无法从职位中提取")
)

// ATSService 简历 ATS 评分业务接口
type ATSService interface {
	// Score 优先使用请求中的关键词；未提供时从职位标题与描述中提取
	Score(ctx context.Context, req *dto.AtsScoreRequest) (*dto.AtsScoreResponse, error)
}

type atsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewATSService 创建 ATSService 实例
func NewATSService(repo *repository.Repository, logger *zap.Logger) ATSService {
	return &atsService{repo: repo, logger: logger}
}

func (s *atsService) Score(ctx context.Context, req *dto.AtsScoreRequest) (*dto.AtsScoreResponse, error) {
	keywords := req.Keywords
	if len(keywords) == 0 && req.JobID != "" {
		job, err := s.repo.Job.GetByID(ctx, req.JobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrJobNotFound
			}
			s.logger.Error("查询职位失败", zap.String("job_id", req.JobID), zap.Error(err))
			return nil, err
		}
		if job.Status != model.JobStatusOpen {
			return nil, ErrJobNotFound
		}
		keywords = ats.ExtractKeywords(job.Title+"\n"+job.Description, ats.DefaultKeywordLimit)
	}
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	res := ats.Score(req.ResumeText, keywords)
	s.logger.Debug("ATS 评分完成",
		zap.Int("score", res.Score),
		zap.Int("keywords", len(keywords)),
		zap.Int("words", res.WordCount),
	)
	return &dto.AtsScoreResponse{Keywords: keywords, Result: res}, nil
}
