package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/dto"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
)

// ── 学习进度模块业务错误 ──

var (
	ErrInvalidRoadmapSlug = errors.New("学习路线标识格式无效")
	ErrInvalidTopicID     = errors.New("主题标识格式无效")
)

var identRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,99}$`)

// ProgressService 学习路线进度业务接口
type ProgressService interface {
	Get(ctx context.Context, slug string, caller Caller) (*dto.RoadmapProgressResponse, error)
	// SetTopic 幂等设置主题完成状态，返回整条路线的最新进度
	SetTopic(ctx context.Context, slug, topicID string, req *dto.SetTopicRequest, caller Caller) (*dto.RoadmapProgressResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	opts   options
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, opts: options{}.withDefaults(), logger: logger}
}

func (s *progressService) Get(ctx context.Context, slug string, caller Caller) (*dto.RoadmapProgressResponse, error) {
	if !identRegex.MatchString(slug) {
		return nil, ErrInvalidRoadmapSlug
	}
	items, err := s.repo.Progress.ListByRoadmap(ctx, caller.UserID, slug)
	if err != nil {
		s.logger.Error("查询学习进度失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	resp := &dto.RoadmapProgressResponse{
		RoadmapSlug: slug,
		Topics:      make([]dto.TopicProgressResponse, 0, len(items)),
	}
	for _, it := range items {
		if it.Completed {
			resp.CompletedCount++
		}
		resp.Topics = append(resp.Topics, dto.TopicProgressResponse{
			TopicID:   it.TopicID,
			Completed: it.Completed,
			UpdatedAt: dto.FormatTime(it.UpdatedAt),
		})
	}
	return resp, nil
}

func (s *progressService) SetTopic(ctx context.Context, slug, topicID string, req *dto.SetTopicRequest, caller Caller) (*dto.RoadmapProgressResponse, error) {
	if !identRegex.MatchString(slug) {
		return nil, ErrInvalidRoadmapSlug
	}
	if !identRegex.MatchString(topicID) {
		return nil, ErrInvalidTopicID
	}

	item := &model.TopicProgress{
		StudentID:   caller.UserID,
		RoadmapSlug: slug,
		TopicID:     topicID,
		Completed:   *req.Completed,
		UpdatedAt:   s.opts.now(),
	}
	if err := s.repo.Progress.Upsert(ctx, item); err != nil {
		s.logger.Error("保存学习进度失败",
			zap.String("slug", slug),
			zap.String("topic_id", topicID),
			zap.Error(err),
		)
		return nil, err
	}
	return s.Get(ctx, slug, caller)
}
