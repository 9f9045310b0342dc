package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sachinchaurasiya360/InternHack-sub000/config"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/api/handler"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/api/middleware"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/jwt"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	if len(cfg.Server.TrustedProxy) > 0 {
		if err := r.SetTrustedProxies(cfg.Server.TrustedProxy); err != nil {
			logger.Warn("设置可信代理失败", zap.Error(err))
		}
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(int64(cfg.Server.BodyLimitMB) << 20))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	// ── API v1 ──
	v1 := r.Group("/api/v1")

	// 以下路由均需认证
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr))
	if cfg.RateLimit.Enabled {
		authorized.Use(middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window))
	}
	{
		// 职位浏览（任意角色）与创建（招聘方）
		jobs := authorized.Group("/jobs")
		{
			jobs.GET("", h.Job.ListJobs)
			jobs.GET("/:jobId", h.Job.GetJob)
			jobs.POST("", middleware.RoleAuth(jwt.RoleRecruiter), h.Job.CreateJob)
		}

		// 招聘方：职位、表单、轮次与投递管理（归属校验在 Service 层）
		recruiter := authorized.Group("/recruiter")
		recruiter.Use(middleware.RoleAuth(jwt.RoleRecruiter, jwt.RoleAdmin))
		{
			recruiter.GET("/jobs", h.Job.ListMyJobs)
			recruiter.PUT("/jobs/:jobId", h.Job.UpdateJob)

			recruiter.POST("/jobs/:jobId/custom-fields", h.Job.AddField)
			recruiter.PUT("/jobs/:jobId/custom-fields/:fieldId", h.Job.ReplaceField)
			recruiter.DELETE("/jobs/:jobId/custom-fields/:fieldId", h.Job.RemoveField)
			recruiter.PATCH("/jobs/:jobId/custom-fields/:fieldId/move", h.Job.MoveField)

			recruiter.POST("/jobs/:jobId/rounds", h.Round.CreateRound)
			recruiter.GET("/jobs/:jobId/rounds", h.Round.ListRounds)
			recruiter.PUT("/jobs/:jobId/rounds/:roundId", h.Round.UpdateRound)
			recruiter.DELETE("/jobs/:jobId/rounds/:roundId", h.Round.DeleteRound)
			recruiter.PATCH("/jobs/:jobId/rounds/:roundId/move", h.Round.MoveRound)

			recruiter.GET("/jobs/:jobId/applications", h.Application.ListJobApplications)
			recruiter.GET("/jobs/:jobId/applications/export", h.Export.ExportApplicants)

			recruiter.GET("/applications/:id", h.Application.GetApplication)
			recruiter.PATCH("/applications/:id/advance", h.Application.Advance)
			recruiter.PATCH("/applications/:id/status", h.Application.SetStatus)
			recruiter.PUT("/applications/:id/rounds/:roundId/evaluate", h.Submission.Evaluate)
		}

		// 学生：投递、答卷、ATS 与学习进度
		student := authorized.Group("/student")
		student.Use(middleware.RoleAuth(jwt.RoleStudent))
		{
			student.POST("/jobs/:jobId/apply", h.Application.Apply)
			student.GET("/applications", h.Application.ListMyApplications)
			student.GET("/applications/:id", h.Application.GetApplication)
			student.PATCH("/applications/:id/withdraw", h.Application.Withdraw)
			student.POST("/applications/:id/rounds/:roundId/submit", h.Submission.Submit)

			student.POST("/ats/score", h.ATS.Score)

			student.GET("/roadmaps/:slug/progress", h.Progress.GetProgress)
			student.PUT("/roadmaps/:slug/topics/:topicId", h.Progress.SetTopic)
		}

		// 管理员：平台设置与职位下架
		admin := authorized.Group("/admin")
		admin.Use(middleware.RoleAuth(jwt.RoleAdmin))
		{
			admin.GET("/settings", h.Setting.GetSettings)
			admin.PUT("/settings", h.Setting.UpdateSettings)
			admin.PATCH("/jobs/:jobId/status", h.Job.SetJobStatus)
		}
	}

	return r
}

// healthCheck 数据库必须可用；Redis 不可用时仅标记降级
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "db": "ok", "redis": "ok"}
		code := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status["status"] = "unavailable"
				status["db"] = "down"
				code = http.StatusServiceUnavailable
			}
		}

		switch {
		case rdb == nil:
			status["redis"] = "disabled"
		case rdb.Ping(ctx) != nil:
			status["redis"] = "down"
			if code == http.StatusOK {
				status["status"] = "degraded"
			}
		}

		c.JSON(code, status)
	}
}
