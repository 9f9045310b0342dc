package service

import (
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/jwt"
)

// Caller 当前请求的调用方（来自 JWT 声明）
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin 管理员通过所有招聘方归属校验
func (c Caller) IsAdmin() bool { return c.Role == jwt.RoleAdmin }

// CanManage 调用方是否可管理该职位
func (c Caller) CanManage(job *model.Job) bool {
	return c.IsAdmin() || (job != nil && job.RecruiterID == c.UserID)
}

func (c Caller) ptr() *string {
	id := c.UserID
	return &id
}
