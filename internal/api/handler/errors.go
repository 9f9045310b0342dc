package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/service"
	pkgerrors "github.com/Sachinchaurasiya360/InternHack-sub000/pkg/errors"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/redis"
	"github.com/Sachinchaurasiya360/InternHack-sub000/pkg/response"
)

// badRequest 请求体或查询参数绑定失败
func badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10008, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, 400, 10001, "参数校验失败", err.Error())
}

// bindOptionalJSON 绑定可省略的请求体，空请求体视为零值
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// handleCommonError 处理跨模块的通用错误，已处理时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	if verrs, ok := pipeline.AsValidationErrors(err); ok {
		response.ErrorWithDetails(c, 400, 10001, "参数校验失败", verrs)
		return true
	}
	switch {
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10005, "数据已被修改，请刷新后重试")
	case errors.Is(err, redis.ErrLockHeld):
		response.Conflict(c, 10006, "操作处理中，请勿重复提交")
	case errors.Is(err, pkgerrors.ErrDuplicate):
		response.Conflict(c, 10007, "记录已存在")
	default:
		return false
	}
	return true
}

// handlePipelineError 处理投递状态机错误，已处理时返回 true
func handlePipelineError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, pipeline.ErrAlreadyApplied):
		response.Conflict(c, 22003, "已投递该职位")
	case errors.Is(err, pipeline.ErrTerminalStatus):
		response.Conflict(c, 22004, "投递已处于终态，不可再变更")
	case errors.Is(err, pipeline.ErrInvalidTransition):
		response.Conflict(c, 22005, "不允许的状态流转")
	case errors.Is(err, pipeline.ErrUnknownStatus):
		response.BadRequest(c, 22006, "未知的投递状态")
	case errors.Is(err, pipeline.ErrNoNextRound):
		response.Conflict(c, 22007, "已是最后一轮，无法继续推进")
	case errors.Is(err, pipeline.ErrRoundsIncomplete):
		response.Conflict(c, 22008, "仍有轮次未完成，不能录用")
	case errors.Is(err, pipeline.ErrNotApplied):
		response.NotFound(c, 22009, "投递记录不存在")
	case errors.Is(err, pipeline.ErrRoundNotInJob):
		response.NotFound(c, 23001, "轮次不属于该职位")
	case errors.Is(err, pipeline.ErrRoundNotCurrent):
		response.Conflict(c, 23002, "只能提交当前所在轮次")
	case errors.Is(err, pipeline.ErrUnknownDirection):
		response.BadRequest(c, 10001, "移动方向无效")
	default:
		return false
	}
	return true
}

// handleJobScopeError 处理职位及其表单、轮次配置相关错误，已处理时返回 true
func handleJobScopeError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		response.NotFound(c, 20001, "职位不存在")
	case errors.Is(err, service.ErrJobForbidden):
		response.Forbidden(c, 20002, "无权操作该职位")
	case errors.Is(err, service.ErrJobNotOpen):
		response.BadRequest(c, 20003, "职位未开放投递")
	case errors.Is(err, service.ErrFieldNotFound):
		response.NotFound(c, 20004, "表单字段不存在")
	case errors.Is(err, service.ErrFieldExists):
		response.Conflict(c, 20005, "表单字段 ID 已存在")
	case errors.Is(err, service.ErrTooManyFields):
		response.BadRequest(c, 20006, "表单字段数量超出平台限制")
	case errors.Is(err, service.ErrTooManyCriteria):
		response.BadRequest(c, 20007, "评分维度数量超出平台限制")
	case errors.Is(err, service.ErrTooManyRounds):
		response.BadRequest(c, 20008, "轮次数量超出平台限制")
	case errors.Is(err, service.ErrRoundNotFound):
		response.NotFound(c, 21001, "轮次不存在")
	case errors.Is(err, service.ErrRoundInUse):
		response.Conflict(c, 21002, "轮次已有投递或答卷，不能删除")
	default:
		return false
	}
	return true
}

// handleApplicationScopeError 处理投递及答卷相关错误，已处理时返回 true
func handleApplicationScopeError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 22001, "投递记录不存在")
	case errors.Is(err, service.ErrApplicationForbidden):
		response.Forbidden(c, 22002, "无权操作该投递")
	default:
		return false
	}
	return true
}
