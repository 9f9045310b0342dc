package pipeline

import (
	"errors"
	"strings"
)

// ── 状态机错误 ──

var (
	ErrAlreadyApplied    = errors.New("已投递该职位")
	ErrNotApplied        = errors.New("投递记录不存在")
	ErrTerminalStatus    = errors.New("投递已处于终态，不可再变更")
	ErrInvalidTransition = errors.New("不允许的状态流转")
	ErrUnknownStatus     = errors.New("未知的投递状态")
	ErrNoNextRound       = errors.New("已是最后一轮，无法继续推进")
	ErrRoundNotInJob     = errors.New("轮次不属于该职位")
	ErrRoundNotCurrent   = errors.New("只能提交当前所在轮次")
	ErrRoundsIncomplete  = errors.New("仍有轮次未完成，不能录用")
	ErrIndexOutOfRange   = errors.New("下标越界")
	ErrUnknownDirection  = errors.New("移动方向无效")
)

// ── 字段级校验错误 ──

// 字段错误码
const (
	CodeRequired          = "required"
	CodeTypeMismatch      = "type_mismatch"
	CodeOutOfRange        = "out_of_range"
	CodeTooLong           = "too_long"
	CodeNotAnOption       = "not_an_option"
	CodeDuplicateOption   = "duplicate_option"
	CodeFileType          = "file_type"
	CodeFileTooLarge      = "file_too_large"
	CodeInvalidFormat     = "invalid_format"
	CodeUnknownField      = "unknown_field"
	CodeUnknownCriterion  = "unknown_criterion"
	CodeInvalidDefinition = "invalid_definition"
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newFieldError(field, code, message string) *FieldError {
	return &FieldError{Field: field, Code: code, Message: message}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors 一次校验中收集到的全部字段错误
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for i := range v {
		parts = append(parts, v[i].Error())
	}
	return strings.Join(parts, "; ")
}

// AsValidationErrors 从错误链中提取 ValidationErrors
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
