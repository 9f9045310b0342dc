package service

import (
	"errors"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
)

// ── 表单与评分维度的限制校验 ──

var (
	ErrTooManyFields   = errors.New("表单字段数量超过平台上限")
	ErrTooManyCriteria = errors.New("评分维度数量超过平台上限")
	ErrTooManyRounds   = errors.New("轮次数量超过平台上限")
)

// prepareFields 清洗字段定义并套用平台限制；未设置大小上限的上传字段使用平台默认值
func prepareFields(fields []pipeline.FieldDefinition, limits model.PlatformSetting) ([]pipeline.FieldDefinition, error) {
	if len(fields) > limits.MaxFieldsPerForm {
		return nil, ErrTooManyFields
	}
	out, err := pipeline.NormalizeFields(fields)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = withDefaultFileSize(out[i], limits)
	}
	return out, nil
}

// prepareField 单字段版本，用于逐字段编辑
func prepareField(def pipeline.FieldDefinition, limits model.PlatformSetting) (pipeline.FieldDefinition, error) {
	nf, ferr := def.Normalize()
	if ferr != nil {
		return nf, pipeline.ValidationErrors{*ferr}
	}
	return withDefaultFileSize(nf, limits), nil
}

func withDefaultFileSize(f pipeline.FieldDefinition, limits model.PlatformSetting) pipeline.FieldDefinition {
	if f.FieldType != pipeline.FieldFileUpload {
		return f
	}
	v := pipeline.FieldValidation{}
	if f.Validation != nil {
		v = *f.Validation
	}
	if v.MaxFileSize == nil {
		size := int64(limits.DefaultMaxFileSizeMB) * 1024 * 1024
		v.MaxFileSize = &size
	}
	f.Validation = &v
	return f
}

// prepareCriteria 清洗评分维度并套用平台限制
func prepareCriteria(criteria []pipeline.EvaluationCriterion, limits model.PlatformSetting) ([]pipeline.EvaluationCriterion, error) {
	if len(criteria) > limits.MaxCriteriaPerRound {
		return nil, ErrTooManyCriteria
	}
	return pipeline.NormalizeCriteria(criteria)
}
