package pipeline

import (
	"strings"

	"github.com/google/uuid"
)

// FieldType 自定义字段类型
type FieldType string

const (
	FieldText        FieldType = "TEXT"
	FieldTextarea    FieldType = "TEXTAREA"
	FieldDropdown    FieldType = "DROPDOWN"
	FieldMultiSelect FieldType = "MULTI_SELECT"
	FieldFileUpload  FieldType = "FILE_UPLOAD"
	FieldBoolean     FieldType = "BOOLEAN"
	FieldNumeric     FieldType = "NUMERIC"
	FieldDate        FieldType = "DATE"
	FieldEmail       FieldType = "EMAIL"
	FieldURL         FieldType = "URL"
)

// IsValid 检查字段类型是否为已知枚举值
func (t FieldType) IsValid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldDropdown, FieldMultiSelect, FieldFileUpload,
		FieldBoolean, FieldNumeric, FieldDate, FieldEmail, FieldURL:
		return true
	default:
		return false
	}
}

// HasOptions 该类型是否依赖 options 列表
func (t FieldType) HasOptions() bool {
	return t == FieldDropdown || t == FieldMultiSelect
}

// FieldValidation 字段校验边界（按类型选择性生效）
type FieldValidation struct {
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	MaxFileSize  *int64   `json:"maxFileSize,omitempty"` // 字节
	AllowedTypes []string `json:"allowedTypes,omitempty"`
}

// FieldDefinition 招聘方定义的表单字段
type FieldDefinition struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	FieldType   FieldType        `json:"fieldType"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []string         `json:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// Renderable 字段能否作为可选项渲染：DROPDOWN/MULTI_SELECT 必须至少有一个选项
func (f FieldDefinition) Renderable() bool {
	if !f.FieldType.IsValid() {
		return false
	}
	if f.FieldType.HasOptions() {
		return len(f.Options) > 0
	}
	return true
}

// HasOption 判断 value 是否在选项列表中
func (f FieldDefinition) HasOption(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}

// Normalize 清洗字段定义并校验其自身合法性。
// id 为空时生成新 uuid；选项去首尾空白，空白与重复选项视为错误。
func (f FieldDefinition) Normalize() (FieldDefinition, *FieldError) {
	out := f
	out.ID = strings.TrimSpace(f.ID)
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.Label = strings.TrimSpace(f.Label)
	out.Placeholder = strings.TrimSpace(f.Placeholder)

	if out.Label == "" {
		return out, newFieldError(out.ID, CodeInvalidDefinition, "字段名称不能为空")
	}
	if !out.FieldType.IsValid() {
		return out, newFieldError(out.ID, CodeInvalidDefinition, "未知的字段类型: "+string(f.FieldType))
	}

	if out.FieldType.HasOptions() {
		opts := make([]string, 0, len(f.Options))
		seen := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return out, newFieldError(out.ID, CodeInvalidDefinition, "选项不能为空白")
			}
			if seen[o] {
				return out, newFieldError(out.ID, CodeInvalidDefinition, "选项重复: "+o)
			}
			seen[o] = true
			opts = append(opts, o)
		}
		if len(opts) == 0 {
			return out, newFieldError(out.ID, CodeInvalidDefinition, "下拉/多选字段至少需要一个选项")
		}
		out.Options = opts
	} else {
		out.Options = nil
	}

	if v := out.Validation; v != nil {
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return out, newFieldError(out.ID, CodeInvalidDefinition, "validation.min 不能大于 validation.max")
		}
		if v.MaxLength != nil && *v.MaxLength <= 0 {
			return out, newFieldError(out.ID, CodeInvalidDefinition, "validation.maxLength 必须大于 0")
		}
		if v.MaxFileSize != nil && *v.MaxFileSize <= 0 {
			return out, newFieldError(out.ID, CodeInvalidDefinition, "validation.maxFileSize 必须大于 0")
		}
		types := make([]string, 0, len(v.AllowedTypes))
		for _, t := range v.AllowedTypes {
			t = normalizeExt(t)
			if t != "" {
				types = append(types, t)
			}
		}
		nv := *v
		nv.AllowedTypes = types
		out.Validation = &nv
	}

	return out, nil
}

// NormalizeFields 批量清洗字段定义，并保证 id 在表单内唯一
func NormalizeFields(fields []FieldDefinition) ([]FieldDefinition, error) {
	var errs ValidationErrors
	out := make([]FieldDefinition, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		nf, ferr := f.Normalize()
		if ferr != nil {
			errs = append(errs, *ferr)
			continue
		}
		if seen[nf.ID] {
			errs = append(errs, *newFieldError(nf.ID, CodeInvalidDefinition, "字段 id 重复"))
			continue
		}
		seen[nf.ID] = true
		out = append(out, nf)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// AddOption 向下拉/多选字段追加选项（去重）
func AddOption(f FieldDefinition, option string) FieldDefinition {
	option = strings.TrimSpace(option)
	if option == "" || f.HasOption(option) {
		return f
	}
	out := f
	out.Options = append(append([]string(nil), f.Options...), option)
	return out
}

// RemoveOption 删除选项；删除最后一个选项后字段不可渲染，直到重新添加
func RemoveOption(f FieldDefinition, option string) FieldDefinition {
	out := f
	out.Options = make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		if o != option {
			out.Options = append(out.Options, o)
		}
	}
	return out
}

func normalizeExt(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	return strings.TrimPrefix(t, ".")
}
