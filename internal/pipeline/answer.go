package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

// FileRef 文件上传字段的答案：只保存外部存储返回的地址与元信息
type FileRef struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Answer 按字段类型区分的已校验答案（tagged union，仅与 Type 对应的成员有效）
type Answer struct {
	Type   FieldType
	Text   string   // TEXT, TEXTAREA, DROPDOWN, EMAIL, URL
	Texts  []string // MULTI_SELECT
	Number float64  // NUMERIC
	Bool   bool     // BOOLEAN
	Date   time.Time
	File   *FileRef
}

// Value 返回可写入 JSONB 的规范化值
func (a Answer) Value() any {
	switch a.Type {
	case FieldMultiSelect:
		return append([]string(nil), a.Texts...)
	case FieldNumeric:
		return a.Number
	case FieldBoolean:
		return a.Bool
	case FieldDate:
		return a.Date.Format(dateLayout)
	case FieldFileUpload:
		if a.File == nil {
			return nil
		}
		return map[string]any{"url": a.File.URL, "name": a.File.Name, "size": a.File.Size}
	default:
		return a.Text
	}
}

// ValidateAnswer 按字段定义校验单个原始答案。
// 返回 nil Answer 且无错误表示选填字段未作答。
func ValidateAnswer(def FieldDefinition, raw any) (*Answer, *FieldError) {
	if isEmpty(raw) {
		if def.Required {
			return nil, newFieldError(def.ID, CodeRequired, def.Label+" 为必填项")
		}
		return nil, nil
	}

	v := def.Validation
	switch def.FieldType {
	case FieldText, FieldTextarea:
		s, ok := raw.(string)
		if !ok {
			return nil, typeMismatch(def, "字符串")
		}
		if v != nil && v.MaxLength != nil && utf8.RuneCountInString(s) > *v.MaxLength {
			return nil, newFieldError(def.ID, CodeTooLong, fmt.Sprintf("%s 长度不能超过 %d", def.Label, *v.MaxLength))
		}
		return &Answer{Type: def.FieldType, Text: s}, nil

	case FieldDropdown:
		s, ok := raw.(string)
		if !ok {
			return nil, typeMismatch(def, "字符串")
		}
		if !def.HasOption(s) {
			return nil, newFieldError(def.ID, CodeNotAnOption, fmt.Sprintf("%q 不是 %s 的可选项", s, def.Label))
		}
		return &Answer{Type: def.FieldType, Text: s}, nil

	case FieldMultiSelect:
		items, ok := toStrings(raw)
		if !ok {
			return nil, typeMismatch(def, "字符串数组")
		}
		seen := make(map[string]bool, len(items))
		for _, s := range items {
			if !def.HasOption(s) {
				return nil, newFieldError(def.ID, CodeNotAnOption, fmt.Sprintf("%q 不是 %s 的可选项", s, def.Label))
			}
			if seen[s] {
				return nil, newFieldError(def.ID, CodeDuplicateOption, fmt.Sprintf("%s 选项重复: %s", def.Label, s))
			}
			seen[s] = true
		}
		return &Answer{Type: def.FieldType, Texts: items}, nil

	case FieldFileUpload:
		ref, ok := toFileRef(raw)
		if !ok {
			return nil, typeMismatch(def, "文件地址")
		}
		if v != nil && len(v.AllowedTypes) > 0 && !extAllowed(ref, v.AllowedTypes) {
			return nil, newFieldError(def.ID, CodeFileType, fmt.Sprintf("%s 仅支持 %s 格式", def.Label, strings.Join(v.AllowedTypes, "/")))
		}
		if v != nil && v.MaxFileSize != nil && ref.Size > *v.MaxFileSize {
			return nil, newFieldError(def.ID, CodeFileTooLarge, fmt.Sprintf("%s 文件大小超过限制", def.Label))
		}
		return &Answer{Type: def.FieldType, File: &ref}, nil

	case FieldBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, typeMismatch(def, "布尔值")
		}
		return &Answer{Type: def.FieldType, Bool: b}, nil

	case FieldNumeric:
		n, ok := toNumber(raw)
		if !ok {
			return nil, typeMismatch(def, "数字")
		}
		if v != nil && v.Min != nil && n < *v.Min {
			return nil, newFieldError(def.ID, CodeOutOfRange, fmt.Sprintf("%s 不能小于 %v", def.Label, *v.Min))
		}
		if v != nil && v.Max != nil && n > *v.Max {
			return nil, newFieldError(def.ID, CodeOutOfRange, fmt.Sprintf("%s 不能大于 %v", def.Label, *v.Max))
		}
		return &Answer{Type: def.FieldType, Number: n}, nil

	case FieldDate:
		s, ok := raw.(string)
		if !ok {
			return nil, typeMismatch(def, "日期字符串")
		}
		d, err := parseDate(s)
		if err != nil {
			return nil, newFieldError(def.ID, CodeInvalidFormat, def.Label+" 日期格式应为 YYYY-MM-DD")
		}
		return &Answer{Type: def.FieldType, Date: d}, nil

	case FieldEmail:
		s, ok := raw.(string)
		if !ok {
			return nil, typeMismatch(def, "字符串")
		}
		addr, err := mail.ParseAddress(strings.TrimSpace(s))
		if err != nil || addr.Address != strings.TrimSpace(s) {
			return nil, newFieldError(def.ID, CodeInvalidFormat, def.Label+" 邮箱格式无效")
		}
		return &Answer{Type: def.FieldType, Text: addr.Address}, nil

	case FieldURL:
		s, ok := raw.(string)
		if !ok {
			return nil, typeMismatch(def, "字符串")
		}
		if !isHTTPURL(strings.TrimSpace(s)) {
			return nil, newFieldError(def.ID, CodeInvalidFormat, def.Label+" 链接格式无效")
		}
		return &Answer{Type: def.FieldType, Text: strings.TrimSpace(s)}, nil
	}

	return nil, newFieldError(def.ID, CodeInvalidDefinition, "未知的字段类型: "+string(def.FieldType))
}

// ValidateAnswers 按表单字段列表校验整份答案。
// 返回规范化后的答案；存在错误时返回 ValidationErrors，其中包含未在表单中定义的 key。
func ValidateAnswers(fields []FieldDefinition, answers map[string]any) (map[string]any, error) {
	var errs ValidationErrors
	out := make(map[string]any, len(fields))
	known := make(map[string]bool, len(fields))

	for _, def := range fields {
		known[def.ID] = true
		a, ferr := ValidateAnswer(def, answers[def.ID])
		if ferr != nil {
			errs = append(errs, *ferr)
			continue
		}
		if a != nil {
			out[def.ID] = a.Value()
		}
	}

	var unknown []string
	for k := range answers {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, *newFieldError(k, CodeUnknownField, "表单中不存在该字段"))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// ── 辅助函数 ──

func typeMismatch(def FieldDefinition, want string) *FieldError {
	return newFieldError(def.ID, CodeTypeMismatch, fmt.Sprintf("%s 应为%s", def.Label, want))
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func toStrings(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toFileRef(raw any) (FileRef, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		return FileRef{URL: s, Name: path.Base(stripQuery(s))}, s != ""
	case map[string]any:
		u, _ := v["url"].(string)
		u = strings.TrimSpace(u)
		if u == "" {
			return FileRef{}, false
		}
		ref := FileRef{URL: u}
		if name, ok := v["name"].(string); ok {
			ref.Name = strings.TrimSpace(name)
		}
		if ref.Name == "" {
			ref.Name = path.Base(stripQuery(u))
		}
		if raw, present := v["size"]; present && raw != nil {
			size, ok := toNumber(raw)
			// 超出 int64 的大小转换后会溢出为负数
			if !ok || size < 0 || size >= math.MaxInt64 {
				return FileRef{}, false
			}
			ref.Size = int64(size)
		}
		return ref, true
	}
	return FileRef{}, false
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

func extAllowed(ref FileRef, allowed []string) bool {
	ext := normalizeExt(path.Ext(ref.Name))
	if ext == "" {
		ext = normalizeExt(path.Ext(stripQuery(ref.URL)))
	}
	for _, a := range allowed {
		if normalizeExt(a) == ext {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
