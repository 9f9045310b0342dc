package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/model"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/pipeline"
	"github.com/Sachinchaurasiya360/InternHack-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoApplications = errors.New("该职位暂无投递")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 单个 Sheet，每个投递一行；职位表单字段与每轮评分各占若干列
type ExportService interface {
	// ExportApplicants 导出职位的全部投递为 Excel
	ExportApplicants(ctx context.Context, jobID string, caller Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportApplicants 导出投递名单
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Applicants"
//   - 固定列：投递 id / 学生 / 状态 / 当前轮次 / 投递时间 / 简历
//   - 职位表单字段：每个字段一列（按当前字段顺序，已删除字段的答案不导出）
//   - 每轮两列：答卷状态、加权得分
//   - 末列：综合得分
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportApplicants(ctx context.Context, jobID string, caller Caller) (*bytes.Buffer, string, error) {
	// 1. 查询职位并校验归属
	job, err := loadOwnedJob(ctx, s.repo, jobID, caller)
	if err != nil {
		if !errors.Is(err, ErrJobNotFound) && !errors.Is(err, ErrJobForbidden) {
			s.logger.Error("查询职位失败", zap.String("job_id", jobID), zap.Error(err))
		}
		return nil, "", err
	}

	// 2. 查询投递与答卷
	apps, err := s.repo.Application.ListAllByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("查询投递列表失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", err
	}
	if len(apps) == 0 {
		return nil, "", ErrExportNoApplications
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicationID)
	}
	subs, err := s.repo.Submission.ListByApplications(ctx, ids)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", err
	}

	// 3. 构建索引: applicationID → roundID → submission
	subIndex := make(map[string]map[string]*model.RoundSubmission, len(apps))
	for i := range subs {
		sub := &subs[i]
		if subIndex[sub.ApplicationID] == nil {
			subIndex[sub.ApplicationID] = make(map[string]*model.RoundSubmission)
		}
		subIndex[sub.ApplicationID][sub.RoundID] = sub
	}
	roundNames := make(map[string]string, len(job.Rounds))
	for _, r := range job.Rounds {
		roundNames[r.RoundID] = r.Name
	}
	fields := job.Fields()

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applicants"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Application ID", "Student ID", "Status", "Current Round", "Applied At", "Resume"}
	for _, fd := range fields {
		headers = append(headers, fd.Label)
	}
	for _, r := range job.Rounds {
		headers = append(headers, r.Name+" Status", r.Name+" Score %")
	}
	headers = append(headers, "Overall %")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(sheetName, "A", "B", 38)
	f.SetColWidth(sheetName, "C", colName(len(headers)-1), 18)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	// 数据行
	row := 2
	for i := range apps {
		app := &apps[i]
		values := []interface{}{
			app.ApplicationID,
			app.StudentID,
			app.Status,
			roundNames[app.Pointer()],
			app.CreatedAt.UTC().Format("2006-01-02 15:04"),
			app.ResumeURL,
		}
		for _, fd := range fields {
			values = append(values, answerText(app.CustomFieldAnswers[fd.ID]))
		}

		var summaries []pipeline.Summary
		for _, r := range job.Rounds {
			sub := subIndex[app.ApplicationID][r.RoundID]
			if sub == nil {
				values = append(values, "-", "-")
				continue
			}
			score := interface{}("-")
			if sub.EvaluatedAt != nil && len(sub.CriteriaSnapshot) > 0 {
				sum := pipeline.Summarize(sub.CriteriaSnapshot, sub.EvaluationScores.Data())
				summaries = append(summaries, sum)
				score = sum.WeightedPercent
			}
			values = append(values, sub.Status, score)
		}
		if overall, n := pipeline.AggregatePercent(summaries); n > 0 {
			values = append(values, overall)
		} else {
			values = append(values, "-")
		}

		f.SetSheetRow(sheetName, cell("A", row), &values)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("投递名单已导出",
		zap.String("job_id", jobID),
		zap.Int("rows", len(apps)),
		zap.String("operator", caller.UserID),
	)
	filename := fmt.Sprintf("applicants_%s.xlsx", safeFilename(job.Title))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// answerText 将答案渲染为单元格文本
func answerText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, answerText(p))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		// 文件答案
		if url, ok := val["url"].(string); ok {
			return url
		}
		return fmt.Sprint(val)
	default:
		return fmt.Sprint(val)
	}
}

func safeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return "job"
	}
	return s
}
