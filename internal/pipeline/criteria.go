package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// EvaluationCriterion 轮次评分维度
type EvaluationCriterion struct {
	ID        string   `json:"id"`
	Criterion string   `json:"criterion"`
	MaxScore  float64  `json:"maxScore"`
	Weight    *float64 `json:"weight,omitempty"`
}

// EffectiveWeight 未设置权重时按 1 计
func (c EvaluationCriterion) EffectiveWeight() float64 {
	if c.Weight == nil {
		return 1
	}
	return *c.Weight
}

// NormalizeCriteria 清洗评分维度：生成缺失 id，校验名称、满分与权重
func NormalizeCriteria(criteria []EvaluationCriterion) ([]EvaluationCriterion, error) {
	var errs ValidationErrors
	out := make([]EvaluationCriterion, 0, len(criteria))
	seen := make(map[string]bool, len(criteria))
	for _, c := range criteria {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.Criterion = strings.TrimSpace(c.Criterion)
		switch {
		case c.Criterion == "":
			errs = append(errs, *newFieldError(c.ID, CodeInvalidDefinition, "评分维度名称不能为空"))
			continue
		case !(c.MaxScore > 0) || math.IsInf(c.MaxScore, 0):
			errs = append(errs, *newFieldError(c.ID, CodeInvalidDefinition, "满分必须大于 0"))
			continue
		case c.Weight != nil && !(*c.Weight > 0):
			errs = append(errs, *newFieldError(c.ID, CodeInvalidDefinition, "权重必须大于 0"))
			continue
		case seen[c.ID]:
			errs = append(errs, *newFieldError(c.ID, CodeInvalidDefinition, "评分维度 id 重复"))
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Score 单个维度的评分
type Score struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

// ClampScore 将分数限制在 [0, max]
func ClampScore(score, max float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}

// ApplyScores 以轮次当前的评分维度校验评分：
// 未知维度 id 拒绝写入，分数截断到 [0, maxScore]。
func ApplyScores(criteria []EvaluationCriterion, scores map[string]Score) (map[string]Score, error) {
	byID := make(map[string]EvaluationCriterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs ValidationErrors
	out := make(map[string]Score, len(scores))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			errs = append(errs, *newFieldError(id, CodeUnknownCriterion, "轮次中不存在该评分维度"))
			continue
		}
		s := scores[id]
		out[id] = Score{
			Score:   ClampScore(s.Score, c.MaxScore),
			Comment: strings.TrimSpace(s.Comment),
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Summary 单轮评分汇总
type Summary struct {
	Total           float64 `json:"total"`
	Max             float64 `json:"max"`
	WeightedPercent float64 `json:"weightedPercent"`
	Scored          int     `json:"scored"`
	Criteria        int     `json:"criteria"`
}

// Summarize 计算原始总分与加权百分比（未评分维度按 0 分计入）
func Summarize(criteria []EvaluationCriterion, scores map[string]Score) Summary {
	var sum Summary
	var weighted, weights float64
	sum.Criteria = len(criteria)
	for _, c := range criteria {
		sum.Max += c.MaxScore
		w := c.EffectiveWeight()
		weights += w
		s, ok := scores[c.ID]
		if !ok {
			continue
		}
		sum.Scored++
		v := ClampScore(s.Score, c.MaxScore)
		sum.Total += v
		weighted += w * v / c.MaxScore
	}
	if weights > 0 {
		sum.WeightedPercent = round2(weighted / weights * 100)
	}
	return sum
}

// AggregatePercent 投递维度的综合得分：已评分轮次加权百分比的平均值
func AggregatePercent(summaries []Summary) (float64, int) {
	var total float64
	var n int
	for _, s := range summaries {
		if s.Scored == 0 {
			continue
		}
		total += s.WeightedPercent
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return round2(total / float64(n)), n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
