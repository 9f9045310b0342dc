// Package ats 基于关键词覆盖率的简历 ATS 启发式评分。
// 仅做本地规则打分，基于模型的评分由外部服务负责。
package ats

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 权重：关键词 70，章节 20，篇幅 10
const (
	keywordWeight = 70.0
	sectionWeight = 20.0
	lengthWeight  = 10.0

	minWords = 200
	maxWords = 1200

	// DefaultKeywordLimit 从职位描述中提取关键词的默认数量
	DefaultKeywordLimit = 20
)

var sectionPatterns = map[string]*regexp.Regexp{
	"education":  regexp.MustCompile(`(?m)^\s*(education|academics?|qualifications?)\b`),
	"experience": regexp.MustCompile(`(?m)^\s*(experience|work experience|employment|internships?)\b`),
	"skills":     regexp.MustCompile(`(?m)^\s*(skills|technical skills|tech stack)\b`),
	"projects":   regexp.MustCompile(`(?m)^\s*(projects|personal projects|academic projects)\b`),
}

var tokenRegex = regexp.MustCompile(`[a-z0-9][a-z0-9+#.\-]*[a-z0-9+#]|[a-z0-9]`)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true, "by": true,
	"for": true, "from": true, "has": true, "have": true, "in": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "our": true, "that": true, "the": true, "to": true, "we": true, "will": true,
	"with": true, "you": true, "your": true, "who": true, "this": true, "can": true, "able": true,
	"work": true, "team": true, "role": true, "job": true, "looking": true, "candidate": true,
	"experience": true, "strong": true, "good": true, "knowledge": true, "skills": true, "years": true,
}

// Result 评分结果
type Result struct {
	Score          int      `json:"score"`
	KeywordScore   float64  `json:"keywordScore"`
	SectionScore   float64  `json:"sectionScore"`
	LengthScore    float64  `json:"lengthScore"`
	WordCount      int      `json:"wordCount"`
	Matched        []string `json:"matched"`
	Missing        []string `json:"missing"`
	SectionsFound  []string `json:"sectionsFound"`
	SectionsAbsent []string `json:"sectionsAbsent"`
}

// Normalize 小写并去除变音符号
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Score 计算简历对一组关键词的 ATS 得分，结果限制在 [0,100]
func Score(resume string, keywords []string) Result {
	text := Normalize(resume)
	tokens := tokenRegex.FindAllString(text, -1)
	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[tok] = true
	}

	var res Result
	res.WordCount = len(strings.Fields(text))
	res.Matched = []string{}
	res.Missing = []string{}

	kws := dedupe(keywords)
	for _, kw := range kws {
		if containsKeyword(text, present, kw) {
			res.Matched = append(res.Matched, kw)
		} else {
			res.Missing = append(res.Missing, kw)
		}
	}
	if len(kws) > 0 {
		res.KeywordScore = keywordWeight * float64(len(res.Matched)) / float64(len(kws))
	}

	names := make([]string, 0, len(sectionPatterns))
	for name := range sectionPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if sectionPatterns[name].MatchString(text) {
			res.SectionsFound = append(res.SectionsFound, name)
		} else {
			res.SectionsAbsent = append(res.SectionsAbsent, name)
		}
	}
	res.SectionScore = sectionWeight * float64(len(res.SectionsFound)) / float64(len(sectionPatterns))

	switch {
	case res.WordCount >= minWords && res.WordCount <= maxWords:
		res.LengthScore = lengthWeight
	case res.WordCount > 0 && res.WordCount < minWords:
		res.LengthScore = lengthWeight * float64(res.WordCount) / minWords
	case res.WordCount > maxWords:
		res.LengthScore = lengthWeight / 2
	}

	total := int(res.KeywordScore + res.SectionScore + res.LengthScore + 0.5)
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	res.Score = total
	return res
}

// ExtractKeywords 从职位文本中按词频提取关键词（去停用词），同频按字母序
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}
	counts := make(map[string]int)
	for _, tok := range tokenRegex.FindAllString(Normalize(text), -1) {
		if len(tok) < 2 || stopWords[tok] || isNumeric(tok) {
			continue
		}
		counts[tok]++
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// ── 辅助函数 ──

func containsKeyword(text string, present map[string]bool, kw string) bool {
	if !strings.ContainsAny(kw, " \t") {
		return present[kw]
	}
	// 多词短语：按整词边界匹配
	re, err := regexp.Compile(`(^|[^a-z0-9])` + regexp.QuoteMeta(kw) + `($|[^a-z0-9])`)
	if err != nil {
		return strings.Contains(text, kw)
	}
	return re.MatchString(text)
}

func dedupe(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.Join(strings.Fields(Normalize(k)), " ")
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
