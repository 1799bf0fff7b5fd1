package recommender

import (
	"fmt"
	"math/rand"
	"strings"
)

// fallbackExplanation 在没有任何匹配属性时使用。
const fallbackExplanation = "High-quality content that aligns with general preferences"

// 解释句式模板，%s 处填入匹配属性列表。
var explanationTemplates = []string{
	"Recommended because it features %s",
	"A great match with %s",
	"You might enjoy this for its %s",
	"Picked for you thanks to %s",
}

// ExplanationGenerator 为排序结果生成可读的推荐理由。
// 匹配属性集合完全由特征与查询条件决定（确定性），
// 句式从模板中随机挑选，仅影响措辞不影响内容。
type ExplanationGenerator struct {
	rng *rand.Rand
}

// NewExplanationGenerator 创建解释生成器。seed 固定时措辞序列可复现。
func NewExplanationGenerator(seed int64) *ExplanationGenerator {
	return &ExplanationGenerator{rng: rand.New(rand.NewSource(seed))}
}

// MatchedAttributes 计算条目特征与查询条件的匹配属性列表。
// 结果顺序固定：类型、主题、基调，各自保持条目特征内的出现顺序。
func MatchedAttributes(feats Features, criteria *SearchCriteria) []string {
	var matched []string
	for _, g := range feats.Genres {
		if containsString(criteria.PreferredGenres, g) {
			matched = append(matched, g+" elements")
		}
	}
	for _, t := range feats.Themes {
		if containsString(criteria.PreferredThemes, t) {
			matched = append(matched, t+" themes")
		}
	}
	if criteria.PreferredTone != "" && criteria.PreferredTone != "neutral" &&
		feats.Tone == criteria.PreferredTone {
		matched = append(matched, feats.Tone+" atmosphere")
	}
	return matched
}

// Explain 为单个条目生成推荐理由。无任何匹配属性时返回通用兜底语。
func (g *ExplanationGenerator) Explain(feats Features, criteria *SearchCriteria) string {
	matched := MatchedAttributes(feats, criteria)
	if len(matched) == 0 {
		return fallbackExplanation
	}
	tmpl := explanationTemplates[g.rng.Intn(len(explanationTemplates))]
	return fmt.Sprintf(tmpl, joinNatural(matched))
}

// joinNatural 用自然语言连接词拼接属性列表（"a, b and c"）。
func joinNatural(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
