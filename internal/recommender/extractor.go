package recommender

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
)

// Features 是一部电影（或一条查询）的结构化特征记录。
type Features struct {
	Genres   []string `json:"genres"`
	Themes   []string `json:"themes"`
	Tone     string   `json:"tone"`     // dark/lighthearted/romantic/suspenseful/serious/inspirational/neutral
	Audience string   `json:"audience"` // general/family/teen-adult/adult
}

// DefaultFeatures 返回文本缺失或特征提取失败时使用的兜底特征记录。
// 缺失文本是预期的输入状态而非系统故障，因此不报错。
func DefaultFeatures() Features {
	return Features{
		Genres:   []string{"drama"},
		Themes:   []string{"human experience"},
		Tone:     "neutral",
		Audience: "general",
	}
}

// CanonicalText 返回特征记录的规范文本表示，供向量化使用。
// 同义表述被规则归一后产生相同的规范文本，从而得到相同的向量。
func (f Features) CanonicalText() string {
	return fmt.Sprintf("Genres: %s. Themes: %s. Tone: %s",
		strings.Join(f.Genres, ", "), strings.Join(f.Themes, ", "), f.Tone)
}

// TextFeatureExtractor 是特征提取协作方的能力接口。
// 生产实现调用 LLM 与远程向量服务；规则实现完全确定性，用于离线与测试。
// 两者可互换，核心代码对实现方式保持无感。
type TextFeatureExtractor interface {
	// Extract 从原始文本提取结构化特征记录。
	Extract(ctx context.Context, text string) (Features, error)
	// Embed 将文本（通常是特征的规范文本）映射为定长数值向量。
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RuleExtractor 是 TextFeatureExtractor 的确定性规则实现。
// 特征来自关键词规则，向量来自固定种子的哈希投影，输入相同则输出逐字节相同。
type RuleExtractor struct {
	dimensions int
}

// NewRuleExtractor 创建一个规则特征提取器。dimensions 为产出向量的维度。
func NewRuleExtractor(dimensions int) *RuleExtractor {
	if dimensions <= 0 {
		dimensions = 128
	}
	return &RuleExtractor{dimensions: dimensions}
}

// 关键词到主题的映射，按规范主题名排序遍历保证确定性。
var themeKeywords = map[string][]string{
	"romance":       {"love", "romance", "romantic"},
	"friendship":    {"friend", "buddy"},
	"family":        {"family", "parent"},
	"comedy":        {"comedy", "funny", "humor"},
	"crime":         {"crime", "detective", "murder"},
	"action":        {"action", "adventure", "fight"},
	"mystery":       {"mystery", "secret"},
	"coming of age": {"growing up", "young adult"},
}

var genreKeywords = map[string][]string{
	"action":   {"action", "adventure", "exciting"},
	"comedy":   {"comedy", "funny", "humor"},
	"drama":    {"drama", "emotional"},
	"thriller": {"thriller", "suspense"},
	"sci-fi":   {"sci-fi", "science fiction", "space"},
	"romance":  {"romance", "love", "relationship"},
	"horror":   {"horror", "scary", "frightening"},
}

// Extract 基于关键词规则从文本提取结构化特征。
func (e *RuleExtractor) Extract(_ context.Context, text string) (Features, error) {
	lower := strings.ToLower(text)

	feats := Features{
		Genres: matchKeywordTable(lower, genreKeywords),
		Themes: matchKeywordTable(lower, themeKeywords),
		Tone:   analyzeTone(lower),
	}
	if len(feats.Genres) == 0 {
		feats.Genres = []string{"drama"}
	}
	if len(feats.Themes) == 0 {
		feats.Themes = []string{"human experience"}
	}
	feats.Audience = determineAudience(feats.Genres)
	return feats, nil
}

// Embed 将文本映射为确定性的哈希投影向量并做 L2 归一化。
func (e *RuleExtractor) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float64, e.dimensions)
	tokens := strings.Fields(strings.ToLower(text))
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,:;!?")
		if tok == "" {
			continue
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimensions))
		// 次高位决定符号，避免所有 token 同向叠加
		sign := 1.0
		if (sum>>32)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, e.dimensions)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// matchKeywordTable 返回文本命中的规范标签，按标签名排序保证确定性。
func matchKeywordTable(lower string, table map[string][]string) []string {
	labels := make([]string, 0, len(table))
	for label := range table {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var matched []string
	for _, label := range labels {
		for _, kw := range table[label] {
			if strings.Contains(lower, kw) {
				matched = append(matched, label)
				break
			}
		}
	}
	return matched
}

// analyzeTone 依次检测基调关键词，先命中者生效。
func analyzeTone(lower string) string {
	switch {
	case containsAny(lower, "dark", "grim", "gritty", "murder"):
		return "dark"
	case containsAny(lower, "funny", "comedy", "light"):
		return "lighthearted"
	case containsAny(lower, "romance", "love"):
		return "romantic"
	case containsAny(lower, "suspense", "thriller", "tense"):
		return "suspenseful"
	case containsAny(lower, "inspiring", "uplifting"):
		return "inspirational"
	default:
		return "neutral"
	}
}

// determineAudience 根据类型推断目标受众。
func determineAudience(genres []string) string {
	for _, g := range genres {
		if g == "horror" || g == "thriller" {
			return "adult"
		}
	}
	for _, g := range genres {
		if g == "comedy" || g == "romance" {
			return "teen-adult"
		}
	}
	return "general"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
