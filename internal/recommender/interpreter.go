package recommender

import (
	"context"
	"fmt"
	"strings"

	"movie-rec-go/pkg/log"
)

// intentRule 是一条关键词触发规则。任一触发短语出现即命中：
// 可覆盖意图标签、追加偏好类型与主题、覆盖偏好基调。
// 规则按表内顺序求值，后面的规则可以覆盖前面设置的意图。
type intentRule struct {
	triggers []string
	intent   string   // 非空时覆盖意图
	genres   []string // 追加到偏好类型
	themes   []string // 追加到偏好主题
	tone     string   // 非空时覆盖基调
}

// exclusionRule 定义显式否定短语到排除类型的映射。
// 只有 "no X" / "not X" 这类显式否定才产生排除，缺席从不意味着排除。
type exclusionRule struct {
	genre string
	words []string
}

// 意图规则表。romance 先于 comedy 求值，两者同时命中时
// 组合为 "romantic comedy" 复合意图。
var intentRules = []intentRule{
	{
		triggers: []string{"romantic", "romance", "love", "relationship"},
		intent:   "romance",
		genres:   []string{"romance"},
		themes:   []string{"romance"},
		tone:     "romantic",
	},
	{
		triggers: []string{"comedy", "funny", "humor", "laugh"},
		intent:   "comedy",
		genres:   []string{"comedy"},
		themes:   []string{"comedy"},
		tone:     "lighthearted",
	},
	{
		triggers: []string{"horror", "scary", "frightening", "creepy"},
		intent:   "horror",
		genres:   []string{"horror"},
		tone:     "dark",
	},
	{
		triggers: []string{"thriller", "suspense", "psychological"},
		intent:   "thriller",
		genres:   []string{"thriller"},
		themes:   []string{"mystery"},
		tone:     "suspenseful",
	},
	{
		triggers: []string{"sci-fi", "science fiction", "space"},
		intent:   "sci-fi",
		genres:   []string{"sci-fi"},
	},
	{
		triggers: []string{"action", "adventure", "exciting"},
		intent:   "action",
		genres:   []string{"action"},
		themes:   []string{"action"},
	},
	{
		triggers: []string{"drama", "emotional", "thoughtful"},
		intent:   "drama",
		genres:   []string{"drama"},
	},
	// 纯主题规则：不改变意图
	{triggers: []string{"friend", "buddy"}, themes: []string{"friendship"}},
	{triggers: []string{"family", "parent"}, themes: []string{"family"}},
	{triggers: []string{"journey"}, themes: []string{"adventure"}},
	{triggers: []string{"mystery", "secret"}, themes: []string{"mystery"}},
	{triggers: []string{"growing up", "young adult"}, themes: []string{"coming of age"}},
	{triggers: []string{"crime", "detective"}, themes: []string{"crime"}},
	// 纯基调规则：只覆盖基调
	{triggers: []string{"dark", "gritty"}, tone: "dark"},
	{triggers: []string{"light", "fun", "happy"}, tone: "lighthearted"},
	{triggers: []string{"suspenseful", "tense"}, tone: "suspenseful"},
	{triggers: []string{"inspiring", "uplifting"}, tone: "inspirational"},
}

// 复合意图表：前一个意图 + 新意图 → 复合意图名。
var compositeIntents = map[string]string{
	"romance+comedy": "romantic comedy",
	"comedy+romance": "romantic comedy",
}

// 排除规则表。求值独立于偏好规则。
var exclusionRules = []exclusionRule{
	{genre: "horror", words: []string{"horror", "scary", "supernatural"}},
	{genre: "action", words: []string{"action", "superhero"}},
	{genre: "romance", words: []string{"romance", "romantic"}},
	{genre: "comedy", words: []string{"comedy"}},
	{genre: "thriller", words: []string{"thriller"}},
	{genre: "sci-fi", words: []string{"sci-fi"}},
	{genre: "drama", words: []string{"drama"}},
}

// QueryInterpreter 把自由文本查询解析为结构化的 SearchCriteria。
type QueryInterpreter struct {
	extractor     TextFeatureExtractor
	defaultGenres []string
}

// NewQueryInterpreter 创建查询解析器。
// defaultGenres 是未命中任何类型规则时的兜底偏好（保证排序不会退化为均匀分），
// 为空时使用 {drama, comedy}。
func NewQueryInterpreter(extractor TextFeatureExtractor, defaultGenres []string) *QueryInterpreter {
	if len(defaultGenres) == 0 {
		defaultGenres = []string{"drama", "comedy"}
	}
	return &QueryInterpreter{
		extractor:     extractor,
		defaultGenres: defaultGenres,
	}
}

// Interpret 解析一条查询。仅在输入为空/纯空白时返回 ErrInvalidQuery；
// 词表未命中不报错，产出空偏好集与 general 意图。
func (qi *QueryInterpreter) Interpret(ctx context.Context, query string) (*SearchCriteria, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	lower := strings.ToLower(query)
	criteria := &SearchCriteria{
		OriginalQuery: query,
		Intent:        "general",
		PreferredTone: "neutral",
	}

	// 1. 先求值排除规则，并把命中的否定短语从工作文本中剥离，
	//    避免 "no horror" 中的 horror 同时触发偏好规则。
	//    偏好与排除重叠仍然允许（如 "scary but no horror"），排除在打分时胜出。
	working := lower
	for _, ex := range exclusionRules {
		for _, w := range ex.words {
			for _, phrase := range []string{"no " + w, "not " + w} {
				if strings.Contains(working, phrase) {
					criteria.ExcludedGenres = appendUnique(criteria.ExcludedGenres, ex.genre)
					working = strings.ReplaceAll(working, phrase, " ")
				}
			}
		}
	}

	// 2. 按序求值意图规则，后面的规则可覆盖意图；命中复合表时合成复合意图。
	for _, rule := range intentRules {
		if !containsAny(working, rule.triggers...) {
			continue
		}
		if rule.intent != "" {
			if composite, ok := compositeIntents[criteria.Intent+"+"+rule.intent]; ok {
				criteria.Intent = composite
			} else {
				criteria.Intent = rule.intent
			}
		}
		for _, g := range rule.genres {
			criteria.PreferredGenres = appendUnique(criteria.PreferredGenres, g)
		}
		for _, t := range rule.themes {
			criteria.PreferredThemes = appendUnique(criteria.PreferredThemes, t)
		}
		if rule.tone != "" {
			criteria.PreferredTone = rule.tone
		}
	}

	// 3. 无任何类型命中时应用兜底偏好，保证排序有区分度。
	if len(criteria.PreferredGenres) == 0 {
		criteria.PreferredGenres = append([]string(nil), qi.defaultGenres...)
	}

	// 4. 对偏好的规范文本做向量化（从不直接向量化原始查询文本）。
	vec, err := qi.extractor.Embed(ctx, criteria.CanonicalText())
	if err != nil {
		log.Errorf("[QueryInterpreter] 查询向量化失败, query: '%s', error: %v", query, err)
		return nil, fmt.Errorf("生成查询向量失败: %w", err)
	}
	criteria.QueryVector = vec

	return criteria, nil
}

// appendUnique 保持首次出现顺序地追加去重元素。
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
