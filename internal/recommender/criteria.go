package recommender

import (
	"fmt"
	"strings"
)

// SearchCriteria 是一次查询解析出的结构化检索意图。
// 生命周期仅限单次请求，响应产生后即被丢弃，不跨查询缓存。
type SearchCriteria struct {
	OriginalQuery   string   `json:"originalQuery"`
	Intent          string   `json:"intent"`
	PreferredGenres []string `json:"preferredGenres"`
	ExcludedGenres  []string `json:"excludedGenres"`
	PreferredThemes []string `json:"preferredThemes"`
	PreferredTone   string   `json:"preferredTone"`

	// QueryVector 由结构化偏好的规范文本向量化而来，而非原始查询文本。
	QueryVector []float32 `json:"-"`
}

// CanonicalText 返回偏好的规范文本表示，是查询向量化的唯一输入。
// 不直接向量化原始查询文本：同义词经规则归一后会产生相同向量。
func (c *SearchCriteria) CanonicalText() string {
	return fmt.Sprintf("Genres: %s. Themes: %s. Tone: %s",
		strings.Join(c.PreferredGenres, ", "),
		strings.Join(c.PreferredThemes, ", "),
		c.PreferredTone)
}
