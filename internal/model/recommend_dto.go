package model

// SearchCriteriaDTO 是返回给前端的查询解析结果。
type SearchCriteriaDTO struct {
	OriginalQuery   string   `json:"originalQuery"`
	Intent          string   `json:"intent"`
	PreferredGenres []string `json:"preferredGenres"`
	ExcludedGenres  []string `json:"excludedGenres"`
	PreferredThemes []string `json:"preferredThemes"`
	PreferredTone   string   `json:"preferredTone"`
}

// RecommendedMovieDTO 是单条推荐结果。
type RecommendedMovieDTO struct {
	Rank        int      `json:"rank"`
	MovieID     int      `json:"movieId"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Score       float64  `json:"score"`
	Genres      []string `json:"genres"`
	Themes      []string `json:"themes"`
	Tone        string   `json:"tone"`
	Explanation string   `json:"explanation"`
}

// RecommendationResponseDTO 是一次推荐请求的完整响应体。
type RecommendationResponseDTO struct {
	Criteria SearchCriteriaDTO     `json:"criteria"`
	Results  []RecommendedMovieDTO `json:"results"`
}
