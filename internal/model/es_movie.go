package model

// EsMovie 代表存储在 Elasticsearch 电影索引中的文档结构。
// 该索引只服务关键词浏览检索，推荐打分始终由内存中的片库索引完成。
type EsMovie struct {
	MovieID      int      `json:"movie_id"`
	Title        string   `json:"title"`
	Year         int      `json:"year"`
	Genres       []string `json:"genres"`
	Overview     string   `json:"overview"`
	Themes       []string `json:"themes"`
	Tone         string   `json:"tone"`
	ModelVersion string   `json:"model_version"`
}

// MovieSearchDTO 定义了关键词检索返回给前端的结构。
type MovieSearchDTO struct {
	MovieID  int      `json:"movieId"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Genres   []string `json:"genres"`
	Overview string   `json:"overview"`
	Score    float64  `json:"score"`
}
