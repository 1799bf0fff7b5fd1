// Package model 定义了与数据库表对应的 Go 结构体。
package model

import (
	"encoding/json"
	"time"
)

// Movie 对应于数据库中的 'movies' 表。
// 每行是一部增强后的电影：原始元数据、LLM 结构化特征以及两套向量。
type Movie struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceID  int    `gorm:"uniqueIndex;not null" json:"sourceId"` // 数据集中的 movieId
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	Year      int    `gorm:"not null;default:0" json:"year"`
	RawGenres string `gorm:"type:varchar(255)" json:"rawGenres"` // 数据集原始类型标签，'|' 分隔
	Overview  string `gorm:"type:text" json:"overview"`

	// LLM 提取的结构化特征，集合类字段以 JSON 数组存储
	Genres   string `gorm:"type:varchar(512)" json:"genres"`
	Themes   string `gorm:"type:varchar(512)" json:"themes"`
	Tone     string `gorm:"type:varchar(32)" json:"tone"`
	Audience string `gorm:"type:varchar(32)" json:"audience"`

	// 语义向量与可选的传统协同过滤向量，JSON 数组存储
	SemanticVector    string `gorm:"type:mediumtext" json:"-"`
	TraditionalVector string `gorm:"type:mediumtext" json:"-"`
	ModelVersion      string `gorm:"type:varchar(50)" json:"modelVersion"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Movie) TableName() string {
	return "movies"
}

// GenreList 将 JSON 存储的结构化类型反序列化为切片。
func (m *Movie) GenreList() []string {
	return decodeStringList(m.Genres)
}

// ThemeList 将 JSON 存储的主题反序列化为切片。
func (m *Movie) ThemeList() []string {
	return decodeStringList(m.Themes)
}

// SemanticEmbedding 将 JSON 存储的语义向量反序列化为 []float32。
func (m *Movie) SemanticEmbedding() []float32 {
	return decodeVector(m.SemanticVector)
}

// TraditionalEmbedding 将 JSON 存储的传统向量反序列化为 []float32，缺失时返回 nil。
func (m *Movie) TraditionalEmbedding() []float32 {
	return decodeVector(m.TraditionalVector)
}

func decodeStringList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func decodeVector(s string) []float32 {
	if s == "" {
		return nil
	}
	var out []float32
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// EncodeStringList 将切片序列化为 JSON 字符串，供写库时使用。
func EncodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

// EncodeVector 将向量序列化为 JSON 字符串，nil 向量返回空串。
func EncodeVector(vec []float32) string {
	if len(vec) == 0 {
		return ""
	}
	b, _ := json.Marshal(vec)
	return string(b)
}
