package model

import "time"

// Rating 对应于数据库中的 'ratings' 表。
// 记录用户对电影的评分，是传统协同过滤路径（按用户 ID 推荐）的数据来源。
type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	MovieID   int       `gorm:"index;not null" json:"movieId"` // 数据集中的 movieId
	Score     float64   `gorm:"not null" json:"score"`         // 0.5 - 5.0
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Rating) TableName() string {
	return "ratings"
}
