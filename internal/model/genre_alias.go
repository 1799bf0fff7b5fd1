// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// GenreAlias 对应于数据库中的 'genre_aliases' 表。
// 它把数据集和提取结果中的类型变体（如 "scifi"、"sci fi"）归一到规范类型名，
// 保证查询解析与片库特征使用同一套类型词表。
type GenreAlias struct {
	// Alias 是类型变体写法，作为主键。
	Alias string `gorm:"type:varchar(64);primaryKey" json:"alias"`
	// Canonical 是规范类型名。
	Canonical string `gorm:"type:varchar(64);not null" json:"canonical"`
	// Description 说明该别名的来源。
	Description string `gorm:"type:varchar(255)" json:"description"`
	// CreatedBy 记录创建此别名的管理员 ID。
	CreatedBy uint      `gorm:"not null" json:"createdBy"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (GenreAlias) TableName() string {
	return "genre_aliases"
}
