// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// DatasetImport 对应于数据库中的 'dataset_imports' 表。
// 它记录每次片库数据集 CSV 的导入及其增强处理状态。
type DatasetImport struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName   string     `gorm:"type:varchar(255);not null" json:"fileName"`
	ObjectName string     `gorm:"type:varchar(255);not null" json:"objectName"` // MinIO 中的对象名
	TotalSize  int64      `gorm:"not null" json:"totalSize"`
	Status     int        `gorm:"type:tinyint;not null;default:0" json:"status"` // 0: processing, 1: completed, 2: failed
	MovieCount int        `gorm:"not null;default:0" json:"movieCount"`
	UserID     uint       `gorm:"not null" json:"userId"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	ProcessedAt *time.Time `gorm:"default:null" json:"processedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (DatasetImport) TableName() string {
	return "dataset_imports"
}
