// Package tasks 定义了通过 Kafka 传递的任务结构。
package tasks

// CatalogEnhanceTask 描述一次片库数据集的增强处理任务。
// 消费者从 MinIO 下载数据集 CSV，逐条提取结构化特征并生成向量。
type CatalogEnhanceTask struct {
	ImportID   uint   `json:"import_id"`
	ObjectName string `json:"object_name"`
	FileName   string `json:"file_name"`
	UserID     uint   `json:"user_id"`
}
