// Package model 包含了应用的数据模型定义。
package model

import "time"

// QueryRecord 代表存储在 Redis 中的一条历史查询记录。
type QueryRecord struct {
	Query     string    `json:"query"`
	Intent    string    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}
