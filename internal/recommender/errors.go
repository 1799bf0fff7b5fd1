// Package recommender 实现了混合查询排序核心：
// 查询解析、片库索引、混合打分排序与推荐解释。
package recommender

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery 表示查询为空或仅含空白字符，可由调用方修正。
	ErrInvalidQuery = errors.New("查询内容为空")

	// ErrEmptyCatalog 表示片库索引中没有任何条目，属于配置故障。
	ErrEmptyCatalog = errors.New("片库索引为空")

	// ErrDimensionMismatch 表示条目向量维度与片库既定维度不一致。
	// 构建索引时该条目会被跳过并记录日志，不会中断整个构建。
	ErrDimensionMismatch = errors.New("向量维度不一致")
)

// BuildError 包装索引构建过程中的非预期失败。
// 特征提取失败不属于此类（会用默认特征兜底），只有向量化等
// 无法兜底的协作方故障才会以 BuildError 向上传播。
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("片库索引构建失败: %v", e.Cause)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}
