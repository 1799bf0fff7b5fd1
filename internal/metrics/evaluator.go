// Package metrics 提供推荐质量的离线评估指标。
package metrics

import "math"

// EvalResult 是一次离线评估的指标汇总。
type EvalResult struct {
	PrecisionAtK float64 `json:"precisionAtK"`
	RecallAtK    float64 `json:"recallAtK"`
	NDCGAtK      float64 `json:"ndcgAtK"`
	K            int     `json:"k"`
}

// PrecisionAtK 计算前 k 条推荐中相关条目的占比，分母固定为 k。
// 推荐不足 k 条时缺额按未命中计；k<=0 时返回 0。
func PrecisionAtK(recommended []int, relevant map[int]bool, k int) float64 {
	if k <= 0 {
		return 0
	}
	hits := 0
	for _, id := range truncate(recommended, k) {
		if relevant[id] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// RecallAtK 计算相关条目中被前 k 条推荐覆盖的占比。
// 相关集合为空时返回 0。
func RecallAtK(recommended []int, relevant map[int]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	hits := 0
	for _, id := range truncate(recommended, k) {
		if relevant[id] {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// NDCGAtK 计算归一化折损累积增益。二值相关度：命中为 1，未命中为 0，
// 位置 i（从 0 起）的折损为 1/log2(i+2)。理想 DCG 为 0 时返回 0。
func NDCGAtK(recommended []int, relevant map[int]bool, k int) float64 {
	top := truncate(recommended, k)

	var dcg float64
	for i, id := range top {
		if relevant[id] {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if ideal > k {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// Evaluate 一次性计算全部指标。
func Evaluate(recommended []int, relevant map[int]bool, k int) EvalResult {
	return EvalResult{
		PrecisionAtK: PrecisionAtK(recommended, relevant, k),
		RecallAtK:    RecallAtK(recommended, relevant, k),
		NDCGAtK:      NDCGAtK(recommended, relevant, k),
		K:            k,
	}
}

func truncate(list []int, k int) []int {
	if k <= 0 {
		return nil
	}
	if k > len(list) {
		k = len(list)
	}
	return list[:k]
}
