package recommender

import (
	"math"
	"sort"

	"movie-rec-go/pkg/log"
)

// exclusionPenalty 是排除类型命中时的乘性降权因子。
// 乘性而非直接剔除：片库很小时被排除的条目仍可垫底出现，避免空结果。
const exclusionPenalty = 0.1

// RankOptions 控制单次排序行为。
type RankOptions struct {
	// TopK 是返回条数上限，<=0 时由调用方默认值兜底。
	TopK int
	// Alpha 是语义通道权重，1-Alpha 为传统通道权重，取值 [0,1]。
	Alpha float64
	// SemanticOnly 为 true 时忽略传统通道（等效 Alpha=1）。
	SemanticOnly bool
	// MinScore 为正时过滤低于该分数的结果，默认 0 即不过滤。
	MinScore float64
}

// RankedResult 是一条打分后的排序结果。Rank 从 1 开始。
type RankedResult struct {
	Item  Item
	Score float64
	Rank  int
}

// HybridRanker 对片库索引执行混合相似度打分排序。
type HybridRanker struct{}

// NewHybridRanker 创建排序器。
func NewHybridRanker() *HybridRanker {
	return &HybridRanker{}
}

// Rank 对索引全量条目打分并返回前 TopK 条。
// 分数 = alpha*语义余弦 + (1-alpha)*传统余弦，命中排除类型再乘 0.1。
// 传统通道缺席时自动退化为纯语义。分数不做截断，原样返回。
func (r *HybridRanker) Rank(criteria *SearchCriteria, idx *CatalogIndex, opts RankOptions) ([]RankedResult, error) {
	if idx == nil || idx.Size() == 0 {
		return nil, ErrEmptyCatalog
	}

	alpha := opts.Alpha
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	semantic := idx.VectorMatrix(VectorSemantic)
	traditional := idx.VectorMatrix(VectorTraditional)
	if opts.SemanticOnly || traditional == nil {
		traditional = nil
		alpha = 1
	}

	items := idx.AllItems()
	results := make([]RankedResult, 0, len(items))
	for i, item := range items {
		score := alpha * CosineSimilarity(criteria.QueryVector, semantic[i])
		if traditional != nil {
			score += (1 - alpha) * CosineSimilarity(criteria.QueryVector, traditional[i])
		}
		if hasExcludedGenre(item.Features.Genres, criteria.ExcludedGenres) {
			score *= exclusionPenalty
		}
		results = append(results, RankedResult{Item: item, Score: score})
	}

	// 稳定排序：同分条目保持片库顺序，保证结果可复现。
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.MinScore > 0 {
		filtered := results[:0]
		for _, res := range results {
			if res.Score >= opts.MinScore {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	topK := opts.TopK
	if topK <= 0 || topK > len(results) {
		topK = len(results)
	}
	results = results[:topK]
	for i := range results {
		results[i].Rank = i + 1
	}

	log.Infof("[HybridRanker] 排序完成, intent: '%s', 候选: %d, 返回: %d, alpha: %.2f",
		criteria.Intent, len(items), len(results), alpha)
	return results, nil
}

// CosineSimilarity 计算两个向量的余弦相似度。
// 维度不一致或任一向量为零向量时返回 0。累加使用 float64 保证精度。
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func hasExcludedGenre(genres, excluded []string) bool {
	for _, g := range genres {
		for _, ex := range excluded {
			if g == ex {
				return true
			}
		}
	}
	return false
}
