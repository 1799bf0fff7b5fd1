package recommender

import (
	"context"

	"movie-rec-go/pkg/log"
)

// 向量通道标识。
type VectorKind int

const (
	// VectorSemantic 是由特征规范文本向量化得到的语义通道。
	VectorSemantic VectorKind = iota
	// VectorTraditional 是数据集自带的历史行为向量通道。
	VectorTraditional
)

// RawItem 是构建索引的输入条目：基础元数据加可选的预计算部分。
// Features 与向量为空时由构建流程补齐。
type RawItem struct {
	ID          int
	Title       string
	Year        int
	RawGenres   []string
	Text        string
	Features    *Features
	Semantic    []float32
	Traditional []float32
}

// Item 是索引中的一个片库条目。
type Item struct {
	ID        int
	Title     string
	Year      int
	RawGenres []string
	Features  Features
}

// CatalogIndex 是构建完成后的只读片库索引。
// 语义矩阵与条目列表行对齐：semantic[i] 是 items[i] 的向量。
// 传统矩阵可缺席（nil），打分方须回退为纯语义模式。
type CatalogIndex struct {
	items       []Item
	semantic    [][]float32
	traditional [][]float32
	features    map[int]Features
	dimensions  int
}

// Build 从原始条目构建片库索引。
//   - 文本缺失 → 使用默认特征，不报错；
//   - 特征提取失败 → 记录日志并用默认特征兜底；
//   - 向量化失败 → 无法兜底，返回 *BuildError；
//   - 向量维度与片库既定维度不一致 → 记录日志并跳过该条目。
//
// 传统矩阵只有在所有保留条目都带有同维传统向量时才会建立，
// 否则整体置空并记录日志（保证两个矩阵行对齐）。
func Build(ctx context.Context, raws []RawItem, extractor TextFeatureExtractor) (*CatalogIndex, error) {
	log.Infof("[CatalogIndex] 步骤1: 开始构建片库索引, 条目数: %d", len(raws))

	idx := &CatalogIndex{
		features: make(map[int]Features, len(raws)),
	}

	type pending struct {
		item        Item
		semantic    []float32
		traditional []float32
	}
	var kept []pending
	tradComplete := true

	for _, raw := range raws {
		feats, vec, err := resolveItem(ctx, raw, extractor)
		if err != nil {
			return nil, &BuildError{Cause: err}
		}

		if idx.dimensions == 0 {
			idx.dimensions = len(vec)
		} else if len(vec) != idx.dimensions {
			log.Warnf("[CatalogIndex] %v, 跳过, id: %d, title: '%s', 期望: %d, 实际: %d",
				ErrDimensionMismatch, raw.ID, raw.Title, idx.dimensions, len(vec))
			continue
		}

		if len(raw.Traditional) == 0 {
			tradComplete = false
		}

		kept = append(kept, pending{
			item: Item{
				ID:        raw.ID,
				Title:     raw.Title,
				Year:      raw.Year,
				RawGenres: raw.RawGenres,
				Features:  feats,
			},
			semantic:    vec,
			traditional: raw.Traditional,
		})
	}

	// 传统向量必须全员在场且同维，否则整体放弃该通道。
	if tradComplete && len(kept) > 0 {
		tradDim := len(kept[0].traditional)
		for _, p := range kept {
			if len(p.traditional) != tradDim {
				tradComplete = false
				break
			}
		}
	}
	if !tradComplete && len(kept) > 0 {
		log.Warnf("[CatalogIndex] 传统向量不完整或维度不一致, 放弃传统通道, 将以纯语义模式打分")
	}

	for _, p := range kept {
		idx.items = append(idx.items, p.item)
		idx.semantic = append(idx.semantic, p.semantic)
		idx.features[p.item.ID] = p.item.Features
		if tradComplete {
			idx.traditional = append(idx.traditional, p.traditional)
		}
	}

	log.Infof("[CatalogIndex] 步骤2: 索引构建完成, 有效条目: %d, 向量维度: %d, 传统通道: %v",
		len(idx.items), idx.dimensions, idx.traditional != nil)
	return idx, nil
}

// resolveItem 补齐单个条目的特征与语义向量。
func resolveItem(ctx context.Context, raw RawItem, extractor TextFeatureExtractor) (Features, []float32, error) {
	var feats Features
	switch {
	case raw.Features != nil:
		feats = *raw.Features
	case raw.Text == "":
		feats = DefaultFeatures()
	default:
		extracted, err := extractor.Extract(ctx, raw.Text)
		if err != nil {
			log.Warnf("[CatalogIndex] 特征提取失败, 使用默认特征, id: %d, title: '%s', error: %v",
				raw.ID, raw.Title, err)
			feats = DefaultFeatures()
		} else {
			feats = extracted
		}
	}

	if len(raw.Semantic) > 0 {
		return feats, raw.Semantic, nil
	}
	vec, err := extractor.Embed(ctx, feats.CanonicalText())
	if err != nil {
		return feats, nil, err
	}
	return feats, vec, nil
}

// AllItems 返回索引中的全部条目，顺序与向量矩阵行对齐。
func (idx *CatalogIndex) AllItems() []Item {
	return idx.items
}

// VectorMatrix 返回指定通道的向量矩阵。传统通道缺席时返回 nil。
func (idx *CatalogIndex) VectorMatrix(kind VectorKind) [][]float32 {
	if kind == VectorTraditional {
		return idx.traditional
	}
	return idx.semantic
}

// FeatureOf 按条目 ID 查询特征记录。
func (idx *CatalogIndex) FeatureOf(id int) (Features, bool) {
	f, ok := idx.features[id]
	return f, ok
}

// Size 返回索引中的有效条目数。
func (idx *CatalogIndex) Size() int {
	return len(idx.items)
}

// Dimensions 返回语义向量维度。
func (idx *CatalogIndex) Dimensions() int {
	return idx.dimensions
}
