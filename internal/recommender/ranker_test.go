package recommender

import (
	"context"
	"errors"
	"math"
	"testing"
)

// buildTestIndex 用预计算向量构建一个小片库。
func buildTestIndex(t *testing.T, raws []RawItem) *CatalogIndex {
	t.Helper()
	idx, err := Build(context.Background(), raws, &stubExtractor{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func genreFeatures(genres ...string) *Features {
	return &Features{Genres: genres, Themes: []string{"human experience"}, Tone: "neutral", Audience: "general"}
}

func TestRankOrdersByScore(t *testing.T) {
	idx := buildTestIndex(t, []RawItem{
		{ID: 1, Title: "Far", Semantic: []float32{0, 1}, Features: genreFeatures("drama")},
		{ID: 2, Title: "Close", Semantic: []float32{1, 0}, Features: genreFeatures("comedy")},
		{ID: 3, Title: "Middle", Semantic: []float32{0.6, 0.8}, Features: genreFeatures("comedy")},
	})
	criteria := &SearchCriteria{Intent: "comedy", QueryVector: []float32{1, 0}}

	results, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 3, Alpha: 1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	wantOrder := []int{2, 3, 1}
	for i, want := range wantOrder {
		if results[i].Item.ID != want {
			t.Errorf("第 %d 位 = %d, want %d", i+1, results[i].Item.ID, want)
		}
		if results[i].Rank != i+1 {
			t.Errorf("Rank 字段 = %d, want %d", results[i].Rank, i+1)
		}
	}
}

func TestRankExclusionPenaltyExactFactor(t *testing.T) {
	idx := buildTestIndex(t, []RawItem{
		{ID: 1, Title: "Scary", Semantic: []float32{1, 0}, Features: genreFeatures("horror")},
		{ID: 2, Title: "Sweet", Semantic: []float32{0.6, 0.8}, Features: genreFeatures("comedy")},
	})
	criteria := &SearchCriteria{
		QueryVector:    []float32{1, 0},
		ExcludedGenres: []string{"horror"},
	}

	results, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 2, Alpha: 1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	// 被排除的条目余弦 1.0 降为 0.1，落到第二位而非消失
	if results[0].Item.ID != 2 {
		t.Errorf("首位 = %d, 被排除条目应被降权让位", results[0].Item.ID)
	}
	if results[1].Item.ID != 1 {
		t.Fatalf("被排除条目应仍在结果中, got %d", results[1].Item.ID)
	}
	if math.Abs(results[1].Score-0.1) > 1e-9 {
		t.Errorf("排除惩罚应精确为 ×0.1, score = %f", results[1].Score)
	}
}

func TestRankAlphaBlendsChannels(t *testing.T) {
	raws := []RawItem{
		{ID: 1, Semantic: []float32{1, 0}, Traditional: []float32{0, 1}, Features: genreFeatures("drama")},
	}
	criteria := &SearchCriteria{QueryVector: []float32{1, 0}}
	ranker := NewHybridRanker()

	tests := []struct {
		name  string
		opts  RankOptions
		want  float64
	}{
		{"纯语义", RankOptions{TopK: 1, Alpha: 1}, 1.0},
		{"纯传统", RankOptions{TopK: 1, Alpha: 0}, 0.0},
		{"对半混合", RankOptions{TopK: 1, Alpha: 0.5}, 0.5},
		{"忽略传统通道", RankOptions{TopK: 1, Alpha: 0.3, SemanticOnly: true}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := buildTestIndex(t, raws)
			results, err := ranker.Rank(criteria, idx, tt.opts)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if math.Abs(results[0].Score-tt.want) > 1e-9 {
				t.Errorf("score = %f, want %f", results[0].Score, tt.want)
			}
		})
	}
}

func TestRankEmptyCatalog(t *testing.T) {
	idx := buildTestIndex(t, nil)
	criteria := &SearchCriteria{QueryVector: []float32{1, 0}}

	_, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 5, Alpha: 1})
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("空片库应返回 ErrEmptyCatalog, got %v", err)
	}
}

func TestRankTopKExceedsCatalogSize(t *testing.T) {
	idx := buildTestIndex(t, []RawItem{
		{ID: 1, Semantic: []float32{1, 0}, Features: genreFeatures("drama")},
		{ID: 2, Semantic: []float32{0, 1}, Features: genreFeatures("drama")},
	})
	criteria := &SearchCriteria{QueryVector: []float32{1, 0}}

	results, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 10, Alpha: 1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("TopK 超过片库规模时应返回全部 %d 条, got %d", 2, len(results))
	}
}

func TestRankStableTieBreak(t *testing.T) {
	// 三个条目向量相同，分数持平，应保持片库插入顺序
	idx := buildTestIndex(t, []RawItem{
		{ID: 10, Semantic: []float32{1, 0}, Features: genreFeatures("drama")},
		{ID: 20, Semantic: []float32{1, 0}, Features: genreFeatures("drama")},
		{ID: 30, Semantic: []float32{1, 0}, Features: genreFeatures("drama")},
	})
	criteria := &SearchCriteria{QueryVector: []float32{1, 0}}

	results, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 3, Alpha: 1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	for i, want := range []int{10, 20, 30} {
		if results[i].Item.ID != want {
			t.Errorf("同分条目顺序应稳定, 第 %d 位 = %d, want %d", i+1, results[i].Item.ID, want)
		}
	}
}

func TestRankMinScoreFilter(t *testing.T) {
	idx := buildTestIndex(t, []RawItem{
		{ID: 1, Semantic: []float32{1, 0}, Features: genreFeatures("drama")},
		{ID: 2, Semantic: []float32{0, 1}, Features: genreFeatures("drama")},
	})
	criteria := &SearchCriteria{QueryVector: []float32{1, 0}}

	results, err := NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 10, Alpha: 1, MinScore: 0.5})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 1 || results[0].Item.ID != 1 {
		t.Errorf("MinScore 过滤后应只剩条目 1, got %v", results)
	}

	// 默认 MinScore 0 不过滤
	results, err = NewHybridRanker().Rank(criteria, idx, RankOptions{TopK: 10, Alpha: 1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("MinScore 为 0 时不应过滤, got %d 条", len(results))
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"同向量", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"正交", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"反向", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"维度不一致", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"零向量", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"空向量", nil, nil, 0.0},
		{"已知值", []float32{1, 0}, []float32{0.6, 0.8}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}
