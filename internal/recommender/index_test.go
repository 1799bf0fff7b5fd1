package recommender

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubExtractor 是测试用的可编排特征提取器。
type stubExtractor struct {
	feats      Features
	vec        []float32
	extractErr error
	embedErr   error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (Features, error) {
	if s.extractErr != nil {
		return Features{}, s.extractErr
	}
	return s.feats, nil
}

func (s *stubExtractor) Embed(_ context.Context, _ string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	if s.vec != nil {
		return s.vec, nil
	}
	return []float32{1, 0, 0, 0}, nil
}

func TestBuildMissingTextUsesDefaults(t *testing.T) {
	raws := []RawItem{
		{ID: 1, Title: "Untitled", Semantic: []float32{1, 0}},
	}
	idx, err := Build(context.Background(), raws, &stubExtractor{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	feats, ok := idx.FeatureOf(1)
	if !ok {
		t.Fatal("条目应存在于索引中")
	}
	if !reflect.DeepEqual(feats, DefaultFeatures()) {
		t.Errorf("缺失文本应使用默认特征, got %+v", feats)
	}
}

func TestBuildExtractFailureFallsBackToDefaults(t *testing.T) {
	stub := &stubExtractor{extractErr: errors.New("提取超时")}
	raws := []RawItem{
		{ID: 7, Title: "Broken", Text: "some overview", Semantic: []float32{0, 1}},
	}
	idx, err := Build(context.Background(), raws, stub)
	if err != nil {
		t.Fatalf("特征提取失败不应中断构建, error = %v", err)
	}

	feats, _ := idx.FeatureOf(7)
	if !reflect.DeepEqual(feats, DefaultFeatures()) {
		t.Errorf("提取失败应兜底为默认特征, got %+v", feats)
	}
}

func TestBuildEmbedFailureReturnsBuildError(t *testing.T) {
	stub := &stubExtractor{embedErr: errors.New("向量服务不可用")}
	raws := []RawItem{
		{ID: 1, Title: "NoVec", Text: "a comedy"},
	}
	_, err := Build(context.Background(), raws, stub)
	if err == nil {
		t.Fatal("向量化失败应返回错误")
	}

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("错误类型应为 *BuildError, got %T", err)
	}
	if !errors.Is(err, stub.embedErr) {
		t.Errorf("BuildError 应包装底层原因, got %v", err)
	}
}

func TestBuildSkipsDimensionMismatch(t *testing.T) {
	raws := []RawItem{
		{ID: 1, Title: "A", Semantic: []float32{1, 0, 0, 0}},
		{ID: 2, Title: "B", Semantic: []float32{0, 1, 0, 0}},
		{ID: 3, Title: "C", Semantic: []float32{1, 0}}, // 维度不一致
	}
	idx, err := Build(context.Background(), raws, &stubExtractor{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if idx.Size() != 2 {
		t.Fatalf("Size = %d, 维度不一致的条目应被跳过", idx.Size())
	}
	if _, ok := idx.FeatureOf(3); ok {
		t.Error("被跳过的条目不应出现在索引中")
	}
	if len(idx.VectorMatrix(VectorSemantic)) != idx.Size() {
		t.Error("语义矩阵行数应与条目数对齐")
	}
}

func TestBuildTraditionalChannelAllOrNothing(t *testing.T) {
	ctx := context.Background()

	// 任一条目缺传统向量时整体放弃传统通道
	partial := []RawItem{
		{ID: 1, Semantic: []float32{1, 0}, Traditional: []float32{0.5, 0.5}},
		{ID: 2, Semantic: []float32{0, 1}},
	}
	idx, err := Build(ctx, partial, &stubExtractor{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if idx.VectorMatrix(VectorTraditional) != nil {
		t.Error("传统向量不完整时传统矩阵应为 nil")
	}

	// 全员在场且同维时建立传统通道
	complete := []RawItem{
		{ID: 1, Semantic: []float32{1, 0}, Traditional: []float32{0.5, 0.5}},
		{ID: 2, Semantic: []float32{0, 1}, Traditional: []float32{0.1, 0.9}},
	}
	idx, err = Build(ctx, complete, &stubExtractor{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	trad := idx.VectorMatrix(VectorTraditional)
	if len(trad) != 2 {
		t.Fatalf("传统矩阵行数 = %d, want 2", len(trad))
	}
}

func TestBuildEmbedsCanonicalFeatureText(t *testing.T) {
	e := NewRuleExtractor(32)
	raws := []RawItem{
		{ID: 1, Title: "Love Actually", Text: "a funny love story"},
	}
	idx, err := Build(context.Background(), raws, e)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	feats, _ := idx.FeatureOf(1)
	want, err := e.Embed(context.Background(), feats.CanonicalText())
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(idx.VectorMatrix(VectorSemantic)[0], want) {
		t.Error("条目向量应来自特征规范文本")
	}
}
