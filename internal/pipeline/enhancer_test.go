package pipeline

import (
	"context"
	"errors"
	"testing"

	"movie-rec-go/internal/recommender"
)

type fakeExtractor struct {
	feats      recommender.Features
	vec        []float32
	extractErr error
	embedErr   error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (recommender.Features, error) {
	if f.extractErr != nil {
		return recommender.Features{}, f.extractErr
	}
	return f.feats, nil
}

func (f *fakeExtractor) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vec, nil
}

func TestBuildFeatureText(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		rawGenres string
		overview  string
		want      string
	}{
		{
			name:      "完整字段",
			title:     "The Matrix",
			rawGenres: "Action|Sci-Fi",
			overview:  "A hacker discovers reality is a simulation",
			want:      "The Matrix. Action, Sci-Fi. A hacker discovers reality is a simulation",
		},
		{
			name:  "仅标题",
			title: "Unknown",
			want:  "Unknown",
		},
		{
			name:     "无类型标签",
			title:    "Titanic",
			overview: "A ship sinks",
			want:     "Titanic. A ship sinks",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFeatureText(tt.title, tt.rawGenres, tt.overview); got != tt.want {
				t.Errorf("buildFeatureText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnhanceRowExtractFailureFallsBack(t *testing.T) {
	e := &Enhancer{extractor: &fakeExtractor{
		extractErr: errors.New("LLM 超时"),
		vec:        []float32{0.1, 0.2},
	}}

	movie, err := e.enhanceRow(context.Background(), 42, "Some Movie", 2001, "Drama", "an overview", nil)
	if err != nil {
		t.Fatalf("特征提取失败应兜底而非报错, error = %v", err)
	}
	want := recommender.DefaultFeatures()
	if !equalStringSlices(movie.GenreList(), want.Genres) || movie.Tone != want.Tone {
		t.Errorf("提取失败应写入默认特征, got genres=%v tone=%q", movie.GenreList(), movie.Tone)
	}
	if movie.SemanticVector == "" {
		t.Error("语义向量应已写入")
	}
}

func TestEnhanceRowEmbedFailureAborts(t *testing.T) {
	wantErr := errors.New("向量服务不可用")
	e := &Enhancer{extractor: &fakeExtractor{embedErr: wantErr}}

	_, err := e.enhanceRow(context.Background(), 1, "Movie", 1999, "Comedy", "text", nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("向量化失败应中断并包装底层错误, got %v", err)
	}
}

func TestEnhanceRowParsesTraditionalVector(t *testing.T) {
	e := &Enhancer{extractor: &fakeExtractor{
		feats: recommender.Features{Genres: []string{"comedy"}, Themes: []string{"friendship"}, Tone: "lighthearted", Audience: "general"},
		vec:   []float32{1, 0},
	}}

	row := []string{"7", "Movie", "2010", "Comedy", "overview", "[0.5,0.5]"}
	movie, err := e.enhanceRow(context.Background(), 7, "Movie", 2010, "Comedy", "overview", row)
	if err != nil {
		t.Fatalf("enhanceRow() error = %v", err)
	}
	trad := movie.TraditionalEmbedding()
	if len(trad) != 2 || trad[0] != 0.5 {
		t.Errorf("传统向量应被解析, got %v", trad)
	}

	// 非法 JSON 忽略不报错
	row[5] = "not-json"
	movie, err = e.enhanceRow(context.Background(), 7, "Movie", 2010, "Comedy", "overview", row)
	if err != nil {
		t.Fatalf("enhanceRow() error = %v", err)
	}
	if movie.TraditionalVector != "" {
		t.Error("非法传统向量应被忽略")
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
