package extractor

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"movie-rec-go/internal/recommender"
	"movie-rec-go/pkg/llm"
)

type fakeLLM struct {
	answer string
	err    error
}

func (f *fakeLLM) Complete(_ context.Context, _ []llm.Message, _ *llm.GenerationParams) (string, error) {
	return f.answer, f.err
}

type fakeEmbedding struct {
	vec []float32
	err error
}

func (f *fakeEmbedding) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func TestExtractParsesLLMOutput(t *testing.T) {
	e := NewLLMExtractor(&fakeLLM{
		answer: `{"genres":["comedy","romance"],"themes":["friendship"],"tone":"lighthearted","audience":"teen-adult"}`,
	}, &fakeEmbedding{}, 32)

	feats, err := e.Extract(context.Background(), "a funny love story")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := recommender.Features{
		Genres:   []string{"comedy", "romance"},
		Themes:   []string{"friendship"},
		Tone:     "lighthearted",
		Audience: "teen-adult",
	}
	if !reflect.DeepEqual(feats, want) {
		t.Errorf("Features = %+v, want %+v", feats, want)
	}
}

func TestExtractTrimsMarkdownFence(t *testing.T) {
	e := NewLLMExtractor(&fakeLLM{
		answer: "```json\n{\"genres\":[\"horror\"],\"themes\":[\"mystery\"],\"tone\":\"dark\",\"audience\":\"adult\"}\n```",
	}, &fakeEmbedding{}, 32)

	feats, err := e.Extract(context.Background(), "something scary")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if feats.Tone != "dark" || len(feats.Genres) != 1 || feats.Genres[0] != "horror" {
		t.Errorf("代码块包裹的 JSON 应被正确解析, got %+v", feats)
	}
}

func TestExtractFallsBackOnLLMFailure(t *testing.T) {
	e := NewLLMExtractor(&fakeLLM{err: errors.New("超时")}, &fakeEmbedding{}, 32)

	feats, err := e.Extract(context.Background(), "a scary horror film")
	if err != nil {
		t.Fatalf("LLM 失败时应降级而非报错, error = %v", err)
	}
	found := false
	for _, g := range feats.Genres {
		if g == "horror" {
			found = true
		}
	}
	if !found {
		t.Errorf("规则降级应从文本提取到 horror, got %+v", feats)
	}
}

func TestExtractFallsBackOnGarbageOutput(t *testing.T) {
	e := NewLLMExtractor(&fakeLLM{answer: "Sure! Here are the features you asked for..."}, &fakeEmbedding{}, 32)

	feats, err := e.Extract(context.Background(), "a funny comedy")
	if err != nil {
		t.Fatalf("不可解析输出应降级而非报错, error = %v", err)
	}
	if len(feats.Genres) == 0 {
		t.Error("降级结果不应为空特征")
	}
}

func TestExtractFillsMissingFields(t *testing.T) {
	e := NewLLMExtractor(&fakeLLM{answer: `{"genres":["sci-fi"]}`}, &fakeEmbedding{}, 32)

	feats, err := e.Extract(context.Background(), "space adventure")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if feats.Tone != "neutral" || feats.Audience != "general" || len(feats.Themes) == 0 {
		t.Errorf("缺失字段应补默认值, got %+v", feats)
	}
}

func TestEmbedDoesNotFallBack(t *testing.T) {
	wantErr := errors.New("向量服务不可用")
	e := NewLLMExtractor(&fakeLLM{}, &fakeEmbedding{err: wantErr}, 32)

	_, err := e.Embed(context.Background(), "Genres: sci-fi. Themes: adventure. Tone: neutral")
	if !errors.Is(err, wantErr) {
		t.Errorf("远程向量化失败应原样返回错误, got %v", err)
	}
}
