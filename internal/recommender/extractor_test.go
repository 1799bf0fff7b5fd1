package recommender

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func TestRuleExtractorExtract(t *testing.T) {
	e := NewRuleExtractor(64)

	tests := []struct {
		name       string
		text       string
		wantGenres []string
		wantThemes []string
		wantTone   string
	}{
		{
			name:       "浪漫喜剧文本",
			text:       "A funny love story between two old friends",
			wantGenres: []string{"comedy", "romance"},
			wantThemes: []string{"comedy", "friendship", "romance"},
			wantTone:   "lighthearted",
		},
		{
			name:       "黑暗犯罪文本",
			text:       "A gritty detective hunts a murderer in the dark city",
			wantGenres: []string{"drama"},
			wantThemes: []string{"crime"},
			wantTone:   "dark",
		},
		{
			name:       "空文本走兜底",
			text:       "",
			wantGenres: []string{"drama"},
			wantThemes: []string{"human experience"},
			wantTone:   "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !reflect.DeepEqual(got.Genres, tt.wantGenres) {
				t.Errorf("Genres = %v, want %v", got.Genres, tt.wantGenres)
			}
			if !reflect.DeepEqual(got.Themes, tt.wantThemes) {
				t.Errorf("Themes = %v, want %v", got.Themes, tt.wantThemes)
			}
			if got.Tone != tt.wantTone {
				t.Errorf("Tone = %q, want %q", got.Tone, tt.wantTone)
			}
		})
	}
}

func TestRuleExtractorEmbedDeterministic(t *testing.T) {
	e := NewRuleExtractor(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "Genres: comedy, romance. Themes: friendship. Tone: lighthearted")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	b, err := e.Embed(ctx, "Genres: comedy, romance. Themes: friendship. Tone: lighthearted")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("相同输入应产生逐元素相同的向量")
	}

	c, err := e.Embed(ctx, "Genres: horror. Themes: mystery. Tone: dark")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("不同输入不应产生相同向量")
	}
}

func TestRuleExtractorEmbedNormalized(t *testing.T) {
	e := NewRuleExtractor(64)
	vec, err := e.Embed(context.Background(), "an uplifting family adventure")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 64 {
		t.Fatalf("向量维度 = %d, want 64", len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-5 {
		t.Errorf("向量应为单位长度, 实际 norm = %f", math.Sqrt(norm))
	}
}

func TestDetermineAudience(t *testing.T) {
	tests := []struct {
		genres []string
		want   string
	}{
		{[]string{"horror"}, "adult"},
		{[]string{"comedy", "thriller"}, "adult"},
		{[]string{"comedy"}, "teen-adult"},
		{[]string{"romance", "drama"}, "teen-adult"},
		{[]string{"drama"}, "general"},
		{nil, "general"},
	}
	for _, tt := range tests {
		if got := determineAudience(tt.genres); got != tt.want {
			t.Errorf("determineAudience(%v) = %q, want %q", tt.genres, got, tt.want)
		}
	}
}
