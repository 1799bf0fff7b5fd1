package recommender

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatchedAttributes(t *testing.T) {
	feats := Features{
		Genres: []string{"comedy", "romance"},
		Themes: []string{"friendship", "family"},
		Tone:   "lighthearted",
	}
	criteria := &SearchCriteria{
		PreferredGenres: []string{"comedy"},
		PreferredThemes: []string{"friendship"},
		PreferredTone:   "lighthearted",
	}

	got := MatchedAttributes(feats, criteria)
	want := []string{"comedy elements", "friendship themes", "lighthearted atmosphere"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchedAttributes = %v, want %v", got, want)
	}

	// 匹配集合完全确定：重复调用结果一致
	if again := MatchedAttributes(feats, criteria); !reflect.DeepEqual(again, got) {
		t.Error("匹配属性计算应是确定性的")
	}
}

func TestMatchedAttributesNeutralToneIgnored(t *testing.T) {
	feats := Features{Genres: []string{"drama"}, Tone: "neutral"}
	criteria := &SearchCriteria{PreferredTone: "neutral"}

	got := MatchedAttributes(feats, criteria)
	if len(got) != 0 {
		t.Errorf("neutral 基调不应计入匹配属性, got %v", got)
	}
}

func TestExplainContainsMatchedAttributes(t *testing.T) {
	g := NewExplanationGenerator(42)
	feats := Features{Genres: []string{"comedy"}, Tone: "neutral"}
	criteria := &SearchCriteria{PreferredGenres: []string{"comedy"}}

	text := g.Explain(feats, criteria)
	if !strings.Contains(text, "comedy elements") {
		t.Errorf("解释文本应包含匹配属性, got %q", text)
	}
}

func TestExplainFallback(t *testing.T) {
	g := NewExplanationGenerator(1)
	feats := Features{Genres: []string{"horror"}, Themes: []string{"mystery"}, Tone: "dark"}
	criteria := &SearchCriteria{
		PreferredGenres: []string{"comedy"},
		PreferredThemes: []string{"friendship"},
		PreferredTone:   "lighthearted",
	}

	if got := g.Explain(feats, criteria); got != fallbackExplanation {
		t.Errorf("无匹配属性时应返回通用兜底语, got %q", got)
	}
}

func TestJoinNatural(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}
	for _, tt := range tests {
		if got := joinNatural(tt.items); got != tt.want {
			t.Errorf("joinNatural(%v) = %q, want %q", tt.items, got, tt.want)
		}
	}
}
