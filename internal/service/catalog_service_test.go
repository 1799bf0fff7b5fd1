package service

import (
	"reflect"
	"testing"
)

func TestNormalizeGenres(t *testing.T) {
	aliasMap := map[string]string{
		"scifi":   "sci-fi",
		"sci fi":  "sci-fi",
		"romcom":  "comedy",
		"rom-com": "comedy",
	}

	tests := []struct {
		name   string
		genres []string
		want   []string
	}{
		{
			name:   "别名归一",
			genres: []string{"SciFi", "Drama"},
			want:   []string{"sci-fi", "drama"},
		},
		{
			name:   "归一后去重",
			genres: []string{"scifi", "sci fi", "sci-fi"},
			want:   []string{"sci-fi"},
		},
		{
			name:   "保持首次出现顺序",
			genres: []string{"romcom", "horror", "rom-com"},
			want:   []string{"comedy", "horror"},
		},
		{
			name:   "空白与空串被丢弃",
			genres: []string{" drama ", "", "  "},
			want:   []string{"drama"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeGenres(tt.genres, aliasMap); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeGenres(%v) = %v, want %v", tt.genres, got, tt.want)
			}
		})
	}
}

func TestSplitRawGenres(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Comedy|Romance", []string{"Comedy", "Romance"}},
		{"Drama", []string{"Drama"}},
		{"Action| Thriller |", []string{"Action", "Thriller"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitRawGenres(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitRawGenres(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
