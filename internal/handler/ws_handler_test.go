package handler

import (
	"encoding/json"
	"testing"
)

func TestWsQueryBlendAlpha(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{
			name: "未携带 alpha 时使用配置默认值",
			raw:  `{"query":"a comedy","topK":5}`,
			want: -1,
		},
		{
			name: "显式 alpha=0 表示纯传统通道",
			raw:  `{"query":"a comedy","alpha":0}`,
			want: 0,
		},
		{
			name: "显式 alpha 原样透传",
			raw:  `{"query":"a comedy","alpha":0.3}`,
			want: 0.3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q wsQuery
			if err := json.Unmarshal([]byte(tt.raw), &q); err != nil {
				t.Fatalf("解析查询帧失败: %v", err)
			}
			if got := q.blendAlpha(); got != tt.want {
				t.Errorf("blendAlpha() = %v, want %v", got, tt.want)
			}
		})
	}
}
