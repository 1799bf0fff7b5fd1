package metrics

import (
	"math"
	"testing"
)

func TestPrecisionAndRecallAtK(t *testing.T) {
	recommended := []int{1, 2, 3, 4, 5}
	relevant := map[int]bool{2: true, 4: true, 9: true}

	if got := PrecisionAtK(recommended, relevant, 5); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("PrecisionAtK = %f, want 0.4", got)
	}
	want := 2.0 / 3.0
	if got := RecallAtK(recommended, relevant, 5); math.Abs(got-want) > 1e-9 {
		t.Errorf("RecallAtK = %f, want %f", got, want)
	}
}

func TestPrecisionEdgeCases(t *testing.T) {
	relevant := map[int]bool{1: true}

	if got := PrecisionAtK(nil, relevant, 5); got != 0 {
		t.Errorf("空推荐列表 Precision = %f, want 0", got)
	}
	// 推荐不足 k 条时分母仍为 k，缺额按未命中计
	if got := PrecisionAtK([]int{1, 2}, relevant, 10); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("推荐不足 k 条时 Precision = %f, want 0.1", got)
	}
	if got := PrecisionAtK([]int{1, 2}, relevant, 0); got != 0 {
		t.Errorf("k=0 时 Precision = %f, want 0", got)
	}
}

func TestRecallEmptyRelevantSet(t *testing.T) {
	if got := RecallAtK([]int{1, 2, 3}, nil, 3); got != 0 {
		t.Errorf("相关集合为空时 Recall = %f, want 0", got)
	}
}

func TestNDCGAtK(t *testing.T) {
	relevant := map[int]bool{1: true, 2: true}

	// 理想排序：全部命中排在最前
	if got := NDCGAtK([]int{1, 2, 3}, relevant, 3); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("理想排序 NDCG = %f, want 1.0", got)
	}

	// 命中排在末位时分数下降但大于 0
	got := NDCGAtK([]int{3, 4, 1}, relevant, 3)
	if got <= 0 || got >= 1 {
		t.Errorf("非理想排序 NDCG = %f, 应落在 (0,1) 区间", got)
	}

	// 手算校验：命中位置 2（0 起），DCG = 1/log2(4)，IDCG = 1 + 1/log2(3)
	want := (1 / math.Log2(4)) / (1 + 1/math.Log2(3))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("NDCG = %f, want %f", got, want)
	}

	if got := NDCGAtK([]int{1, 2, 3}, nil, 3); got != 0 {
		t.Errorf("无相关条目时 NDCG = %f, want 0", got)
	}
}

func TestEvaluateBundle(t *testing.T) {
	res := Evaluate([]int{1, 2, 3, 4, 5}, map[int]bool{2: true, 4: true, 9: true}, 5)

	if math.Abs(res.PrecisionAtK-0.4) > 1e-9 {
		t.Errorf("PrecisionAtK = %f, want 0.4", res.PrecisionAtK)
	}
	if math.Abs(res.RecallAtK-2.0/3.0) > 1e-9 {
		t.Errorf("RecallAtK = %f, want %f", res.RecallAtK, 2.0/3.0)
	}
	if res.K != 5 {
		t.Errorf("K = %d, want 5", res.K)
	}
	if res.NDCGAtK <= 0 || res.NDCGAtK > 1 {
		t.Errorf("NDCGAtK = %f, 应落在 (0,1] 区间", res.NDCGAtK)
	}
}
