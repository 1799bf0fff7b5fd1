package recommender

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestInterpretRejectsEmptyQuery(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := qi.Interpret(context.Background(), query)
		if !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Interpret(%q) error = %v, want ErrInvalidQuery", query, err)
		}
	}
}

func TestInterpretRomanticComedyWithExclusion(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)

	criteria, err := qi.Interpret(context.Background(), "I want a romantic comedy, no horror")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if criteria.Intent != "romantic comedy" {
		t.Errorf("Intent = %q, want %q", criteria.Intent, "romantic comedy")
	}
	if !reflect.DeepEqual(criteria.PreferredGenres, []string{"romance", "comedy"}) {
		t.Errorf("PreferredGenres = %v, want [romance comedy]", criteria.PreferredGenres)
	}
	if !reflect.DeepEqual(criteria.ExcludedGenres, []string{"horror"}) {
		t.Errorf("ExcludedGenres = %v, want [horror]", criteria.ExcludedGenres)
	}
	if len(criteria.QueryVector) != 32 {
		t.Errorf("QueryVector 维度 = %d, want 32", len(criteria.QueryVector))
	}
}

func TestInterpretNegationDoesNotTriggerPreference(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)

	criteria, err := qi.Interpret(context.Background(), "a funny movie but not scary")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	for _, g := range criteria.PreferredGenres {
		if g == "horror" {
			t.Errorf("否定短语命中的类型不应进入偏好集: %v", criteria.PreferredGenres)
		}
	}
	if !reflect.DeepEqual(criteria.ExcludedGenres, []string{"horror"}) {
		t.Errorf("ExcludedGenres = %v, want [horror]", criteria.ExcludedGenres)
	}
}

func TestInterpretDeterministic(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)
	ctx := context.Background()

	a, err := qi.Interpret(ctx, "a dark thriller about secrets")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	b, err := qi.Interpret(ctx, "a dark thriller about secrets")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("相同查询应产生完全相同的解析结果")
	}
}

func TestInterpretDefaultGenresFallback(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)

	criteria, err := qi.Interpret(context.Background(), "something good to watch tonight")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if criteria.Intent != "general" {
		t.Errorf("Intent = %q, want %q", criteria.Intent, "general")
	}
	if !reflect.DeepEqual(criteria.PreferredGenres, []string{"drama", "comedy"}) {
		t.Errorf("PreferredGenres = %v, want 兜底 [drama comedy]", criteria.PreferredGenres)
	}

	// 自定义兜底类型生效
	custom := NewQueryInterpreter(NewRuleExtractor(32), []string{"sci-fi"})
	criteria, err = custom.Interpret(context.Background(), "something good to watch tonight")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !reflect.DeepEqual(criteria.PreferredGenres, []string{"sci-fi"}) {
		t.Errorf("PreferredGenres = %v, want [sci-fi]", criteria.PreferredGenres)
	}
}

func TestInterpretDeduplicatesGenres(t *testing.T) {
	qi := NewQueryInterpreter(NewRuleExtractor(32), nil)

	criteria, err := qi.Interpret(context.Background(), "a funny funny comedy with lots of humor")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !reflect.DeepEqual(criteria.PreferredGenres, []string{"comedy"}) {
		t.Errorf("PreferredGenres = %v, 应去重为 [comedy]", criteria.PreferredGenres)
	}
}

func TestInterpretEmbedsCanonicalText(t *testing.T) {
	e := NewRuleExtractor(32)
	qi := NewQueryInterpreter(e, nil)
	ctx := context.Background()

	criteria, err := qi.Interpret(ctx, "a scary horror film")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	want, err := e.Embed(ctx, criteria.CanonicalText())
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(criteria.QueryVector, want) {
		t.Error("查询向量应来自规范文本而非原始查询")
	}
}

func TestInterpretEmbedFailurePropagates(t *testing.T) {
	stub := &stubExtractor{embedErr: errors.New("服务不可用")}
	qi := NewQueryInterpreter(stub, nil)

	_, err := qi.Interpret(context.Background(), "a comedy")
	if err == nil {
		t.Fatal("向量化失败时 Interpret 应返回错误")
	}
	if !errors.Is(err, stub.embedErr) {
		t.Errorf("错误应包装底层原因, got %v", err)
	}
}
