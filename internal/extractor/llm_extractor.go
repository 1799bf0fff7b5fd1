// Package extractor 提供基于 LLM 与远程向量服务的特征提取实现。
package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"movie-rec-go/internal/recommender"
	"movie-rec-go/pkg/embedding"
	"movie-rec-go/pkg/llm"
	"movie-rec-go/pkg/log"
)

const featureSystemPrompt = `You are a movie analysis assistant. Given a movie description, extract its features and respond with ONLY a JSON object in this exact shape:
{"genres": ["..."], "themes": ["..."], "tone": "...", "audience": "..."}
Use lowercase labels. tone must be one of: dark, lighthearted, romantic, suspenseful, serious, inspirational, neutral. audience must be one of: general, family, teen-adult, adult. Do not include any other text.`

// LLMExtractor 组合 LLM 特征提取与远程向量化，
// LLM 不可用或输出不可解析时降级到规则实现。
type LLMExtractor struct {
	llmClient llm.Client
	embClient embedding.Client
	fallback  *recommender.RuleExtractor
}

// NewLLMExtractor 创建 LLM 特征提取器。
// dimensions 仅用于规则降级路径的向量维度。
func NewLLMExtractor(llmClient llm.Client, embClient embedding.Client, dimensions int) *LLMExtractor {
	return &LLMExtractor{
		llmClient: llmClient,
		embClient: embClient,
		fallback:  recommender.NewRuleExtractor(dimensions),
	}
}

// Extract 通过 LLM 提取结构化特征，失败时降级到规则提取。
func (e *LLMExtractor) Extract(ctx context.Context, text string) (recommender.Features, error) {
	answer, err := e.llmClient.Complete(ctx, []llm.Message{
		{Role: "system", Content: featureSystemPrompt},
		{Role: "user", Content: text},
	}, nil)
	if err != nil {
		log.Warnf("[LLMExtractor] LLM 调用失败, 降级到规则提取, error: %v", err)
		return e.fallback.Extract(ctx, text)
	}

	feats, err := parseFeatureJSON(answer)
	if err != nil {
		log.Warnf("[LLMExtractor] LLM 输出不可解析, 降级到规则提取, answer: '%s', error: %v", answer, err)
		return e.fallback.Extract(ctx, text)
	}
	return feats, nil
}

// Embed 调用远程向量服务。远程失败不降级：规则向量与远程向量
// 不在同一空间，混用会破坏片库内的可比性。
func (e *LLMExtractor) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.embClient.CreateEmbedding(ctx, text)
}

// parseFeatureJSON 解析 LLM 输出的特征 JSON，容忍 markdown 代码块包裹。
func parseFeatureJSON(answer string) (recommender.Features, error) {
	cleaned := strings.TrimSpace(answer)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var feats recommender.Features
	if err := json.Unmarshal([]byte(cleaned), &feats); err != nil {
		return recommender.Features{}, err
	}
	if len(feats.Genres) == 0 {
		feats.Genres = []string{"drama"}
	}
	if len(feats.Themes) == 0 {
		feats.Themes = []string{"human experience"}
	}
	if feats.Tone == "" {
		feats.Tone = "neutral"
	}
	if feats.Audience == "" {
		feats.Audience = "general"
	}
	return feats, nil
}
