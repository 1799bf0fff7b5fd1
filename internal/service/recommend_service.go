package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"movie-rec-go/internal/config"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/recommender"
	"movie-rec-go/internal/repository"
	"movie-rec-go/pkg/log"
)

// RecommendService 接口定义了推荐相关的业务操作。
type RecommendService interface {
	// Recommend 按自由文本查询推荐电影。userID 为 0 表示匿名查询，不写历史；
	// alpha < 0 表示使用配置中的默认混合权重。
	Recommend(ctx context.Context, userID uint, query string, topK int, alpha float64) (*model.RecommendationResponseDTO, error)
	// RecommendByUser 按用户评分画像推荐电影。
	RecommendByUser(ctx context.Context, userID uint, topK int) (*model.RecommendationResponseDTO, error)
}

type recommendService struct {
	interpreter *recommender.QueryInterpreter
	ranker      *recommender.HybridRanker
	explainer   *recommender.ExplanationGenerator
	catalog     CatalogService
	ratingRepo  repository.RatingRepository
	historyRepo repository.QueryHistoryRepository
	redisClient *redis.Client
	cfg         config.RecommenderConfig
}

// NewRecommendService 创建一个新的 RecommendService 实例。
func NewRecommendService(
	interpreter *recommender.QueryInterpreter,
	catalog CatalogService,
	ratingRepo repository.RatingRepository,
	historyRepo repository.QueryHistoryRepository,
	redisClient *redis.Client,
	cfg config.RecommenderConfig,
) RecommendService {
	return &recommendService{
		interpreter: interpreter,
		ranker:      recommender.NewHybridRanker(),
		explainer:   recommender.NewExplanationGenerator(time.Now().UnixNano()),
		catalog:     catalog,
		ratingRepo:  ratingRepo,
		historyRepo: historyRepo,
		redisClient: redisClient,
		cfg:         cfg,
	}
}

// Recommend 执行完整的查询推荐流程：缓存检查、查询解析、混合排序与解释生成。
func (s *recommendService) Recommend(ctx context.Context, userID uint, query string, topK int, alpha float64) (*model.RecommendationResponseDTO, error) {
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	if alpha < 0 || alpha > 1 {
		alpha = s.cfg.Alpha
	}
	log.Infof("[RecommendService] 步骤1: 收到推荐请求, query: '%s', topK: %d, alpha: %.2f, userID: %d", query, topK, alpha, userID)

	// 1. 结果缓存检查。缓存键只由查询参数决定（解析是确定性的）。
	cacheKey := s.cacheKey(query, topK, alpha)
	if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var resp model.RecommendationResponseDTO
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			log.Infof("[RecommendService] 命中结果缓存, query: '%s'", query)
			s.appendHistory(ctx, userID, query, resp.Criteria.Intent)
			return &resp, nil
		}
	}

	// 2. 查询解析
	criteria, err := s.interpreter.Interpret(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Infof("[RecommendService] 步骤2: 查询解析完成, intent: '%s', 偏好类型: %v, 排除类型: %v",
		criteria.Intent, criteria.PreferredGenres, criteria.ExcludedGenres)

	// 3. 混合排序
	index, err := s.catalog.Index()
	if err != nil {
		return nil, err
	}
	results, err := s.ranker.Rank(criteria, index, recommender.RankOptions{
		TopK:     topK,
		Alpha:    alpha,
		MinScore: s.cfg.MinScore,
	})
	if err != nil {
		return nil, err
	}

	// 4. 解释生成与响应组装
	resp := s.buildResponse(criteria, results)

	// 5. 写入结果缓存与查询历史
	if data, err := json.Marshal(resp); err == nil {
		ttl := time.Duration(s.cfg.CacheTTLSeconds) * time.Second
		if err := s.redisClient.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			log.Warnf("[RecommendService] 写入结果缓存失败, error: %v", err)
		}
	}
	s.appendHistory(ctx, userID, query, criteria.Intent)

	log.Infof("[RecommendService] 步骤3: 推荐完成, 返回 %d 条结果", len(resp.Results))
	return resp, nil
}

// RecommendByUser 根据用户的高分评分构建口味画像向量并推荐。
// 画像向量是用户评分 >= 4 的电影语义向量的评分加权平均。
func (s *recommendService) RecommendByUser(ctx context.Context, userID uint, topK int) (*model.RecommendationResponseDTO, error) {
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	log.Infof("[RecommendService] 收到用户画像推荐请求, userID: %d, topK: %d", userID, topK)

	index, err := s.catalog.Index()
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.FindHighRatedByUserID(userID, 4.0)
	if err != nil {
		return nil, fmt.Errorf("加载用户评分失败: %w", err)
	}
	if len(ratings) == 0 {
		return nil, fmt.Errorf("用户暂无可用的高分评分记录")
	}

	profile, likedGenres := s.buildTasteProfile(index, ratings)
	if profile == nil {
		return nil, fmt.Errorf("用户评分的电影均不在当前片库中")
	}

	criteria := &recommender.SearchCriteria{
		OriginalQuery:   fmt.Sprintf("user:%d", userID),
		Intent:          "taste-profile",
		PreferredGenres: likedGenres,
		PreferredTone:   "neutral",
		QueryVector:     profile,
	}

	results, err := s.ranker.Rank(criteria, index, recommender.RankOptions{
		TopK:         topK,
		Alpha:        s.cfg.Alpha,
		SemanticOnly: true,
		MinScore:     s.cfg.MinScore,
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(criteria, results), nil
}

// buildTasteProfile 计算评分加权的语义向量均值，并收集高分电影的类型偏好。
func (s *recommendService) buildTasteProfile(index *recommender.CatalogIndex, ratings []model.Rating) ([]float32, []string) {
	semantic := index.VectorMatrix(recommender.VectorSemantic)
	rowOf := make(map[int]int, index.Size())
	for i, item := range index.AllItems() {
		rowOf[item.ID] = i
	}

	profile := make([]float64, index.Dimensions())
	var weightSum float64
	var likedGenres []string
	seenGenre := make(map[string]bool)

	for _, r := range ratings {
		row, ok := rowOf[r.MovieID]
		if !ok {
			continue
		}
		for i, v := range semantic[row] {
			profile[i] += r.Score * float64(v)
		}
		weightSum += r.Score
		if feats, ok := index.FeatureOf(r.MovieID); ok {
			for _, g := range feats.Genres {
				if !seenGenre[g] {
					seenGenre[g] = true
					likedGenres = append(likedGenres, g)
				}
			}
		}
	}
	if weightSum == 0 {
		return nil, nil
	}

	out := make([]float32, len(profile))
	for i, v := range profile {
		out[i] = float32(v / weightSum)
	}
	return out, likedGenres
}

// buildResponse 把排序结果组装为响应 DTO。
func (s *recommendService) buildResponse(criteria *recommender.SearchCriteria, results []recommender.RankedResult) *model.RecommendationResponseDTO {
	resp := &model.RecommendationResponseDTO{
		Criteria: model.SearchCriteriaDTO{
			OriginalQuery:   criteria.OriginalQuery,
			Intent:          criteria.Intent,
			PreferredGenres: criteria.PreferredGenres,
			ExcludedGenres:  criteria.ExcludedGenres,
			PreferredThemes: criteria.PreferredThemes,
			PreferredTone:   criteria.PreferredTone,
		},
		Results: make([]model.RecommendedMovieDTO, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, model.RecommendedMovieDTO{
			Rank:        res.Rank,
			MovieID:     res.Item.ID,
			Title:       res.Item.Title,
			Year:        res.Item.Year,
			Score:       res.Score,
			Genres:      res.Item.Features.Genres,
			Themes:      res.Item.Features.Themes,
			Tone:        res.Item.Features.Tone,
			Explanation: s.explainer.Explain(res.Item.Features, criteria),
		})
	}
	return resp
}

// appendHistory 记录登录用户的查询历史，失败只记日志不影响主流程。
func (s *recommendService) appendHistory(ctx context.Context, userID uint, query, intent string) {
	if userID == 0 {
		return
	}
	record := model.QueryRecord{Query: query, Intent: intent, Timestamp: time.Now()}
	if err := s.historyRepo.Append(ctx, userID, record); err != nil {
		log.Warnf("[RecommendService] 写入查询历史失败, userID: %d, error: %v", userID, err)
	}
}

func (s *recommendService) cacheKey(query string, topK int, alpha float64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%.4f", query, topK, alpha)))
	return "rec:cache:" + hex.EncodeToString(sum[:16])
}
