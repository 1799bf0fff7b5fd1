package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"movie-rec-go/internal/model"
	"movie-rec-go/pkg/log"
)

// SearchService 接口定义了片库的关键词浏览检索。
// 与推荐打分无关：排序始终由内存中的片库索引完成，
// 这里只提供标题/简介的全文检索与类型过滤。
type SearchService interface {
	SearchMovies(ctx context.Context, keyword string, genre string, topK int) ([]model.MovieSearchDTO, error)
}

type searchService struct {
	esClient  *elasticsearch.Client
	indexName string
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, indexName string) SearchService {
	return &searchService{
		esClient:  esClient,
		indexName: indexName,
	}
}

// SearchMovies 按关键词（可选类型过滤）检索电影。
func (s *searchService) SearchMovies(ctx context.Context, keyword string, genre string, topK int) ([]model.MovieSearchDTO, error) {
	if topK <= 0 {
		topK = 20
	}
	log.Infof("[SearchService] 开始关键词检索, keyword: '%s', genre: '%s', topK: %d", keyword, genre, topK)

	// 1. 构建检索语句：标题权重高于简介，类型作为 filter 不参与打分
	must := []map[string]interface{}{}
	if keyword != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"title^2", "overview"},
			},
		})
	}
	boolQuery := map[string]interface{}{"must": must}
	if genre != "" {
		boolQuery["filter"] = []map[string]interface{}{
			{"term": map[string]interface{}{"genres": genre}},
		}
	}
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"size":  topK,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	// 2. 执行检索
	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		log.Errorf("[SearchService] Elasticsearch 检索失败: %v", err)
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	// 3. 解析命中结果
	var searchResult struct {
		Hits struct {
			Hits []struct {
				Score  float64       `json:"_score"`
				Source model.EsMovie `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	results := make([]model.MovieSearchDTO, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		results = append(results, model.MovieSearchDTO{
			MovieID:  hit.Source.MovieID,
			Title:    hit.Source.Title,
			Year:     hit.Source.Year,
			Genres:   hit.Source.Genres,
			Overview: hit.Source.Overview,
			Score:    hit.Score,
		})
	}

	log.Infof("[SearchService] 关键词检索完成, 命中 %d 条", len(results))
	return results, nil
}
