// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"movie-rec-go/internal/recommender"
	"movie-rec-go/internal/repository"
	"movie-rec-go/pkg/log"
)

// CatalogService 接口定义了片库索引的生命周期管理。
type CatalogService interface {
	// Rebuild 从数据库全量重建片库索引并原子切换。
	Rebuild(ctx context.Context) error
	// Index 返回当前片库索引，未构建或为空时返回 ErrEmptyCatalog。
	Index() (*recommender.CatalogIndex, error)
	// Size 返回当前索引中的条目数，未构建时为 0。
	Size() int
}

// catalogService 持有进程内的片库索引。
// 查询路径只读，重建路径整体替换，以读写锁保护切换。
type catalogService struct {
	movieRepo repository.MovieRepository
	aliasRepo repository.GenreAliasRepository
	extractor recommender.TextFeatureExtractor

	mu    sync.RWMutex
	index *recommender.CatalogIndex
}

// NewCatalogService 创建一个新的 CatalogService 实例。
func NewCatalogService(movieRepo repository.MovieRepository, aliasRepo repository.GenreAliasRepository, extractor recommender.TextFeatureExtractor) CatalogService {
	return &catalogService{
		movieRepo: movieRepo,
		aliasRepo: aliasRepo,
		extractor: extractor,
	}
}

// Rebuild 从数据库全量加载电影并重建索引。
// 重建在旁路完成，成功后才切换，失败时旧索引继续服务。
func (s *catalogService) Rebuild(ctx context.Context) error {
	log.Info("[CatalogService] 开始重建片库索引")

	movies, err := s.movieRepo.FindAll()
	if err != nil {
		return fmt.Errorf("加载电影数据失败: %w", err)
	}

	aliasMap, err := s.aliasRepo.AliasMap()
	if err != nil {
		log.Warnf("[CatalogService] 加载类型别名失败, 跳过归一化, error: %v", err)
		aliasMap = map[string]string{}
	}

	raws := make([]recommender.RawItem, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		raw := recommender.RawItem{
			ID:          m.SourceID,
			Title:       m.Title,
			Year:        m.Year,
			RawGenres:   splitRawGenres(m.RawGenres),
			Text:        m.Overview,
			Semantic:    m.SemanticEmbedding(),
			Traditional: m.TraditionalEmbedding(),
		}
		// 已带结构化特征的记录直接复用，省去重复提取
		if genres := m.GenreList(); len(genres) > 0 {
			raw.Features = &recommender.Features{
				Genres:   normalizeGenres(genres, aliasMap),
				Themes:   m.ThemeList(),
				Tone:     m.Tone,
				Audience: m.Audience,
			}
		}
		raws = append(raws, raw)
	}

	index, err := recommender.Build(ctx, raws, s.extractor)
	if err != nil {
		return fmt.Errorf("重建片库索引失败: %w", err)
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	log.Infof("[CatalogService] 片库索引重建完成, 条目数: %d", index.Size())
	return nil
}

// Index 返回当前片库索引。
func (s *catalogService) Index() (*recommender.CatalogIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil || s.index.Size() == 0 {
		return nil, recommender.ErrEmptyCatalog
	}
	return s.index, nil
}

// Size 返回当前索引条目数。
func (s *catalogService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Size()
}

// normalizeGenres 依据别名表把类型变体归一到规范名，保持顺序并去重。
func normalizeGenres(genres []string, aliasMap map[string]string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		canonical := strings.ToLower(strings.TrimSpace(g))
		if mapped, ok := aliasMap[canonical]; ok {
			canonical = mapped
		}
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

// splitRawGenres 拆分数据集的 '|' 分隔类型标签。
func splitRawGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
