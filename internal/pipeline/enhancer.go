// Package pipeline 实现了数据集的异步增强流水线：
// 从对象存储拉取 CSV，逐行提取特征并向量化，落库后重建片库索引。
package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"movie-rec-go/internal/config"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/recommender"
	"movie-rec-go/internal/repository"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/es"
	"movie-rec-go/pkg/log"
	"movie-rec-go/pkg/storage"
	"movie-rec-go/pkg/tasks"
)

// 增强结果的模型版本标签，写入每条电影记录。
const modelVersion = "hybrid-v1"

// Enhancer 消费片库增强任务。实现了 kafka.TaskProcessor 接口。
type Enhancer struct {
	movieRepo  repository.MovieRepository
	importRepo repository.DatasetImportRepository
	extractor  recommender.TextFeatureExtractor
	catalog    service.CatalogService
	minioCfg   config.MinIOConfig
	esCfg      config.ElasticsearchConfig
}

// NewEnhancer 创建一个新的 Enhancer 实例。
func NewEnhancer(
	movieRepo repository.MovieRepository,
	importRepo repository.DatasetImportRepository,
	extractor recommender.TextFeatureExtractor,
	catalog service.CatalogService,
	minioCfg config.MinIOConfig,
	esCfg config.ElasticsearchConfig,
) *Enhancer {
	return &Enhancer{
		movieRepo:  movieRepo,
		importRepo: importRepo,
		extractor:  extractor,
		catalog:    catalog,
		minioCfg:   minioCfg,
		esCfg:      esCfg,
	}
}

// Process 处理一个数据集增强任务。
// 单行解析失败跳过并记日志；向量化失败中断任务并标记导入失败，
// 由消费者的重试机制决定是否重做。
func (e *Enhancer) Process(ctx context.Context, task tasks.CatalogEnhanceTask) error {
	log.Infof("[Enhancer] 步骤1: 开始处理数据集, importID: %d, object: '%s'", task.ImportID, task.ObjectName)

	// 1. 从对象存储拉取数据集
	obj, err := storage.MinioClient.GetObject(ctx, e.minioCfg.BucketName, task.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		_ = e.importRepo.MarkFailed(task.ImportID)
		return fmt.Errorf("从对象存储获取数据集失败: %w", err)
	}
	defer obj.Close()

	count, err := e.enhanceCSV(ctx, obj)
	if err != nil {
		_ = e.importRepo.MarkFailed(task.ImportID)
		return err
	}

	// 2. 标记导入完成并重建片库索引
	if err := e.importRepo.MarkCompleted(task.ImportID, count); err != nil {
		return fmt.Errorf("更新导入记录失败: %w", err)
	}
	if err := e.catalog.Rebuild(ctx); err != nil {
		log.Errorf("[Enhancer] 片库索引重建失败, importID: %d, error: %v", task.ImportID, err)
		return err
	}

	log.Infof("[Enhancer] 步骤3: 数据集处理完成, importID: %d, 电影条数: %d", task.ImportID, count)
	return nil
}

// enhanceCSV 逐行增强数据集并落库，返回成功处理的行数。
// CSV 列: movieId,title,year,genres,overview[,traditional_embedding]
func (e *Enhancer) enhanceCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	count := 0
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warnf("[Enhancer] 第 %d 行解析失败, 跳过, error: %v", line, err)
			continue
		}
		// 表头行
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "movieid") {
			continue
		}
		if len(row) < 5 {
			log.Warnf("[Enhancer] 第 %d 行列数不足, 跳过", line)
			continue
		}

		sourceID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			log.Warnf("[Enhancer] 第 %d 行 movieId 非法, 跳过, value: '%s'", line, row[0])
			continue
		}
		title := strings.TrimSpace(row[1])
		year, _ := strconv.Atoi(strings.TrimSpace(row[2]))
		rawGenres := strings.TrimSpace(row[3])
		overview := strings.TrimSpace(row[4])

		movie, err := e.enhanceRow(ctx, sourceID, title, year, rawGenres, overview, row)
		if err != nil {
			return count, err
		}
		if err := e.movieRepo.Upsert(movie); err != nil {
			return count, fmt.Errorf("写入电影记录失败, movieId: %d: %w", sourceID, err)
		}

		// ES 文本索引失败不影响主流程：推荐不依赖 ES
		esDoc := model.EsMovie{
			MovieID:      sourceID,
			Title:        title,
			Year:         year,
			Genres:       movie.GenreList(),
			Overview:     overview,
			Themes:       movie.ThemeList(),
			Tone:         movie.Tone,
			ModelVersion: modelVersion,
		}
		if err := es.IndexMovie(ctx, e.esCfg.IndexName, esDoc); err != nil {
			log.Warnf("[Enhancer] 索引电影文档失败, movieId: %d, error: %v", sourceID, err)
		}

		count++
		if count%100 == 0 {
			log.Infof("[Enhancer] 步骤2: 已增强 %d 部电影", count)
		}
	}
	return count, nil
}

// enhanceRow 对单行执行特征提取与向量化，组装为待落库的电影记录。
func (e *Enhancer) enhanceRow(ctx context.Context, sourceID int, title string, year int, rawGenres, overview string, row []string) (*model.Movie, error) {
	// 特征提取：简介缺失或提取失败都以默认特征兜底
	var feats recommender.Features
	text := buildFeatureText(title, rawGenres, overview)
	if strings.TrimSpace(overview) == "" && rawGenres == "" {
		feats = recommender.DefaultFeatures()
	} else {
		extracted, err := e.extractor.Extract(ctx, text)
		if err != nil {
			log.Warnf("[Enhancer] 特征提取失败, 使用默认特征, movieId: %d, error: %v", sourceID, err)
			feats = recommender.DefaultFeatures()
		} else {
			feats = extracted
		}
	}

	// 语义向量化失败无法兜底，终止任务
	vec, err := e.extractor.Embed(ctx, feats.CanonicalText())
	if err != nil {
		return nil, fmt.Errorf("向量化失败, movieId: %d: %w", sourceID, err)
	}

	movie := &model.Movie{
		SourceID:       sourceID,
		Title:          title,
		Year:           year,
		RawGenres:      rawGenres,
		Overview:       overview,
		Genres:         model.EncodeStringList(feats.Genres),
		Themes:         model.EncodeStringList(feats.Themes),
		Tone:           feats.Tone,
		Audience:       feats.Audience,
		SemanticVector: model.EncodeVector(vec),
		ModelVersion:   modelVersion,
	}

	// 第 6 列（可选）为数据集自带的传统协同过滤向量，JSON 数组格式
	if len(row) >= 6 && strings.TrimSpace(row[5]) != "" {
		var trad []float32
		if err := json.Unmarshal([]byte(row[5]), &trad); err != nil {
			log.Warnf("[Enhancer] 传统向量解析失败, 忽略, movieId: %d, error: %v", sourceID, err)
		} else {
			movie.TraditionalVector = model.EncodeVector(trad)
		}
	}
	return movie, nil
}

// buildFeatureText 拼接用于特征提取的文本。
func buildFeatureText(title, rawGenres, overview string) string {
	parts := []string{title}
	if rawGenres != "" {
		parts = append(parts, strings.ReplaceAll(rawGenres, "|", ", "))
	}
	if overview != "" {
		parts = append(parts, overview)
	}
	return strings.Join(parts, ". ")
}
