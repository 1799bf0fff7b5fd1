// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"movie-rec-go/internal/model"
)

// MovieRepository 接口定义了电影数据的持久化操作。
type MovieRepository interface {
	Upsert(movie *model.Movie) error
	FindAll() ([]model.Movie, error)
	FindBySourceID(sourceID int) (*model.Movie, error)
	FindBatchBySourceIDs(sourceIDs []int) ([]model.Movie, error)
	Count() (int64, error)
	DeleteByModelVersion(version string) error
}

// movieRepository 是 MovieRepository 接口的 GORM 实现。
type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository 创建一个新的 MovieRepository 实例。
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Upsert 按数据集 movieId 插入或覆盖一条电影记录。
// 重复导入同一数据集时以最新增强结果为准。
func (r *movieRepository) Upsert(movie *model.Movie) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "year", "raw_genres", "overview",
			"genres", "themes", "tone", "audience",
			"semantic_vector", "traditional_vector", "model_version", "updated_at",
		}),
	}).Create(movie).Error
}

// FindAll 检索全部电影记录，供片库索引构建使用。
func (r *movieRepository) FindAll() ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.Order("source_id asc").Find(&movies).Error
	return movies, err
}

// FindBySourceID 根据数据集 movieId 查找一部电影。
func (r *movieRepository) FindBySourceID(sourceID int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("source_id = ?", sourceID).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindBatchBySourceIDs 按数据集 movieId 批量查找电影。
func (r *movieRepository) FindBatchBySourceIDs(sourceIDs []int) ([]model.Movie, error) {
	var movies []model.Movie
	if len(sourceIDs) == 0 {
		return movies, nil
	}
	err := r.db.Where("source_id IN ?", sourceIDs).Find(&movies).Error
	return movies, err
}

// Count 返回片库中的电影总数。
func (r *movieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}

// DeleteByModelVersion 删除指定模型版本的全部电影记录。
func (r *movieRepository) DeleteByModelVersion(version string) error {
	return r.db.Where("model_version = ?", version).Delete(&model.Movie{}).Error
}
