package repository

import (
	"time"

	"gorm.io/gorm"
	"movie-rec-go/internal/model"
)

// 数据集导入记录的处理状态。
const (
	ImportStatusProcessing = 0
	ImportStatusCompleted  = 1
	ImportStatusFailed     = 2
)

// DatasetImportRepository 接口定义了数据集导入记录的持久化操作。
type DatasetImportRepository interface {
	Create(record *model.DatasetImport) error
	FindByID(id uint) (*model.DatasetImport, error)
	FindByUserID(userID uint) ([]model.DatasetImport, error)
	FindAll() ([]model.DatasetImport, error)
	MarkCompleted(id uint, movieCount int) error
	MarkFailed(id uint) error
	Delete(id uint) error
}

type datasetImportRepository struct {
	db *gorm.DB
}

// NewDatasetImportRepository 创建一个新的 DatasetImportRepository 实例。
func NewDatasetImportRepository(db *gorm.DB) DatasetImportRepository {
	return &datasetImportRepository{db: db}
}

// Create 在数据库中创建一条新的数据集导入记录。
func (r *datasetImportRepository) Create(record *model.DatasetImport) error {
	return r.db.Create(record).Error
}

// FindByID 根据记录 ID 查找导入记录。
func (r *datasetImportRepository) FindByID(id uint) (*model.DatasetImport, error) {
	var record model.DatasetImport
	err := r.db.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByUserID 查找指定用户的全部导入记录。
func (r *datasetImportRepository) FindByUserID(userID uint) ([]model.DatasetImport, error) {
	var records []model.DatasetImport
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&records).Error
	return records, err
}

// FindAll 检索全部导入记录。
func (r *datasetImportRepository) FindAll() ([]model.DatasetImport, error) {
	var records []model.DatasetImport
	err := r.db.Order("created_at desc").Find(&records).Error
	return records, err
}

// MarkCompleted 将导入记录标记为处理完成并记录电影条数。
func (r *datasetImportRepository) MarkCompleted(id uint, movieCount int) error {
	now := time.Now()
	return r.db.Model(&model.DatasetImport{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       ImportStatusCompleted,
		"movie_count":  movieCount,
		"processed_at": &now,
	}).Error
}

// MarkFailed 将导入记录标记为处理失败。
func (r *datasetImportRepository) MarkFailed(id uint) error {
	now := time.Now()
	return r.db.Model(&model.DatasetImport{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       ImportStatusFailed,
		"processed_at": &now,
	}).Error
}

// Delete 删除一条导入记录。
func (r *datasetImportRepository) Delete(id uint) error {
	return r.db.Delete(&model.DatasetImport{}, id).Error
}
