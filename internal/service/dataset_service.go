package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"movie-rec-go/internal/config"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/repository"
	"movie-rec-go/pkg/kafka"
	"movie-rec-go/pkg/log"
	"movie-rec-go/pkg/storage"
	"movie-rec-go/pkg/tasks"
)

// DatasetService 接口定义了片库数据集的上传与管理操作。
type DatasetService interface {
	// Upload 接收数据集 CSV，存入对象存储并投递异步增强任务。
	Upload(ctx context.Context, reader io.Reader, size int64, fileName string, userID uint) (*model.DatasetImport, error)
	List(userID uint) ([]model.DatasetImport, error)
	Delete(ctx context.Context, importID, userID uint) error
}

type datasetService struct {
	importRepo repository.DatasetImportRepository
	minioCfg   config.MinIOConfig
}

// NewDatasetService 创建一个新的 DatasetService 实例。
func NewDatasetService(importRepo repository.DatasetImportRepository, minioCfg config.MinIOConfig) DatasetService {
	return &datasetService{
		importRepo: importRepo,
		minioCfg:   minioCfg,
	}
}

// Upload 处理数据集上传：对象存储落盘、导入记录建档、Kafka 任务投递。
// 增强流水线由消费者异步执行，上传请求即刻返回。
func (s *datasetService) Upload(ctx context.Context, reader io.Reader, size int64, fileName string, userID uint) (*model.DatasetImport, error) {
	log.Infof("[DatasetService] 步骤1: 收到数据集上传, fileName: '%s', size: %d, userID: %d", fileName, size, userID)

	// 1. 写入 MinIO，对象名带时间戳避免覆盖
	objectName := fmt.Sprintf("datasets/%d_%s", time.Now().UnixNano(), fileName)
	_, err := storage.MinioClient.PutObject(ctx, s.minioCfg.BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return nil, fmt.Errorf("写入对象存储失败: %w", err)
	}
	log.Infof("[DatasetService] 步骤2: 数据集已写入对象存储, object: '%s'", objectName)

	// 2. 创建导入记录
	record := &model.DatasetImport{
		FileName:   fileName,
		ObjectName: objectName,
		TotalSize:  size,
		Status:     repository.ImportStatusProcessing,
		UserID:     userID,
	}
	if err := s.importRepo.Create(record); err != nil {
		return nil, fmt.Errorf("创建导入记录失败: %w", err)
	}

	// 3. 投递异步增强任务
	task := tasks.CatalogEnhanceTask{
		ImportID:   record.ID,
		ObjectName: objectName,
		FileName:   fileName,
		UserID:     userID,
	}
	if err := kafka.ProduceEnhanceTask(task); err != nil {
		// 投递失败时标记导入失败，避免记录永远停留在 processing
		log.Errorf("[DatasetService] 投递增强任务失败, importID: %d, error: %v", record.ID, err)
		_ = s.importRepo.MarkFailed(record.ID)
		return nil, fmt.Errorf("投递增强任务失败: %w", err)
	}

	log.Infof("[DatasetService] 步骤3: 增强任务已投递, importID: %d", record.ID)
	return record, nil
}

// List 返回指定用户的导入记录。
func (s *datasetService) List(userID uint) ([]model.DatasetImport, error) {
	return s.importRepo.FindByUserID(userID)
}

// Delete 删除导入记录及其对象存储中的数据集文件。
func (s *datasetService) Delete(ctx context.Context, importID, userID uint) error {
	record, err := s.importRepo.FindByID(importID)
	if err != nil {
		return fmt.Errorf("导入记录不存在: %w", err)
	}
	if record.UserID != userID {
		return fmt.Errorf("无权删除该导入记录")
	}

	if err := storage.MinioClient.RemoveObject(ctx, s.minioCfg.BucketName, record.ObjectName, minio.RemoveObjectOptions{}); err != nil {
		log.Warnf("[DatasetService] 删除对象存储文件失败, object: '%s', error: %v", record.ObjectName, err)
	}
	return s.importRepo.Delete(importID)
}
