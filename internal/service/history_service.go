package service

import (
	"context"

	"movie-rec-go/internal/model"
	"movie-rec-go/internal/repository"
)

// HistoryService 接口定义了查询历史相关的业务操作。
type HistoryService interface {
	List(ctx context.Context, userID uint) ([]model.QueryRecord, error)
	Clear(ctx context.Context, userID uint) error
}

type historyService struct {
	historyRepo repository.QueryHistoryRepository
}

// NewHistoryService 创建一个新的 HistoryService 实例。
func NewHistoryService(historyRepo repository.QueryHistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

// List 按时间倒序返回用户的历史查询。
func (s *historyService) List(ctx context.Context, userID uint) ([]model.QueryRecord, error) {
	return s.historyRepo.List(ctx, userID)
}

// Clear 清空用户的历史查询。
func (s *historyService) Clear(ctx context.Context, userID uint) error {
	return s.historyRepo.Clear(ctx, userID)
}
